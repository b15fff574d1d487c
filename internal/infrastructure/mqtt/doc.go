// Package mqtt announces outlet state changes to an MQTT broker.
//
// outletctl is a one-shot tool, so this client is deliberately simpler
// than a daemon's: it connects, publishes a single retained state
// message and disconnects. There is no auto-reconnect, no subscription
// handling and no will message. If the publish fails, the caller logs
// a warning and moves on, because the device operation itself already
// succeeded.
//
// State messages are published retained to:
//
//	<topic_prefix>/<host>/state
//
// with a JSON payload:
//
//	{"host":"apb0.home.example","state":1,"timestamp":"2026-08-23T10:15:00Z"}
//
// Retained delivery means home automation systems see the last known
// outlet state the moment they subscribe, without polling the device.
package mqtt
