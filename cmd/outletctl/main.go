// outletctl drives network-attached smart outlets over the Tuya local
// protocol: query the relay state, switch it, or toggle it, one device
// per invocation.
//
// Usage:
//
//	outletctl [flags] host [command]
//
// Commands (default: state):
//
//	0, off      switch the outlet off
//	1, on       switch the outlet on
//	t, toggle   read the state and switch to the opposite
//	s, state    print the current state ("0" or "1") to stdout
//	status      alias for state
//
// Exit codes:
//
//	0  success
//	1  device table or configuration syntax error
//	2  usage error, missing device table, or unknown host
//	3  device communication failure
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/outletctl/internal/identity"
	"github.com/nerrad567/outletctl/internal/infrastructure/config"
	"github.com/nerrad567/outletctl/internal/infrastructure/logging"
	"github.com/nerrad567/outletctl/internal/infrastructure/mqtt"
	"github.com/nerrad567/outletctl/internal/outlet"
	"github.com/nerrad567/outletctl/internal/tuya"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// defaultConfigPath is where the optional tool configuration lives.
// Overridable with OUTLETCTL_CONFIG.
const defaultConfigPath = "/etc/outletctl/config.yaml"

// Exit codes. They match what shell callers of the tool have always
// keyed on.
const (
	exitOK     = 0
	exitSyntax = 1
	exitUsage  = 2
	exitDevice = 3
)

// action is a parsed device command.
type action int

const (
	actionState action = iota
	actionOn
	actionOff
	actionToggle
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// cliOptions are the parsed command-line inputs.
type cliOptions struct {
	deviceID    string
	deviceKey   string
	tablePath   string
	showVersion bool

	host    string
	command action
}

// run is the testable body of main: parse, resolve, operate, report.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, code, done := parseArgs(args, stdout, stderr)
	if done {
		return code
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "outletctl %s\n", version)
		return exitOK
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitSyntax
	}

	log := logging.New(cfg.Logging, version)

	tablePath := cfg.Table.Path
	if opts.tablePath != "" {
		tablePath = opts.tablePath
	}

	resolver := identity.NewResolver(nil, nil)
	id, err := resolver.Resolve(ctx, opts.host, opts.deviceID, opts.deviceKey, tablePath)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitCodeFor(err)
	}

	client, err := tuya.NewClient(tuya.Config{
		DeviceID:   id.DeviceID,
		Host:       id.Host,
		Key:        id.DeviceKey,
		Port:       cfg.Device.Port,
		Version:    cfg.Device.Version,
		RetryLimit: cfg.Device.SocketRetryLimit,
		Timeout:    cfg.GetSocketTimeout(),
	})
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitCodeFor(err)
	}
	defer client.Close()

	controller := outlet.NewWithTransport(client)

	result, err := dispatch(ctx, controller, opts.command, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitCodeFor(err)
	}

	if result.announce && cfg.MQTT.Enabled {
		announceState(cfg.MQTT, opts.host, result.state, log)
	}
	return exitOK
}

// dispatchResult carries what a completed device operation produced.
type dispatchResult struct {
	// state is the outlet state after the operation.
	state outlet.State

	// announce is true for operations that changed the device, making
	// the state worth publishing.
	announce bool
}

// dispatch executes the parsed command against the controller.
func dispatch(ctx context.Context, c *outlet.Controller, cmd action, stdout io.Writer) (dispatchResult, error) {
	switch cmd {
	case actionOn:
		if err := c.TurnOn(ctx); err != nil {
			return dispatchResult{}, err
		}
		return dispatchResult{state: outlet.On, announce: true}, nil

	case actionOff:
		if err := c.TurnOff(ctx); err != nil {
			return dispatchResult{}, err
		}
		return dispatchResult{state: outlet.Off, announce: true}, nil

	case actionToggle:
		state, err := c.Toggle(ctx)
		if err != nil {
			return dispatchResult{}, err
		}
		return dispatchResult{state: state, announce: true}, nil

	default: // actionState
		state, err := c.GetState(ctx)
		if err != nil {
			return dispatchResult{}, err
		}
		fmt.Fprintln(stdout, state.String())
		return dispatchResult{state: state}, nil
	}
}

// parseArgs parses flags and positional arguments.
//
// Returns the parsed options, plus an exit code and done flag when
// parsing itself resolved the invocation (usage output, parse error).
func parseArgs(args []string, stdout, stderr io.Writer) (cliOptions, int, bool) {
	var opts cliOptions

	flags := flag.NewFlagSet("outletctl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.deviceID, "d", "", "device id (overrides the device table)")
	flags.StringVar(&opts.deviceID, "id", "", "device id (overrides the device table)")
	flags.StringVar(&opts.deviceKey, "k", "", "device key (overrides the device table)")
	flags.StringVar(&opts.deviceKey, "key", "", "device key (overrides the device table)")
	flags.StringVar(&opts.tablePath, "f", "", "device table path (overrides configuration)")
	flags.StringVar(&opts.tablePath, "config", "", "device table path (overrides configuration)")
	flags.BoolVar(&opts.showVersion, "v", false, "print version and exit")
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flags.Usage = func() { usage(flags.Output()) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, exitOK, true
		}
		return opts, exitUsage, true
	}

	if opts.showVersion {
		return opts, 0, false
	}

	rest := flags.Args()
	if len(rest) == 0 {
		usage(stdout)
		return opts, exitOK, true
	}
	if len(rest) > 2 {
		fmt.Fprintf(stderr, "ERROR: too many arguments\n")
		usage(stderr)
		return opts, exitUsage, true
	}

	opts.host = rest[0]

	command := "state"
	if len(rest) == 2 {
		command = rest[1]
	}
	parsed, err := parseCommand(command)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		usage(stderr)
		return opts, exitUsage, true
	}
	opts.command = parsed

	return opts, 0, false
}

// parseCommand maps a command word to its action.
func parseCommand(word string) (action, error) {
	switch word {
	case "0", "off":
		return actionOff, nil
	case "1", "on":
		return actionOn, nil
	case "t", "toggle":
		return actionToggle, nil
	case "s", "state", "status":
		return actionState, nil
	default:
		return actionState, fmt.Errorf("unknown command %q", word)
	}
}

// usage prints the command synopsis.
func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: outletctl [flags] host [command]

Commands (default: state):
  0, off       switch the outlet off
  1, on        switch the outlet on
  t, toggle    switch the outlet to the opposite state
  s, state     print the current state (0 or 1)
  status       alias for state

Flags:
  -d, -id      device id (overrides the device table)
  -k, -key     device key (overrides the device table)
  -f, -config  device table path (overrides configuration)
  -v, -version print version and exit
`)
}

// loadConfig loads the optional tool configuration.
//
// A missing file is not an error: the tool runs fine on defaults. Any
// other load failure (unreadable, unparseable, invalid) is fatal.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("OUTLETCTL_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// announceState publishes the new outlet state to MQTT. Announcement
// failures never change the exit code: the device operation already
// succeeded, so the caller only gets a warning.
func announceState(cfg config.MQTTConfig, host string, state outlet.State, log *logging.Logger) {
	client, err := mqtt.Connect(cfg)
	if err != nil {
		log.Warn("state announcement skipped", "error", err)
		return
	}
	defer client.Close()

	stateInt := 0
	if state == outlet.On {
		stateInt = 1
	}
	if err := client.PublishState(host, stateInt); err != nil {
		log.Warn("state announcement failed", "error", err)
	}
}

// exitCodeFor maps an operation failure to the tool's exit code
// contract.
func exitCodeFor(err error) int {
	var derr *outlet.DeviceError
	var terr *tuya.Error
	switch {
	case errors.Is(err, identity.ErrTableSyntax):
		return exitSyntax
	case errors.Is(err, identity.ErrTableNotFound),
		errors.Is(err, identity.ErrUnknownHost),
		errors.Is(err, identity.ErrEmptyHost):
		return exitUsage
	case errors.As(err, &derr), errors.As(err, &terr):
		return exitDevice
	default:
		return exitDevice
	}
}
