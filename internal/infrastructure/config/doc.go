// Package config handles loading and validating outletctl configuration.
//
// This package manages:
//   - Loading the tool configuration from a YAML file
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The tool configuration is distinct from the device table (the JSON
// host → [id, key] mapping handled by the identity package). The tool
// configuration is optional: a missing file means defaults apply. The
// device table is only consulted when credentials are not supplied on
// the command line.
//
// Security Considerations:
//   - MQTT credentials should be set via environment variables
//   - The config file should have restricted permissions (0600), since
//     it can carry broker credentials
//
// Usage:
//
//	cfg, err := config.Load("/etc/outletctl/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Table.Path)
package config
