// Package config provides client configuration management for adcon.
//
// This package manages a YAML-based configuration file that stores the
// administration service URL, request timeout, TLS options, and console
// preferences. The configuration follows OS-specific conventions for
// storage location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/adcon/config.yaml or $HOME/.config/adcon/config.yaml
//   - macOS: $HOME/.config/adcon/config.yaml
//   - Windows: %LOCALAPPDATA%\adcon\config.yaml
//
// # Security
//
// This package NEVER stores credentials. Authentication against the
// administration service is cookie-based and asserted by the service.
//
// # Usage Example
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewClient(cfg.Server.URL)
//
// # Thread Safety
//
// Load returns a lazily created singleton; Save performs an atomic
// write-and-rename so a crash can never leave a torn file behind.
package config
