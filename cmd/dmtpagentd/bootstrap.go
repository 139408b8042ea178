package main

import (
	"fmt"

	"github.com/ositech/dmtp-agent/internal/config"
	"github.com/ositech/dmtp-agent/internal/property"
)

// loadStore runs the bootstrap-config-then-persisted-file sequence
// every subcommand that touches properties needs: read the optional
// bootstrap file, seed it onto the compiled-in definition table, then
// build a Store that loads any persisted overrides on top.
func loadStore() (*property.Store, config.Bootstrap, error) {
	boot, err := config.Load(configPath)
	if err != nil {
		return nil, config.Bootstrap{}, fmt.Errorf("loading bootstrap config: %w", err)
	}
	setLogLevel(boot.LogLevel)

	defs := boot.SeedDefinitions(property.DefaultDefinitions())
	store, err := property.NewStore(defs, boot.PropertyFile)
	if err != nil {
		return nil, config.Bootstrap{}, fmt.Errorf("building property store: %w", err)
	}
	return store, boot, nil
}
