package agent

import "github.com/ositech/dmtp-agent/internal/watchdog"

// newIndicator resolves the configured GPIO pin into a
// watchdog.Indicator, or returns nil (NopIndicator) when no pin name
// was configured at all — distinct from a configured pin that fails
// to resolve, which is logged by the caller.
func newIndicator(pinName string) (watchdog.Indicator, error) {
	if pinName == "" {
		return nil, nil
	}
	return watchdog.NewGPIOIndicator(pinName)
}
