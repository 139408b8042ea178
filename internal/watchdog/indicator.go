package watchdog

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIOIndicator toggles a GPIO output pin once per wake, the Go
// analogue of watchdog.c's flash_running_light(1) running-light call.
type GPIOIndicator struct {
	pin gpio.PinIO
	on  bool
}

// NewGPIOIndicator initializes the host GPIO subsystem and binds to
// the named pin. If the platform has no such pin (not running on the
// target hardware), the caller should fall back to NopIndicator
// rather than fail startup over a liveness light.
func NewGPIOIndicator(pinName string) (*GPIOIndicator, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("watchdog: gpio host init: %w", err)
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("watchdog: gpio pin %q not found", pinName)
	}
	return &GPIOIndicator{pin: pin}, nil
}

func (g *GPIOIndicator) Toggle() error {
	g.on = !g.on
	level := gpio.Low
	if g.on {
		level = gpio.High
	}
	return g.pin.Out(level)
}

var (
	_ Indicator = (*GPIOIndicator)(nil)
	_ Indicator = NopIndicator{}
)
