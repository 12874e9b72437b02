package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/frontpanel"
	"github.com/mklimuk/frontpanel/adapter"
	"github.com/mklimuk/frontpanel/gobotadapter"
	"github.com/mklimuk/frontpanel/i2c"
	"github.com/mklimuk/frontpanel/panel"
)

func loadConfig(c *cli.Context) (panel.Config, error) {
	return panel.LoadConfig(c.String("config"))
}

// openBus picks the transport for the configured bus. The bridge takes
// ownership of the returned session and closes it on Stop.
func openBus(cfg panel.Config) (frontpanel.I2CBus, error) {
	switch cfg.Transport {
	case panel.TransportPeriph:
		return i2c.NewGenericBus(cfg.Device)
	case panel.TransportGobot:
		busNr, err := strconv.Atoi(cfg.Device)
		if err != nil {
			return nil, fmt.Errorf("gobot transport expects a numeric bus, got %q", cfg.Device)
		}
		return gobotadapter.NewBus(busNr)
	case panel.TransportMCP2221:
		return adapter.NewMCP2221(), nil
	}
	return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
}
