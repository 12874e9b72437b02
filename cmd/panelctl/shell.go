package main

import (
	"context"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/frontpanel/cmd/panelctl/console"
	"github.com/mklimuk/frontpanel/panel"
)

var shellCmd = cli.Command{
	Name:  "shell",
	Usage: "interactive panel session",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Exit(1, "invalid configuration: %s", console.Red(err))
		}
		bus, err := openBus(cfg)
		if err != nil {
			return console.Exit(1, "transport initialization error: %s", console.Red(err))
		}
		bridge := panel.NewBridge(bus,
			panel.WithAddress(cfg.Address),
			panel.WithPollInterval(cfg.PollInterval()),
		)
		err = bridge.Start(context.Background())
		if err != nil {
			return console.Exit(1, "bridge start error: %s", console.Red(err))
		}
		defer bridge.Stop()

		console.PInfof(console.PictoRadio, "panel session on bus %s, addr %#x (on/off/read/freq/quit)", cfg.Device, cfg.Address)
		for {
			line, err := console.Prompt("panel> ")
			if err != nil {
				// readline returns an error on ^C/^D
				return nil
			}
			switch strings.TrimSpace(line) {
			case "on":
				bridge.SetLamp(true)
			case "off":
				bridge.SetLamp(false)
			case "read":
				printReadings(bridge.Readings())
			case "freq":
				r := bridge.Readings()
				tenths := panel.RawToFrequencyTenths(int(r.Tuner))
				console.Printf("%s MHz\n", console.White(float64(tenths)/10))
			case "quit", "exit", "q":
				// give pending lamp commands one cycle before teardown
				time.Sleep(2 * cfg.PollInterval())
				return nil
			case "":
			default:
				console.Warnf("unknown command %q", strings.TrimSpace(line))
			}
		}
	},
}
