package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/frontpanel/cmd/panelctl/console"
	"github.com/mklimuk/frontpanel/panel"
)

var lampCmd = cli.Command{
	Name:  "lamp",
	Usage: "switch the panel lamp",
	Subcommands: cli.Commands{
		&lampOnCmd,
		&lampOffCmd,
	},
}

var lampOnCmd = cli.Command{
	Name: "on",
	Action: func(c *cli.Context) error {
		return setLamp(c, true)
	},
}

var lampOffCmd = cli.Command{
	Name: "off",
	Action: func(c *cli.Context) error {
		return setLamp(c, false)
	},
}

func setLamp(c *cli.Context, on bool) error {
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
	bridge.SetLamp(on)
	// one cycle to drain the queue, then shut down
	time.Sleep(2 * cfg.PollInterval())
	bridge.Stop()
	if on {
		console.PInfof(console.PictoLamp, "lamp switched %s", console.Green("on"))
	} else {
		console.PInfof(console.PictoLamp, "lamp switched %s", console.Yellow("off"))
	}
	return nil
}
