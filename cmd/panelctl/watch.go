package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/frontpanel/cmd/panelctl/console"
	"github.com/mklimuk/frontpanel/panel"
)

var watchCmd = cli.Command{
	Name:  "watch",
	Usage: "run the bridge and print panel readings until interrupted",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:  "refresh",
			Value: 500 * time.Millisecond,
			Usage: "console refresh interval",
		},
		&cli.BoolFlag{
			Name:  "lamp",
			Value: true,
			Usage: "keep the panel lamp on while watching",
		},
	},
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
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = bridge.Start(ctx)
		if err != nil {
			return console.Exit(1, "bridge start error: %s", console.Red(err))
		}
		defer bridge.Stop()
		if c.Bool("lamp") {
			bridge.SetLamp(true)
		}

		ticker := time.NewTicker(c.Duration("refresh"))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				if c.Bool("lamp") {
					bridge.SetLamp(false)
					// leave the worker one cycle to deliver the command
					time.Sleep(2 * cfg.PollInterval())
				}
				return nil
			case <-ticker.C:
				printReadings(bridge.Readings())
			}
		}
	},
}

func printReadings(r panel.Readings) {
	tenths := panel.RawToFrequencyTenths(int(r.Tuner))
	console.Printf("tuner %s  freq %s MHz  A %s  B %s  C %s  sw %s\n",
		console.White(r.Tuner),
		console.White(float64(tenths)/10),
		console.White(r.KnobA),
		console.White(r.KnobB),
		console.White(r.KnobC),
		console.White(r.Switch),
	)
}
