package main

import (
	"math"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/frontpanel/cmd/panelctl/console"
	"github.com/mklimuk/frontpanel/panel"
)

var tuneCmd = cli.Command{
	Name:  "tune",
	Usage: "convert between tuner codes and frequencies",
	Subcommands: cli.Commands{
		&tuneRawCmd,
		&tuneFreqCmd,
	},
}

var tuneRawCmd = cli.Command{
	Name:      "raw",
	Usage:     "print the frequency for a raw tuner code",
	ArgsUsage: "<code>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "usage: panelctl tune raw <code>")
		}
		raw, err := strconv.Atoi(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "invalid tuner code: %s", console.Red(err))
		}
		tenths := panel.RawToFrequencyTenths(raw)
		console.Printf("%s MHz\n", console.White(float64(tenths)/10))
		return nil
	},
}

var tuneFreqCmd = cli.Command{
	Name:      "freq",
	Usage:     "print the raw tuner code for a frequency in MHz",
	ArgsUsage: "<mhz>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "usage: panelctl tune freq <mhz>")
		}
		mhz, err := strconv.ParseFloat(c.Args().Get(0), 64)
		if err != nil {
			return console.Exit(1, "invalid frequency: %s", console.Red(err))
		}
		raw := panel.FrequencyTenthsToRaw(int(math.Round(mhz * 10)))
		console.Printf("%s\n", console.White(raw))
		return nil
	},
}
