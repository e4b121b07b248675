package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/passgraph/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "passgraph"
	app.Usage = "inspect, validate and convert render graph scripts"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set the log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "validate",
			Usage: "validate render graph scripts",
			Description: `
Parse each script (.py or .yaml), check its scene, window and clock settings
and build its render graphs. The graphs are then checked against the port
layouts of the catalogued pass libraries.

Catalog issues are reported but only fail validation when --strict is set.`,
			ArgsUsage: "script1.py script2.yaml ...",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "strict",
					Usage: "treat catalog errors as validation failures",
				},
			},
			Action: cmd.ValidateScripts,
		},
		{
			Name:      "info",
			Usage:     "print script settings and graph statistics",
			ArgsUsage: "script.py",
			Action:    cmd.ShowScriptInfo,
		},
		{
			Name:  "convert",
			Usage: "convert a script between the python and yaml formats",
			Description: `
Read a script and write it back out in the format selected by the extension
of the output file (.py or .yaml).`,
			ArgsUsage: "script.py",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output script filename",
				},
			},
			Action: cmd.ConvertScript,
		},
		{
			Name:   "list-passes",
			Usage:  "list catalogued render pass libraries and their ports",
			Action: cmd.ListPasses,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
