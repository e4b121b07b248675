package cmd

import (
	"errors"

	"github.com/achilleasa/passgraph/plugin"
	"github.com/achilleasa/passgraph/script"
	"github.com/urfave/cli"
)

// Display script settings and graph info.
func ShowScriptInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing script file")
	}

	sc, err := script.ReadScript(ctx.Args().First())
	if err != nil {
		return err
	}

	logger.Noticef("script information:\n%s", sc.Stats())

	graphs, err := sc.Build(plugin.NewLoader(plugin.DefaultCatalog()))
	if err != nil {
		return err
	}
	for _, g := range graphs {
		logger.Noticef("graph %q:\n%s", g.Name(), g.Stats())
	}

	return nil
}
