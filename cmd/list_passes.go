package cmd

import (
	"github.com/achilleasa/passgraph/plugin"
	"github.com/urfave/cli"
)

// List the render pass libraries and pass types with known port layouts.
func ListPasses(ctx *cli.Context) error {
	setupLogging(ctx)

	logger.Noticef("pass catalog:\n%s", plugin.DefaultCatalog().Stats())
	return nil
}
