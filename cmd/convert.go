package cmd

import (
	"errors"

	"github.com/achilleasa/passgraph/plugin"
	"github.com/achilleasa/passgraph/script"
	"github.com/urfave/cli"
)

// Convert a script between the supported formats. The output format is
// selected by the extension of the --out flag.
func ConvertScript(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing script file")
	}
	outFile := ctx.String("out")
	if outFile == "" {
		return errors.New("missing output file; use --out")
	}

	sc, err := script.ReadScript(ctx.Args().First())
	if err != nil {
		return err
	}

	// Refuse to emit scripts the host would reject.
	if err = sc.Validate(); err != nil {
		return err
	}
	if _, err = sc.Build(plugin.NewLoader(nil)); err != nil {
		return err
	}

	return script.WriteScript(sc, outFile)
}
