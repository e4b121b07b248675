package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/achilleasa/passgraph/lint"
	"github.com/achilleasa/passgraph/plugin"
	"github.com/achilleasa/passgraph/script"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

// Validate one or more scripts: parse them, check their settings, build their
// graphs and lint the graphs against the pass catalog.
func ValidateScripts(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing script file(s)")
	}

	// Scripts are independent; validate them in parallel and report
	// failures once all of them have been checked.
	strict := ctx.Bool("strict")
	results := make([]bool, ctx.NArg())
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for idx := 0; idx < ctx.NArg(); idx++ {
		idx, scriptFile := idx, ctx.Args().Get(idx)
		g.Go(func() error {
			ok, err := validateScript(scriptFile, strict)
			if err != nil {
				logger.Errorf("%s: %s", scriptFile, err.Error())
			}
			results[idx] = ok
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for _, ok := range results {
		if !ok {
			failed++
		}
	}

	if failed != 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d script(s) failed validation", failed, ctx.NArg()), 1)
	}
	return nil
}

// Returns false if the script is invalid. Lint errors only fail the script
// in strict mode.
func validateScript(scriptFile string, strict bool) (bool, error) {
	sc, err := script.ReadScript(scriptFile)
	if err != nil {
		return false, err
	}
	if err = sc.Validate(); err != nil {
		return false, err
	}

	loader := plugin.NewLoader(plugin.DefaultCatalog())
	graphs, err := sc.Build(loader)
	if err != nil {
		return false, err
	}

	ok := true
	for _, g := range graphs {
		issues := lint.Check(g, loader)
		for _, issue := range issues {
			if issue.Severity == lint.Error {
				logger.Errorf("%s: graph %q: %s: %s", scriptFile, g.Name(), issue.Subject, issue.Msg)
			} else {
				logger.Warningf("%s: graph %q: %s: %s", scriptFile, g.Name(), issue.Subject, issue.Msg)
			}
		}
		if strict && lint.HasErrors(issues) {
			ok = false
		}
	}

	if ok {
		logger.Noticef("%s: ok (%d graph(s))", scriptFile, len(graphs))
	}
	return ok, nil
}
