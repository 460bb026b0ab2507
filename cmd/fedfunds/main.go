package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rxtech-lab/fedfunds/internal/version"
	"github.com/rxtech-lab/fedfunds/pkg/errors"
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "fedfunds",
		Usage:   "Download the monthly Effective Federal Funds Rate from FRED and resample it to quarters",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			fetchCommand(),
			showCommand(),
			providersCommand(),
			schemaCommand(),
		},
	}
}

// errorLabel names the error code for failures that end a run, e.g. "SeriesNotFound: ".
func errorLabel(err error) string {
	if errors.IsTerminal(err) {
		return errors.GetCode(err).String() + ": "
	}

	return "Error: "
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(errorLabel(err))+err.Error())
		os.Exit(1)
	}
}
