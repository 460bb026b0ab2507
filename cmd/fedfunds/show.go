package main

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/fedfunds/internal/types"
	"github.com/rxtech-lab/fedfunds/pkg/errors"
	"github.com/rxtech-lab/fedfunds/pkg/marketdata"
	"github.com/rxtech-lab/fedfunds/pkg/marketdata/reader"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print the head, tail and summary statistics of a written series file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "start",
				Usage: "Only consider rows on or after this `YYYY-MM-DD` date",
			},
			&cli.StringFlag{
				Name:  "end",
				Usage: "Only consider rows on or before this `YYYY-MM-DD` date",
			},
			&cli.IntFlag{
				Name:    "rows",
				Aliases: []string{"n"},
				Usage:   "Number of head and tail rows to print",
				Value:   5,
			},
		},
		Action: showAction,
	}
}

func optionalDateFlag(cmd *cli.Command, name string) (optional.Option[civil.Date], error) {
	if !cmd.IsSet(name) {
		return optional.None[civil.Date](), nil
	}

	date, err := marketdata.ParseDate(name, cmd.String(name))
	if err != nil {
		return optional.None[civil.Date](), err
	}

	return optional.Some(date), nil
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "show expects exactly one FILE argument")
	}

	start, err := optionalDateFlag(cmd, "start")
	if err != nil {
		return err
	}

	end, err := optionalDateFlag(cmd, "end")
	if err != nil {
		return err
	}

	if start.IsSome() && end.IsSome() && end.Unwrap().Before(start.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidRange, "end date %s is before start date %s", end.Unwrap(), start.Unwrap())
	}

	r, err := reader.Open(cmd.Args().First(), nil)
	if err != nil {
		return err
	}
	defer r.Close()

	series, err := r.Read(ctx, start, end)
	if err != nil {
		return err
	}

	stats, err := r.Stats(ctx, start, end)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	n := max(0, int(cmd.Int("rows")))
	columns := r.Columns()

	fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("%s (%s)", cmd.Args().First(), series.Frequency)))

	if series.IsEmpty() {
		fmt.Fprintln(out, HelpStyle.Render("no rows"))

		return nil
	}

	rows := newTable(columns.Index, columns.Value)
	for _, obs := range series.Head(n) {
		rows.Row(obs.Date.String(), displayValue(obs))
	}

	if series.Len() > 2*n {
		rows.Row("...", "...")
	}

	tailStart := max(min(n, series.Len()), series.Len()-n)
	for _, obs := range series.Observations[tailStart:] {
		rows.Row(obs.Date.String(), displayValue(obs))
	}

	fmt.Fprintln(out, rows.Render())

	summary := newTable("rows", "missing", "first", "last", "min", "max", "mean").Row(
		strconv.Itoa(stats.Rows),
		strconv.Itoa(stats.Missing),
		formatOptionalDate(stats.First),
		formatOptionalDate(stats.Last),
		formatOptionalFloat(stats.Min),
		formatOptionalFloat(stats.Max),
		formatOptionalFloat(stats.Mean),
	)
	fmt.Fprintln(out, summary.Render())

	return nil
}

func displayValue(obs types.Observation) string {
	if obs.IsMissing() {
		return "NaN"
	}

	return obs.FormatValue()
}

func formatOptionalDate(d optional.Option[civil.Date]) string {
	if d.IsNone() {
		return "-"
	}

	return d.Unwrap().String()
}

func formatOptionalFloat(v optional.Option[float64]) string {
	if v.IsNone() {
		return "-"
	}

	return strconv.FormatFloat(v.Unwrap(), 'f', 4, 64)
}
