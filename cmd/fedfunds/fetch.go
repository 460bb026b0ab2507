package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/fedfunds/internal/logger"
	"github.com/rxtech-lab/fedfunds/pkg/marketdata"
	"github.com/rxtech-lab/fedfunds/pkg/marketdata/provider"
	"github.com/rxtech-lab/fedfunds/pkg/marketdata/resample"
	"github.com/rxtech-lab/fedfunds/pkg/marketdata/writer"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	defaultSeries = "FEDFUNDS"
	defaultAlias  = "fedfunds"
	defaultStart  = "1990-01-01"
	defaultData   = "data"
)

// fetchSettings is the resolved input of one fetch run:
// built-in defaults, then the config file, then flags that were set explicitly.
type fetchSettings struct {
	Series        string
	Alias         string
	Provider      provider.ProviderType
	Writer        writer.WriterType
	DataPath      string
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	Policy        resample.Policy
	Start         civil.Date
	End           civil.Date
	MonthlyFile   string
	QuarterlyFile string
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Download the monthly series, resample it to quarters and write both files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "series",
				Aliases: []string{"s"},
				Usage:   "FRED series identifier",
				Value:   defaultSeries,
			},
			&cli.StringFlag{
				Name:  "alias",
				Usage: "Name of the value column in the output files",
				Value: defaultAlias,
			},
			&cli.StringFlag{
				Name:  "start",
				Usage: "First date of the interval in `YYYY-MM-DD` format",
				Value: defaultStart,
			},
			&cli.StringFlag{
				Name:  "end",
				Usage: "Last date of the interval in `YYYY-MM-DD` format. Defaults to today.",
			},
			&cli.StringFlag{
				Name:    "quarterly-method",
				Aliases: []string{"m"},
				Usage:   fmt.Sprintf("Quarterly aggregation policy (%s or %s)", resample.PolicyMean, resample.PolicyLast),
				Value:   string(resample.PolicyMean),
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider to use (%s or %s)", provider.ProviderFREDGraph, provider.ProviderFRED),
				Value:   string(provider.ProviderFREDGraph),
			},
			&cli.StringFlag{
				Name:    "writer",
				Aliases: []string{"w"},
				Usage:   fmt.Sprintf("Output format (%s or %s)", writer.WriterCSV, writer.WriterDuckDB),
				Value:   string(writer.WriterCSV),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the data output directory",
				Value:   defaultData,
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "FRED API key, required by the fred provider",
				Sources: cli.EnvVars("FRED_API_KEY"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "HTTP timeout of the download",
				Value: provider.DefaultTimeout,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Optional YAML config file; flags set on the command line override it",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Do not draw the download progress bar",
			},
			&cli.StringFlag{
				Name:   "base-url",
				Usage:  "Override the provider host",
				Hidden: true,
			},
		},
		Action: fetchAction,
	}
}

func fetchAction(ctx context.Context, cmd *cli.Command) error {
	var fileConfig *marketdata.FileConfig

	if path := cmd.String("config"); path != "" {
		loaded, err := marketdata.LoadConfigFile(path)
		if err != nil {
			return err
		}

		fileConfig = loaded
	}

	settings, err := resolveFetchSettings(cmd, fileConfig, civil.DateOf(time.Now()))
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	log = log.With(zap.String("run_id", uuid.New().String()))

	opts := []marketdata.ClientOption{marketdata.WithLogger(log)}

	if !cmd.Bool("no-progress") {
		bar := progressbar.NewOptions64(1,
			progressbar.OptionSetWriter(cmd.Root().ErrWriter),
			progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", settings.Series)),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Close()

		opts = append(opts, marketdata.WithProgress(func(current, total float64, message string) {
			bar.ChangeMax64(int64(total))
			bar.Describe(message)
			_ = bar.Set64(int64(current))
		}))
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType: settings.Provider,
		WriterType:   settings.Writer,
		DataPath:     settings.DataPath,
		FREDApiKey:   settings.APIKey,
		Timeout:      settings.Timeout,
		BaseURL:      settings.BaseURL,
	}, opts...)
	if err != nil {
		return err
	}

	result, err := client.Run(ctx, marketdata.RunParams{
		RetrieveParams: marketdata.RetrieveParams{
			SeriesID:  settings.Series,
			Alias:     settings.Alias,
			StartDate: settings.Start,
			EndDate:   settings.End,
		},
		Policy:        settings.Policy,
		MonthlyFile:   settings.MonthlyFile,
		QuarterlyFile: settings.QuarterlyFile,
	})
	if err != nil {
		return err
	}

	summary := newTable("series", "path", "rows").
		Row(settings.Alias+" monthly", result.Monthly.Path, strconv.Itoa(result.Monthly.Rows)).
		Row(fmt.Sprintf("%s quarterly (%s)", settings.Alias, result.Policy), result.Quarterly.Path, strconv.Itoa(result.Quarterly.Rows))

	fmt.Fprintln(cmd.Root().Writer, TitleStyle.Render("Saved"))
	fmt.Fprintln(cmd.Root().Writer, summary.Render())

	return nil
}

// resolveFetchSettings layers the config file and explicitly set flags over the flag defaults.
// today is the default end date.
func resolveFetchSettings(cmd *cli.Command, fileConfig *marketdata.FileConfig, today civil.Date) (fetchSettings, error) {
	pick := func(flag string, fromFile string) string {
		if cmd.IsSet(flag) || fromFile == "" {
			return cmd.String(flag)
		}

		return fromFile
	}

	if fileConfig == nil {
		fileConfig = &marketdata.FileConfig{}
	}

	settings := fetchSettings{
		Series:        pick("series", fileConfig.Series),
		Alias:         pick("alias", fileConfig.Alias),
		Provider:      provider.ProviderType(pick("provider", fileConfig.Provider)),
		Writer:        writer.WriterType(pick("writer", fileConfig.Writer)),
		DataPath:      pick("data", fileConfig.DataPath),
		APIKey:        pick("api-key", fileConfig.APIKey),
		BaseURL:       cmd.String("base-url"),
		Timeout:       cmd.Duration("timeout"),
		MonthlyFile:   fileConfig.MonthlyFile,
		QuarterlyFile: fileConfig.QuarterlyFile,
	}

	if !cmd.IsSet("timeout") {
		timeout, err := fileConfig.TimeoutDuration()
		if err != nil {
			return fetchSettings{}, err
		}

		settings.Timeout = timeout.TakeOr(settings.Timeout)
	}

	policy, err := resample.ParsePolicy(pick("quarterly-method", fileConfig.QuarterlyMethod))
	if err != nil {
		return fetchSettings{}, err
	}

	settings.Policy = policy

	fileStart, err := fileConfig.StartDate()
	if err != nil {
		return fetchSettings{}, err
	}

	settings.Start, err = pickDate(cmd, "start", fileStart, optional.None[civil.Date]())
	if err != nil {
		return fetchSettings{}, err
	}

	fileEnd, err := fileConfig.EndDate()
	if err != nil {
		return fetchSettings{}, err
	}

	settings.End, err = pickDate(cmd, "end", fileEnd, optional.Some(today))
	if err != nil {
		return fetchSettings{}, err
	}

	return settings, nil
}

// pickDate prefers an explicitly set flag, then the config file value, then fallback,
// then the flag default.
func pickDate(cmd *cli.Command, flag string, fromFile optional.Option[civil.Date], fallback optional.Option[civil.Date]) (civil.Date, error) {
	if !cmd.IsSet(flag) {
		if fromFile.IsSome() {
			return fromFile.Unwrap(), nil
		}

		if fallback.IsSome() {
			return fallback.Unwrap(), nil
		}
	}

	return marketdata.ParseDate(flag, cmd.String(flag))
}
