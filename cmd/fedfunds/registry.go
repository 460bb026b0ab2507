package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rxtech-lab/fedfunds/pkg/marketdata"
	"github.com/urfave/cli/v3"
)

func providersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List the supported series providers",
		Action: func(_ context.Context, cmd *cli.Command) error {
			providers := newTable("name", "display name", "requires key", "base url", "description")

			for _, name := range marketdata.GetSupportedProviders() {
				info, err := marketdata.GetProviderInfo(name)
				if err != nil {
					return err
				}

				providers.Row(info.Name, info.DisplayName, strconv.FormatBool(info.RequiresAuth), info.BaseURL, info.Description)
			}

			fmt.Fprintln(cmd.Root().Writer, providers.Render())

			return nil
		},
	}
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of the YAML config file",
		Action: func(_ context.Context, cmd *cli.Command) error {
			schema, err := marketdata.GetConfigSchema()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.Root().Writer, schema)

			return nil
		},
	}
}
