package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/hsquant/stratbt/internal/datasource"
	"github.com/hsquant/stratbt/internal/logger"
)

// downloadAction fetches daily bars from Polygon and stores them in a
// DuckDB database for later backtesting.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	source, err := datasource.NewPolygonProvider(os.Getenv("POLYGON_API_KEY"), appLogger)
	if err != nil {
		return err
	}

	sink, err := datasource.NewDuckDBProvider(cmd.String("db"), appLogger)
	if err != nil {
		return err
	}
	defer sink.Close()

	if err := sink.InitSchema(ctx); err != nil {
		return err
	}

	symbols := cmd.StringSlice("symbol")
	start := cmd.Timestamp("start")
	end := cmd.Timestamp("end")

	bar := progressbar.NewOptions(len(symbols),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionShowCount(),
	)

	for _, symbol := range symbols {
		series, err := source.FetchHistory(ctx, symbol, start, end)
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", symbol, err)
		}

		if err := sink.Insert(ctx, symbol, series); err != nil {
			return err
		}

		log.Printf("%s: stored %d bars", symbol, len(series))
		bar.Add(1)
	}

	bar.Finish()

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download historical daily bars into a DuckDB database",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "symbol",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbol to download, may be repeated",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:     "start",
				Aliases:  []string{"s"},
				Usage:    "Start date in `YYYY-MM-DD` format",
				Required: true,
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the DuckDB database file",
				Value: "data/market_data.duckdb",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
