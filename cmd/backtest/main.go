package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/hsquant/stratbt/internal/backtest"
	"github.com/hsquant/stratbt/internal/datasource"
	"github.com/hsquant/stratbt/internal/logger"
	"github.com/hsquant/stratbt/internal/strategy"
	"github.com/hsquant/stratbt/internal/types"
)

// backtestAction is the core logic executed by the CLI command.
// It loads the configuration, builds the data provider and strategy from
// flags, and runs one backtest per symbol.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	config := backtest.DefaultConfig()

	if configPath := cmd.String("config"); configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		config, err = backtest.ParseConfig(content)
		if err != nil {
			return err
		}
	}

	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	provider, err := buildProvider(cmd, appLogger)
	if err != nil {
		return err
	}

	strat, err := buildStrategy(cmd)
	if err != nil {
		return err
	}

	engine, err := backtest.New(config, backtest.WithLogger(appLogger))
	if err != nil {
		return err
	}

	outputDir := cmd.String("output")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	symbols := cmd.StringSlice("symbol")
	start := cmd.Timestamp("start")
	end := cmd.Timestamp("end")

	bar := progressbar.NewOptions(len(symbols),
		progressbar.OptionSetDescription("Running backtests"),
		progressbar.OptionShowCount(),
	)

	for _, symbol := range symbols {
		series, err := provider.FetchHistory(ctx, symbol, start, end)
		if err != nil {
			return fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
		}

		result, err := engine.Run(ctx, strat, symbol, series)
		if err != nil {
			return fmt.Errorf("backtest failed for %s: %w", symbol, err)
		}

		resultPath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.yaml", symbol, result.Strategy))
		if err := types.WriteResult(resultPath, *result); err != nil {
			return err
		}

		log.Printf("%s: total return %.2f%%, %d trades, result written to %s",
			symbol, result.Report.TotalReturn*100, len(result.Trades), resultPath)

		bar.Add(1)
	}

	bar.Finish()

	return nil
}

func buildProvider(cmd *cli.Command, appLogger *logger.Logger) (datasource.Provider, error) {
	if dbPath := cmd.String("db"); dbPath != "" {
		return datasource.NewDuckDBProvider(dbPath, appLogger)
	}

	if apiKey := os.Getenv("POLYGON_API_KEY"); cmd.Bool("polygon") {
		return datasource.NewPolygonProvider(apiKey, appLogger)
	}

	return datasource.NewCSVProvider(cmd.String("data"), appLogger), nil
}

func buildStrategy(cmd *cli.Command) (strategy.Strategy, error) {
	switch name := cmd.String("strategy"); name {
	case "ma_cross":
		return strategy.NewMovingAverageCross(strategy.MovingAverageCrossConfig{
			ShortPeriod: int(cmd.Int("short")),
			LongPeriod:  int(cmd.Int("long")),
			MAKind:      strategy.MAKind(cmd.String("ma")),
		})
	case "macd_cross":
		return strategy.NewMACDCross(strategy.MACDCrossConfig{
			FastPeriod:   int(cmd.Int("fast")),
			SlowPeriod:   int(cmd.Int("slow")),
			SignalPeriod: int(cmd.Int("signal")),
		})
	default:
		return nil, fmt.Errorf("unsupported strategy: %s", name)
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run a technical indicator strategy over historical market data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the backtest configuration YAML file",
			},
			&cli.StringSliceFlag{
				Name:     "symbol",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbol to backtest, may be repeated",
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
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Directory holding one <symbol>.csv file per symbol",
				Value:   "data",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to a DuckDB database with a market_data table. Overrides --data.",
			},
			&cli.BoolFlag{
				Name:  "polygon",
				Usage: "Fetch data from the Polygon API using POLYGON_API_KEY",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for result YAML files",
				Value:   "results",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Strategy to run: ma_cross or macd_cross",
				Value: "ma_cross",
			},
			&cli.IntFlag{
				Name:  "short",
				Usage: "Short moving average period for ma_cross",
				Value: 5,
			},
			&cli.IntFlag{
				Name:  "long",
				Usage: "Long moving average period for ma_cross",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "ma",
				Usage: "Moving average kind for ma_cross: SMA or EMA",
				Value: "SMA",
			},
			&cli.IntFlag{
				Name:  "fast",
				Usage: "Fast EMA period for macd_cross",
				Value: 12,
			},
			&cli.IntFlag{
				Name:  "slow",
				Usage: "Slow EMA period for macd_cross",
				Value: 26,
			},
			&cli.IntFlag{
				Name:  "signal",
				Usage: "Signal EMA period for macd_cross",
				Value: 9,
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
