package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"arbflow/config"
	"arbflow/logger"
	"arbflow/models"
	"arbflow/processor"
	"arbflow/reader"
	"arbflow/reader/binance"
	"arbflow/reader/bybit"
	"arbflow/reader/coindcx"
	"arbflow/reader/delta"
	"arbflow/trader"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	threshold := flag.Float64("threshold", 0, "Minimum funding-rate difference (raw decimal, e.g. 0.003)")
	jsonOut := flag.Bool("json", false, "Print the scan result as JSON")
	noDelta := flag.Bool("no-delta", false, "Exclude Delta Exchange from the scan")
	watch := flag.Duration("watch", 0, "Rescan continuously at this interval instead of once")

	doTrade := flag.Bool("trade", false, "Execute a two-leg trade instead of scanning")
	tradeSymbol := flag.String("symbol", "", "Canonical symbol to trade")
	shortExchange := flag.String("short", "", "Exchange for the short leg")
	longExchange := flag.String("long", "", "Exchange for the long leg")
	shortSymbol := flag.String("short-symbol", "", "Exchange-native symbol for the short leg")
	longSymbol := flag.String("long-symbol", "", "Exchange-native symbol for the long leg")
	quantity := flag.Float64("qty", 0, "Order quantity per leg")
	leverage := flag.Float64("leverage", 1, "Leverage per leg")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service":     cfg.Arbflow.Name,
		"version":     cfg.Arbflow.Version,
		"environment": config.AppEnvironment(),
	}).Info("starting arbflow")

	if cfg.Metrics.CloudWatch.Enabled {
		cw := cfg.Metrics.CloudWatch
		logger.InitCloudWatch(cw.Region, cw.Namespace, cw.DashboardName)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.StartReport(ctx, log, 30*time.Second)
	}

	creds := config.LoadCredentials()

	if *doTrade {
		runTrade(ctx, log, cfg, creds, models.TradeRequest{
			Symbol:        *tradeSymbol,
			ShortExchange: *shortExchange,
			LongExchange:  *longExchange,
			ShortSymbol:   *shortSymbol,
			LongSymbol:    *longSymbol,
			Quantity:      *quantity,
			Leverage:      *leverage,
		})
		return
	}

	scanner := processor.NewScanner(cfg, buildFeeds(cfg, *noDelta))

	minDiff := cfg.Scanner.DefaultThreshold
	if *threshold > 0 {
		minDiff = *threshold
	}

	result := scanner.Scan(ctx, minDiff)
	printResult(log, result, *jsonOut)

	if *watch <= 0 {
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*watch)
	defer ticker.Stop()

	for {
		select {
		case sig := <-sigCh:
			log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutting down")
			return
		case <-ticker.C:
			result := scanner.Scan(ctx, minDiff)
			printResult(log, result, *jsonOut)
		}
	}
}

// buildFeeds wires one funding reader per enabled exchange. The order fixes
// pair enumeration in scan results.
func buildFeeds(cfg *config.Config, noDelta bool) []reader.Feed {
	var feeds []reader.Feed
	if cfg.Source.Binance.Enabled {
		feeds = append(feeds, binance.NewFundingReader(cfg))
	}
	if cfg.Source.Bybit.Enabled {
		feeds = append(feeds, bybit.NewFundingReader(cfg))
	}
	if cfg.Source.Coindcx.Enabled {
		feeds = append(feeds, coindcx.NewFundingReader(cfg))
	}
	if cfg.Source.Delta.Enabled && cfg.Scanner.IncludeDelta && !noDelta {
		feeds = append(feeds, delta.NewFundingReader(cfg))
	}
	return feeds
}

func runTrade(ctx context.Context, log *logger.Log, cfg *config.Config, creds config.Credentials, req models.TradeRequest) {
	result := trader.NewTrader(cfg, creds).Execute(ctx, req)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.WithError(err).Error("failed to encode trade result")
		os.Exit(1)
	}
	fmt.Println(string(data))

	if !result.Success {
		os.Exit(1)
	}
}

func printResult(log *logger.Log, result *models.ScanResult, jsonOut bool) {
	if jsonOut {
		data, err := json.Marshal(result)
		if err != nil {
			log.WithError(err).Error("failed to encode scan result")
			return
		}
		fmt.Println(string(data))
		return
	}

	for ex, count := range result.ExchangeCounts {
		entry := log.WithComponent("main").WithFields(logger.Fields{"exchange": ex, "pairs": count})
		if st := result.Status[ex]; !st.OK {
			entry.WithFields(logger.Fields{"error": st.Error}).Warn("exchange unavailable")
		} else {
			entry.Info("pairs loaded")
		}
	}

	log.WithComponent("main").WithFields(logger.Fields{
		"threshold":     result.Threshold,
		"total_symbols": result.TotalSymbols,
		"count":         result.Count,
	}).Info("scan summary")

	for i, opp := range result.Opportunities {
		log.WithComponent("main").WithFields(logger.Fields{
			"rank":     i + 1,
			"symbol":   opp.Symbol,
			"short":    opp.ShortExchange,
			"long":     opp.LongExchange,
			"diff":     opp.DiffFmt,
			"spread":   fmt.Sprintf("%.4f%%", opp.SpreadPct),
			"funding1": fmt.Sprintf("%s %s", opp.Exchange1, opp.Rate1Fmt),
			"funding2": fmt.Sprintf("%s %s", opp.Exchange2, opp.Rate2Fmt),
		}).Info("opportunity")
	}
}
