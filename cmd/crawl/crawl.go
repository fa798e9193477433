package crawl

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"github.com/marketpulse/crawler/collect"
	"github.com/marketpulse/crawler/dedup"
	"github.com/marketpulse/crawler/engine"
	"github.com/marketpulse/crawler/limiter"
	"github.com/marketpulse/crawler/log"
	"github.com/marketpulse/crawler/parse"
	"github.com/marketpulse/crawler/parse/script"
	"github.com/marketpulse/crawler/storage"
	"github.com/marketpulse/crawler/storage/csvstorage"
	"github.com/marketpulse/crawler/storage/jsonstorage"
	"github.com/marketpulse/crawler/storage/sqlstorage"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// ScriptConfig is one [[Scripts]] block: a JS-defined parser variant
// registered under the dynamic tag "script:<name>".
type ScriptConfig struct {
	Name string
	File string
}

func Run(configPath string) {
	// load config
	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		panic(err)
	}
	if err := cfg.Load(file.NewSource(
		file.WithPath(configPath),
		source.WithEncoder(enc),
	)); err != nil {
		panic(err)
	}

	// log
	logText := cfg.Get("logLevel").String("INFO")
	logLevel, err := zapcore.ParseLevel(logText)
	if err != nil {
		panic(err)
	}
	plugin := log.NewStdoutPlugin(logLevel)
	logger := log.NewLogger(plugin)
	logger.Info("log init end")

	zap.ReplaceGlobals(logger)

	// fetcher
	timeout := cfg.Get("fetcher", "timeout").Int(5000)
	userAgent := cfg.Get("fetcher", "userAgent").String("MarketPulse/1.0")
	var fetcher collect.Fetcher = &collect.BrowserFetch{
		Timeout:   time.Duration(timeout) * time.Millisecond,
		UserAgent: userAgent,
		Logger:    logger,
	}

	// registry: built-in variants plus script-defined ones
	registry := parse.DefaultRegistry()
	var sConfig []ScriptConfig
	if err := cfg.Get("Scripts").Scan(&sConfig); err != nil {
		logger.Error("read script parser config", zap.Error(err))
	}
	for _, sc := range sConfig {
		src, err := os.ReadFile(sc.File)
		if err != nil {
			logger.Error("load parser script", zap.String("name", sc.Name), zap.Error(err))
			continue
		}
		registry.Register(collect.ScriptPage(sc.Name), script.New(sc.Name, string(src)))
		logger.Info("script parser registered", zap.String("name", sc.Name))
	}

	// storage
	store, err := buildStorage(cfg, logger)
	if err != nil {
		logger.Error("create storage failed", zap.Error(err))
		return
	}

	// aggregator
	nodeID := cfg.Get("dedup", "nodeId").Int(1)
	agg, err := dedup.NewAggregator(
		dedup.WithLogger(logger.Named("dedup")),
		dedup.WithNodeID(int64(nodeID)),
	)
	if err != nil {
		logger.Error("create aggregator failed", zap.Error(err))
		return
	}

	// targets
	var tConfig []collect.TaskConfig
	if err := cfg.Get("Tasks").Scan(&tConfig); err != nil {
		logger.Error("init seed tasks", zap.Error(err))
		return
	}
	seeds := ParseTaskConfig(logger, fetcher, tConfig)

	crawler := engine.NewEngine(
		engine.WithFetcher(fetcher),
		engine.WithLogger(logger),
		engine.WithRegistry(registry),
		engine.WithAggregator(agg),
		engine.WithStorage(store),
		engine.WithSeeds(seeds),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := crawler.Run(ctx); err != nil {
		logger.Error("run finished with error", zap.Error(err))
	}
}

func buildStorage(cfg config.Config, logger *zap.Logger) (storage.Storage, error) {
	backend := cfg.Get("storage", "backend").String("json")
	switch backend {
	case "sql":
		return sqlstorage.New(
			sqlstorage.WithSQLURL(cfg.Get("storage", "sqlUrl").String("")),
			sqlstorage.WithTable(cfg.Get("storage", "table").String("market_records")),
			sqlstorage.WithBatchCount(cfg.Get("storage", "batchCount").Int(100)),
			sqlstorage.WithLogger(logger.Named("sqlStorage")),
		)
	case "csv":
		return csvstorage.New(cfg.Get("storage", "path").String("output.csv"), logger.Named("csvStorage")), nil
	default:
		return jsonstorage.New(cfg.Get("storage", "path").String("output.json"), logger.Named("jsonStorage")), nil
	}
}

// ParseTaskConfig turns config blocks into seed tasks.
func ParseTaskConfig(logger *zap.Logger, f collect.Fetcher, cfgs []collect.TaskConfig) []*collect.Task {
	tasks := make([]*collect.Task, 0, len(cfgs))
	for _, cfg := range cfgs {
		opts := []collect.Option{
			collect.WithName(cfg.Name),
			collect.WithURL(cfg.URL),
			collect.WithPageType(collect.PageType(cfg.PageType)),
			collect.WithCategory(cfg.Category),
			collect.WithCookie(cfg.Cookie),
			collect.WithMaxPages(cfg.MaxPages),
			collect.WithEmptyPageThreshold(cfg.EmptyPageThreshold),
			collect.WithRetryLimit(cfg.RetryLimit),
			collect.WithRetryBackoff(time.Duration(cfg.RetryBackoffMs) * time.Millisecond),
			collect.WithFetcher(f),
			collect.WithLogger(logger),
		}
		if cfg.WaitTime > 0 {
			opts = append(opts, collect.WithWaitTime(time.Duration(cfg.WaitTime)*time.Millisecond))
		}
		if cfg.PageParam != "" {
			opts = append(opts, collect.WithPageParam(cfg.PageParam, cfg.PageIncrement))
		}
		if len(cfg.Limits) > 0 {
			var limits []limiter.RateLimiter
			for _, lcfg := range cfg.Limits {
				bucket := lcfg.Bucket
				if bucket <= 0 {
					bucket = 1
				}
				l := rate.NewLimiter(limiter.Per(lcfg.EventCount, time.Duration(lcfg.EventDur)*time.Second), bucket)
				limits = append(limits, l)
			}
			opts = append(opts, collect.WithLimit(limiter.NewMultiLimiter(limits...)))
		}
		tasks = append(tasks, collect.NewTask(opts...))
	}
	return tasks
}
