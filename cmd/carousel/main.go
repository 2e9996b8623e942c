package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/swell-carousel/api"
	"github.com/aluiziolira/swell-carousel/carousel"
	"github.com/aluiziolira/swell-carousel/config"
	"github.com/aluiziolira/swell-carousel/imagecache"
	"github.com/aluiziolira/swell-carousel/models"
	"github.com/aluiziolira/swell-carousel/onboarding"
	"github.com/aluiziolira/swell-carousel/parser"
	"github.com/aluiziolira/swell-carousel/prefetch"
	"github.com/aluiziolira/swell-carousel/store"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	defaultCfg := config.DefaultConfig()
	baseURLDefault := defaultCfg.APIBaseURL
	if value, ok := config.EnvString("SWELL_API_URL"); ok {
		baseURLDefault = value
	}
	limitDefault := defaultCfg.PageLimit
	if value, ok, err := config.EnvInt("SWELL_PAGE_LIMIT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SWELL_PAGE_LIMIT: %v\n", err)
		os.Exit(1)
	} else if ok {
		limitDefault = value
	}
	parallelDefault := defaultCfg.PrefetchParallelism
	if value, ok, err := config.EnvInt("SWELL_PREFETCH_PARALLEL"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SWELL_PREFETCH_PARALLEL: %v\n", err)
		os.Exit(1)
	} else if ok {
		parallelDefault = value
	}
	delayDefault := defaultCfg.TransitionDelay
	if value, ok, err := config.EnvDuration("SWELL_TRANSITION_DELAY"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SWELL_TRANSITION_DELAY: %v\n", err)
		os.Exit(1)
	} else if ok {
		delayDefault = value
	}
	storeDefault := defaultCfg.StoreBackend
	if value, ok := config.EnvString("SWELL_STORE"); ok {
		storeDefault = value
	}
	redisDefault := defaultCfg.RedisAddr
	if value, ok := config.EnvString("SWELL_REDIS_ADDR"); ok {
		redisDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("SWELL_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	baseURL := flag.String("api-url", baseURLDefault, "Recommendation API base URL")
	page := flag.Int("page", defaultCfg.Page, "Recommendation page to load")
	limit := flag.Int("limit", limitDefault, "Recommendations per page (1-50)")
	parallelism := flag.Int("parallel", parallelDefault, "Concurrent image preloads")
	delay := flag.Duration("transition-delay", delayDefault, "Navigation transition delay")
	cacheSize := flag.Int("cache-size", defaultCfg.ImageCacheSize, "Image cache capacity")
	storeBackend := flag.String("store", storeDefault, "Preference store: memory or redis")
	redisAddr := flag.String("redis-addr", redisDefault, "Redis address for the redis store")
	gender := flag.String("gender", "", "Gender for recommendations (female/male, 여성/남성)")
	tags := flag.String("tags", "", "Comma-separated hashtag ids chosen during onboarding")
	outfits := flag.String("outfits", "", "Comma-separated sample outfit ids chosen during onboarding")
	submit := flag.Bool("submit", false, "Submit the onboarding selection before browsing")
	token := flag.String("token", "", "Access token to store and send")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := buildConfigFromFlags(*baseURL, *page, *limit, *parallelism, *delay, *cacheSize, *storeBackend, *redisAddr, *verbose, *metricsAddr)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("opening preference store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()
	prefs := store.NewPreferences(backend)
	if *token != "" {
		if err := prefs.SaveAccessToken(ctx, *token); err != nil {
			slog.Error("saving access token", slog.Any("error", err))
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	prefetchMetrics := prefetch.NewMetrics(registry)
	carouselMetrics := carousel.NewMetrics(registry)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout,
		api.WithTokenSource(prefs),
		api.WithUserAgent(cfg.UserAgent),
	)

	selection, err := buildSelection(ctx, prefs, *gender, *tags, *outfits)
	if err != nil {
		slog.Error("invalid onboarding selection", slog.Any("error", err))
		os.Exit(1)
	}
	if *submit {
		res, err := selection.Submit(ctx, client)
		if err != nil {
			slog.Error("submitting preferences failed",
				slog.Any("error", err),
				slog.String("tags", selection.ValidateTags().Message),
				slog.String("outfits", selection.ValidateOutfits().Message),
			)
			os.Exit(1)
		}
		slog.Info("preferences submitted", slog.String("message", res.Message))
	}

	loader, err := prefetch.NewCollyLoader(cfg)
	if err != nil {
		slog.Error("initialising image loader", slog.Any("error", err))
		os.Exit(1)
	}
	cache, err := imagecache.New(cfg.ImageCacheSize)
	if err != nil {
		slog.Error("initialising image cache", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler := prefetch.NewScheduler(loader,
		prefetch.WithCache(cache),
		prefetch.WithMetrics(prefetchMetrics),
		prefetch.WithConcurrency(cfg.PrefetchParallelism),
	)

	changes := make(chan carousel.Snapshot, 16)
	browser := carousel.NewBrowser(client, scheduler, cfg.TransitionDelay,
		carousel.WithMetrics(carouselMetrics),
		carousel.WithInteractions(client),
		carousel.WithOnChange(func(s carousel.Snapshot) {
			select {
			case changes <- s:
			default:
			}
		}),
	)

	params := selection.Params(cfg.Page, cfg.PageLimit)
	slog.Info("loading recommendations",
		slog.String("api", cfg.APIBaseURL),
		slog.String("gender", params.Gender),
		slog.Int("page", params.Page),
		slog.Int("limit", params.Limit),
	)
	if err := browser.Load(ctx, params); err != nil {
		fmt.Fprintf(os.Stderr, "추천 목록을 불러오지 못했습니다: %v\n", err)
	}

	run(ctx, browser, params, changes, os.Stdin, os.Stdout)

	browser.Close()
	loader.Wait()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(os.Stdout, cache.Len(), browser.Pagination())
}

func buildConfigFromFlags(baseURL string, page, limit, parallelism int, delay time.Duration, cacheSize int, storeBackend, redisAddr string, verbose bool, metricsAddr string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.APIBaseURL = baseURL
	cfg.Page = page
	cfg.PageLimit = limit
	cfg.PrefetchParallelism = parallelism
	cfg.TransitionDelay = delay
	cfg.ImageCacheSize = cacheSize
	cfg.StoreBackend = strings.ToLower(storeBackend)
	cfg.RedisAddr = redisAddr
	cfg.Verbose = verbose
	cfg.MetricsAddr = metricsAddr
	return cfg
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		rs := store.NewRedisStore(store.RedisOptions{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: cfg.RedisPrefix,
		})
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, err
		}
		return rs, func() {
			if err := rs.Close(); err != nil {
				slog.Error("close redis store", slog.Any("error", err))
			}
		}, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

func buildSelection(ctx context.Context, prefs *store.Preferences, gender, tags, outfits string) (*onboarding.Selection, error) {
	selection := onboarding.NewSelection(prefs)

	if gender == "" {
		saved, ok, err := prefs.LoadGender(ctx)
		if err != nil {
			return nil, fmt.Errorf("load saved gender: %w", err)
		}
		if ok {
			gender = saved
		}
	}
	if gender != "" {
		if err := selection.SelectGender(ctx, gender); err != nil {
			return nil, err
		}
	}

	for _, id := range splitIDs(tags) {
		if err := selection.ToggleTag(id); err != nil {
			return nil, err
		}
	}
	for _, id := range splitIDs(outfits) {
		if err := selection.ToggleOutfit(id); err != nil {
			return nil, err
		}
	}
	return selection, nil
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

const help = "[n]ext  [p]rev  [l]ike  [r]eload  [q]uit"

// run drives the browser from line commands until quit, EOF or ctx ends.
func run(ctx context.Context, b *carousel.Browser, params api.Params, changes <-chan carousel.Snapshot, in io.Reader, out io.Writer) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()

	fmt.Fprintln(out, help)
	shownAt := time.Now()
	if snap := b.Snapshot(); snap.Len == 0 {
		fmt.Fprintln(out, "추천 코디가 없습니다.")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-changes:
			shownAt = time.Now()
			render(out, snap)
		case line, ok := <-lines:
			if !ok {
				return
			}
			switch strings.ToLower(line) {
			case "n", "next", "p", "prev":
				dir := carousel.Next
				if strings.HasPrefix(strings.ToLower(line), "p") {
					dir = carousel.Prev
				}
				viewed := time.Since(shownAt)
				if b.Snapshot().State == carousel.Transitioning {
					continue
				}
				if err := b.RecordView(ctx, viewed); err != nil && !errors.Is(err, carousel.ErrNoCurrent) {
					slog.Warn("failed to record view", slog.Any("error", err))
				}
				b.ChangeRecommendation(dir)
			case "l", "like":
				if err := b.Like(ctx); err != nil {
					fmt.Fprintf(out, "좋아요 실패: %v\n", err)
					continue
				}
				fmt.Fprintln(out, "♥")
			case "r", "reload":
				if err := b.Load(ctx, params); err != nil {
					fmt.Fprintf(out, "추천 목록을 불러오지 못했습니다: %v\n", err)
				}
			case "q", "quit", "exit":
				return
			default:
				fmt.Fprintln(out, help)
			}
		}
	}
}

func render(out io.Writer, snap carousel.Snapshot) {
	if !snap.HasCurrent {
		fmt.Fprintln(out, "추천 코디가 없습니다.")
		return
	}
	rec := snap.Current
	separator := "--------------------------------------------------"
	fmt.Fprintln(out, separator)
	fmt.Fprintf(out, "  [%d/%d] 코디 #%s\n", snap.Index+1, snap.Len, rec.ID)
	if rec.DescriptionText != "" {
		fmt.Fprintf(out, "  %s\n", rec.DescriptionText)
	}
	if len(rec.DescriptionTags) > 0 {
		fmt.Fprintf(out, "  %s\n", parser.FormatTags(rec.DescriptionTags))
	}
	if rec.LLMMessage != "" {
		fmt.Fprintf(out, "  %s\n", rec.LLMMessage)
	}
	for _, item := range rec.Items {
		fmt.Fprintf(out, "    - %s %s  %s\n", item.Brand, item.Name, parser.FormatPrice(item.Price))
	}
	fmt.Fprintln(out, separator)
}

func printSummary(out io.Writer, cached int, pagination models.Pagination) {
	fmt.Fprintln(out, "Session complete")
	fmt.Fprintf(out, "  Page:          %d/%d\n", pagination.Page, pagination.TotalPages)
	fmt.Fprintf(out, "  Total outfits: %d\n", pagination.Total)
	fmt.Fprintf(out, "  Cached images: %d\n", cached)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
