package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"inferd/internal/config"
	"inferd/internal/engine"
	"inferd/internal/httpapi"
	"inferd/internal/manager"
	"inferd/internal/pipeline"
	"inferd/internal/registry"
)

type flags struct {
	addr         string
	modelsDir    string
	configPath   string
	defaultModel string
	contextSize  int
	threads      int
	maxTokens    int
	queueDepth   int
	queueWaitMS  int
	logLevel     string
	corsOrigins  string
}

func main() {
	var f flags
	root := &cobra.Command{
		Use:           "inferd",
		Short:         "Single-turn greedy completion daemon for local GGUF models",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f)
		},
	}
	root.Flags().StringVar(&f.addr, "addr", "", "HTTP listen address, e.g. :8080")
	root.Flags().StringVar(&f.modelsDir, "models-dir", "", "Directory to scan for *.gguf model files")
	root.Flags().StringVar(&f.configPath, "config", "", "Optional config file (.yaml/.json/.toml)")
	root.Flags().StringVar(&f.defaultModel, "default-model", "", "Default model id when request omits model")
	root.Flags().IntVar(&f.contextSize, "ctx-size", 0, "Context (KV cache) size in tokens")
	root.Flags().IntVar(&f.threads, "threads", 0, "Threads for the forward pass")
	root.Flags().IntVar(&f.maxTokens, "max-tokens", 0, "Generation budget per request")
	root.Flags().IntVar(&f.queueDepth, "queue-depth", 0, "Max queued requests per model")
	root.Flags().IntVar(&f.queueWaitMS, "queue-wait-ms", 0, "Max queue wait before 429, in ms")
	root.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	root.Flags().StringVar(&f.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins (empty disables CORS)")

	if err := root.Execute(); err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Error().Err(err).Msg("inferd failed")
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg := resolveConfig(f)

	logger := newLogger(cfg.LogLevel)
	httpapi.SetLogger(logger)

	if origins := splitCSV(f.corsOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins,
			[]string{http.MethodGet, http.MethodPost},
			[]string{"Content-Type", "Accept"})
	}

	models, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		return err
	}
	logger.Info().Int("models", len(models)).Str("dir", cfg.ModelsDir).Msg("registry loaded")

	mgr := manager.New(engine.New(), manager.Config{
		Registry:     models,
		DefaultModel: cfg.DefaultModel,
		ContextSize:  cfg.ContextSize,
		Threads:      cfg.Threads,
		MaxTokens:    cfg.MaxTokens,
		QueueDepth:   cfg.QueueDepth,
		MaxWait:      time.Duration(cfg.QueueWaitMS) * time.Millisecond,
		Logger:       logger,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(mgr)}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Bool("runtime", engine.RuntimeBuilt()).Msg("inferd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown")
	}
	return nil
}

// resolveConfig layers defaults, the optional config file, environment,
// and flags, in increasing precedence.
func resolveConfig(f flags) config.Config {
	cfg := config.Config{
		Addr:        ":8080",
		ModelsDir:   "~/models/llm",
		ContextSize: pipeline.DefaultContextSize,
		Threads:     pipeline.DefaultThreads,
		MaxTokens:   pipeline.DefaultMaxTokens,
		LogLevel:    "info",
	}
	if f.configPath != "" {
		if fileCfg, err := config.Load(f.configPath); err == nil {
			merge(&cfg, fileCfg)
		}
	}
	if v := os.Getenv("INFERD_ADDR"); v != "" {
		cfg.Addr = v
	}
	merge(&cfg, config.Config{
		Addr:         f.addr,
		ModelsDir:    f.modelsDir,
		DefaultModel: f.defaultModel,
		ContextSize:  f.contextSize,
		Threads:      f.threads,
		MaxTokens:    f.maxTokens,
		QueueDepth:   f.queueDepth,
		QueueWaitMS:  f.queueWaitMS,
		LogLevel:     f.logLevel,
	})
	return cfg
}

// merge copies the specified (non-zero) fields of src over dst.
func merge(dst *config.Config, src config.Config) {
	if src.Addr != "" {
		dst.Addr = src.Addr
	}
	if src.ModelsDir != "" {
		dst.ModelsDir = src.ModelsDir
	}
	if src.DefaultModel != "" {
		dst.DefaultModel = src.DefaultModel
	}
	if src.ContextSize > 0 {
		dst.ContextSize = src.ContextSize
	}
	if src.Threads > 0 {
		dst.Threads = src.Threads
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.QueueDepth > 0 {
		dst.QueueDepth = src.QueueDepth
	}
	if src.QueueWaitMS > 0 {
		dst.QueueWaitMS = src.QueueWaitMS
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

// splitCSV splits a comma-separated flag value, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
