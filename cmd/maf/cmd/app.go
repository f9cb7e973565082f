package cmd

import (
	"io"
	"os"
	"strings"

	mdwlog "github.com/msto63/mAF/foundation/core/log"
	"github.com/msto63/mAF/internal/frege/service"
	"github.com/msto63/mAF/internal/frege/store"
	"github.com/msto63/mAF/pkg/core/config"
	"github.com/msto63/mAF/pkg/core/logging"
)

// app bundles what every subcommand needs: configuration, the root logger
// and, on request, the Frege service with its history store.
type app struct {
	cfg     *config.Config
	base    *mdwlog.Logger
	logger  *logging.Logger
	store   store.Store
	service *service.Service
}

// loadConfig reads --config when given, otherwise MAF_CONFIG or the
// default locations.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}

// appOptions select the optional parts of an app
type appOptions struct {
	// history opens the configured history store; one that cannot be opened
	// degrades to an in-memory store with a warning
	history bool

	// terminalQuiet drops log output bound for the terminal, which would
	// otherwise tear through a full-screen UI
	terminalQuiet bool

	// skipValues forces the parser to skip let/return values
	skipValues bool
}

// newApp loads the configuration, sets up logging and builds the service.
func newApp(opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := logging.FromConfig("maf", cfg.Logging)
	if verbose {
		logCfg.Level = mdwlog.LevelDebug.String()
	}
	base := logging.NewLogger(logCfg)
	if opts.terminalQuiet && isTerminalOutput(logCfg.Output) {
		base = base.WithOutput(io.Discard)
	}
	mdwlog.SetDefault(base)

	a := &app{
		cfg:    cfg,
		base:   base,
		logger: logging.Wrap("maf", base),
	}
	if src := cfg.Source(); src != "" {
		a.logger.Debug("configuration loaded", "path", src)
	}

	if opts.history {
		a.store = a.openStore()
	}

	a.service, err = service.NewService(service.Config{
		MaxInputLength: cfg.Parser.MaxInputLength,
		SkipValues:     cfg.Parser.SkipValues || opts.skipValues,
		Store:          a.store,
		Logger:         a.logger.Named("frege-service"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) openStore() store.Store {
	if a.cfg.History.Disabled {
		return nil
	}

	sqliteCfg := store.DefaultSQLiteConfig()
	if a.cfg.History.Path != "" {
		sqliteCfg.Path = a.cfg.History.Path
	}

	s, err := store.NewSQLiteStore(sqliteCfg)
	if err != nil {
		a.logger.Warn("history store unavailable, keeping history in memory",
			"path", sqliteCfg.Path, "error", err)
		return store.NewMemoryStore()
	}
	return s
}

func isTerminalOutput(output string) bool {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "stderr", "stdout":
		return true
	}
	return false
}

// Close releases the history store
func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close history store", "error", err)
	}
}

// readSource returns the program text from the arguments, from --file, or
// from stdin when neither is given.
func readSource(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case file == "-":
		return readAll(stdin)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		return readAll(stdin)
	}
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
