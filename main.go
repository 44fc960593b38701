package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/yhkl-dev/localradio/catalog"
	"github.com/yhkl-dev/localradio/config"
	"github.com/yhkl-dev/localradio/radio"
	"github.com/yhkl-dev/localradio/ui"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	configPath string
	envFile    string
	headless   bool
	list       bool
	logLevel   string
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	flags := pflag.NewFlagSet("localradio", pflag.ContinueOnError)
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config.toml (default: $HOME/.config/localradio/config.toml or ./config.toml)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "file with LOCALRADIO_* variables, loaded when present")
	flags.BoolVar(&opts.headless, "headless", false, "read keys from stdin instead of the full-screen terminal")
	flags.BoolVar(&opts.list, "list", false, "print every station and where its broadcast is now, then exit")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err == nil {
		err = run(opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "localradio: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *options) (err error) {
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	fullScreen := !opts.headless && !opts.list
	logger, closeLog, err := newLogger(cfg.Log, fullScreen)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeLog()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := wire(ctx, cfg, !opts.list, logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, w.Close()) }()

	builder := &catalog.Builder{
		Sources:    w.sources,
		LoopFactor: cfg.Stations.LoopFactor,
		Logger:     logger,
	}
	cat, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stations: %w", err)
	}

	if opts.list {
		return printCatalog(os.Stdout, cat, time.Now())
	}
	return play(ctx, cfg, opts, builder, cat, logger)
}

func play(ctx context.Context, cfg *config.Config, opts *options, builder *catalog.Builder, cat *catalog.Catalog, logger zerolog.Logger) (err error) {
	bindings := radio.Bindings{
		Toggle:   cfg.Keys.Toggle,
		Next:     cfg.Keys.Next,
		Previous: cfg.Keys.Previous,
		Status:   cfg.Keys.Status,
		Quit:     append(cfg.Keys.Quit, string(ui.KeyQuit)),
	}
	keys, err := radio.NewKeyMap(bindings)
	if err != nil {
		return err
	}

	var (
		input    radio.Input
		notifier radio.Notifier
	)
	if opts.headless {
		stdin, stdinErr := ui.NewStdin(os.Stdin, os.Stdout)
		if stdinErr != nil {
			return stdinErr
		}
		defer func() { err = multierr.Append(err, stdin.Close()) }()
		input, notifier = stdin, stdin
	} else {
		terminal, termErr := ui.NewTerminal(ui.HelpLines(bindings))
		if termErr != nil {
			return termErr
		}
		defer terminal.Close()
		input, notifier = terminal, terminal
	}

	ctrl, err := radio.NewController(cat, builder.Build, radio.Options{
		Keys:           keys,
		ReloadSequence: radio.ParseSequence(cfg.Keys.ReloadSequence),
		DebounceWindow: cfg.Debounce.Window,
		Notifier:       notifier,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	notifier.Show(fmt.Sprintf("%d stations, radio off", cat.Len()))
	logger.Info().Int("stations", cat.Len()).Msg("Radio ready")

	runErr := ctrl.Run(ctx, input)

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return multierr.Combine(runErr, ctrl.Close(stopCtx))
}

// newLogger logs to the configured file while the terminal UI owns the
// screen, and to stderr otherwise.
func newLogger(cfg config.LogConfig, toFile bool) (zerolog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var (
		out     io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		closeFn           = func() error { return nil }
	)
	if toFile && cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closeFn = f, f.Close
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closeFn, nil
}

// osFs is shared by the directory source and the token store.
var osFs = afero.NewOsFs()
