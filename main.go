// device-info prints the "about this device" report: firmware and build
// identifiers, the formatted kernel version, and the optional entries the
// device configuration enables.
//
// Usage:
//
//	device-info [flags]
//
// Flags:
//
//	-config string     Path to configuration file (default: ~/.config/device-info/config.toml)
//	-format string     Output format: text, json or yaml (default: text)
//	-kernel            Print only the formatted kernel version
//	-raw               Print the unformatted kernel version line
//	-summary           Print the one-line summary
//	-non-indexable     Print the entry keys search must not offer
//	-tap string        Comma-separated entry keys to tap, in order
//	-no-cache          Bypass the kernel version cache
//	-verbose           Enable verbose logging
//	-version           Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/device-info/pkg/about"
	"gitlab.com/tinyland/lab/device-info/pkg/cache"
	"gitlab.com/tinyland/lab/device-info/pkg/config"
	"gitlab.com/tinyland/lab/device-info/pkg/kernel"
	"gitlab.com/tinyland/lab/device-info/pkg/render"
	"gitlab.com/tinyland/lab/device-info/pkg/sysprop"
	"gitlab.com/tinyland/lab/device-info/pkg/terminal"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// hostInfoTimeout bounds the host property lookup.
const hostInfoTimeout = 2 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// options are the parsed command line flags.
type options struct {
	configPath   string
	format       string
	kernelOnly   bool
	raw          bool
	summary      bool
	nonIndexable bool
	taps         string
	noCache      bool
	verbose      bool
	showVersion  bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("device-info", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&o.format, "format", "text", "Output format: text, json or yaml")
	fs.BoolVar(&o.kernelOnly, "kernel", false, "Print only the formatted kernel version")
	fs.BoolVar(&o.raw, "raw", false, "Print the unformatted kernel version line")
	fs.BoolVar(&o.summary, "summary", false, "Print the one-line summary")
	fs.BoolVar(&o.nonIndexable, "non-indexable", false, "Print the entry keys search must not offer")
	fs.StringVar(&o.taps, "tap", "", "Comma-separated entry keys to tap, in order")
	fs.BoolVar(&o.noCache, "no-cache", false, "Bypass the kernel version cache")
	fs.BoolVar(&o.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "device-info %s (%s) built %s\n", version, commit, date)
		return 0
	}

	format, err := render.ParseFormat(opts.format)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}

	logger := newLogger(stderr, cfg.General.LogLevel, opts.verbose)

	var store *cache.Store
	if cfg.General.CacheTTL.Duration > 0 && !opts.noCache {
		store, err = cache.NewStore(cfg.General.CacheDir, cfg.General.CacheTTL.Duration)
		if err != nil {
			logger.Warn("cache disabled", "error", err)
			store = nil
		}
	}

	env := buildEnv(ctx, cfg, logger, store)

	switch {
	case opts.raw:
		fmt.Fprintln(stdout, env.Kernel.ReadRaw(kernel.HostLineReader{}))

	case opts.kernelOnly:
		fmt.Fprintln(stdout, about.KernelVersion(env))

	case opts.summary:
		fmt.Fprintln(stdout, about.Summary(env))

	case opts.nonIndexable:
		for _, k := range about.NonIndexableKeys(env) {
			fmt.Fprintln(stdout, k)
		}

	case opts.taps != "":
		runTaps(stdout, env, cfg, store, splitKeys(opts.taps))

	default:
		report := render.Report{
			Summary:      about.Summary(env),
			Items:        about.Build(env),
			NonIndexable: about.NonIndexableKeys(env),
			Kernel:       render.NewKernelDetail(env.Kernel.ReadRaw(env.Lines)),
		}
		ropts := render.Options{Width: terminal.Width()}
		if f, ok := stdout.(*os.File); ok {
			ropts.Profile = terminal.ColorProfile(f)
		} else {
			ropts.Profile = termenv.Ascii
		}
		if err := render.Write(stdout, report, format, ropts); err != nil {
			logger.Error("write report", "error", err)
			return 1
		}
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

// newLogger writes text logs to w at the configured level, or debug when
// verbose is set.
func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// buildEnv assembles the about screen collaborators from the configuration.
func buildEnv(ctx context.Context, cfg *config.Config, logger *slog.Logger, store *cache.Store) *about.Env {
	return &about.Env{
		Props:        buildProps(ctx, cfg, logger, store),
		Kernel:       kernel.NewFormatter(logger).WithPath(cfg.Kernel.ProcVersion),
		Lines:        newCachedLines(store, kernel.HostLineReader{}, logger),
		Files:        about.OSFiles{},
		Packages:     about.NewStaticPackages(cfg.Device.InstalledPackages...),
		Intents:      about.NewStaticIntents(cfg.Device.ResolvableActions...),
		Restrictions: about.NewStaticRestrictions(cfg.Restrictions.Admin, cfg.Restrictions.System),
		SELinux:      about.SysfsSELinux{Path: cfg.Device.SELinuxEnforcePath},
		Flags: about.Flags{
			WifiOnly:              cfg.Device.WifiOnly,
			ShowManual:            cfg.Device.ShowManual,
			ShowRegulatoryInfo:    cfg.Device.ShowRegulatoryInfo,
			HideKernelVersionName: cfg.Kernel.HideBuilder,
			FeedbackReporter:      cfg.Device.FeedbackReporter,
			QGPVersionPath:        cfg.Device.QGPVersionPath,
			MBNVersionPath:        cfg.Device.MBNVersionPath,
		},
		Logger: logger,
	}
}

// buildProps layers configuration overrides over build.prop files over
// the host fallback.
func buildProps(ctx context.Context, cfg *config.Config, logger *slog.Logger, store *cache.Store) sysprop.Source {
	chain := sysprop.Chain{sysprop.Map(cfg.Properties.Overrides)}

	files, err := sysprop.LoadFiles(cfg.Properties.BuildPropFiles...)
	if err != nil {
		logger.Warn("build properties unavailable", "error", err)
	} else {
		chain = append(chain, files)
	}

	if cfg.Properties.HostFallback {
		host, err := cache.Memo(store, "host_properties", func() sysprop.Map {
			hctx, cancel := context.WithTimeout(ctx, hostInfoTimeout)
			defer cancel()
			return sysprop.HostSource(hctx, logger)
		})
		if err != nil {
			logger.Debug("cache host properties", "error", err)
		}
		chain = append(chain, host)
	}
	return chain
}

// runTaps taps each key in order and prints the outcome. A kernel refresh
// bypasses the cache and replaces the cached line.
func runTaps(w io.Writer, env *about.Env, cfg *config.Config, store *cache.Store, keys []string) {
	fresh := *env
	fresh.Lines = kernel.HostLineReader{}
	tapper := about.NewTapper(&fresh, cfg.Tap.Window.Duration, nil)

	for _, key := range keys {
		r := tapper.Tap(key)
		switch r.Action {
		case about.TapFeedback:
			fmt.Fprintf(w, "%s: %s %s\n", key, r.Action, r.Package)
		case about.TapRefresh:
			invalidateLine(store, env.Kernel.Path())
			fmt.Fprintf(w, "%s: %s\n%s\n", key, r.Action, r.Text)
		case about.TapBlocked:
			fmt.Fprintf(w, "%s: %s admin_support=%t\n", key, r.Action, r.AdminSupport)
		default:
			fmt.Fprintf(w, "%s: %s\n", key, r.Action)
		}
	}
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
