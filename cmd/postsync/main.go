package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/postsync/pkg/config"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"POSTSYNC_CONFIG" default:"postsync.yml" description:"configuration file"`

	Sync struct {
		Feeds []string `short:"f" long:"feed" description:"feed to sync, repeatable (all enabled feeds by default)"`
	} `command:"sync" description:"sync feeds once and exit"`

	Serve struct{} `command:"serve" description:"run scheduled syncs and the HTTP server"`

	Digest struct {
		Feed   string        `short:"f" long:"feed" default:"all" description:"feed name or all"`
		Top    int           `short:"n" long:"top" description:"items in the digest (digest.top_n by default)"`
		Window time.Duration `short:"w" long:"window" description:"only items created within the window (digest.window by default)"`
		Output string        `short:"o" long:"output" description:"output file, stdout by default"`
	} `command:"digest" description:"render the top archived posts as RSS"`

	Discover struct{} `command:"discover" description:"queue eligible followed accounts for approval"`

	Pending struct {
		Status string `short:"s" long:"status" default:"pending" choice:"pending" choice:"approved" choice:"rejected" description:"candidate status"`
	} `command:"pending" description:"list follow candidates"`

	Approve struct {
		Args struct {
			IDs []string `positional-arg-name:"account-id" required:"1"`
		} `positional-args:"yes" required:"yes"`
	} `command:"approve" description:"approve candidates for tracking"`

	Untrack struct {
		Args struct {
			IDs []string `positional-arg-name:"account-id" required:"1"`
		} `positional-args:"yes" required:"yes"`
	} `command:"untrack" description:"stop tracking accounts and forget their cursors"`

	// common options
	Dbg     bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if parser.Active == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Dbg)

	lgr.Printf("[DEBUG] starting postsync version %s, command %s", revision, parser.Active.Name)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, parser.Active.Name, opts, os.Stdout)
	cancel()

	if err != nil {
		lgr.Printf("[ERROR] %s failed: %v", parser.Active.Name, err)
		os.Exit(1)
	}
}

// run loads the configuration, wires the application and executes the command
func run(ctx context.Context, command string, opts Opts, out io.Writer) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a, err := newApp(ctx, cfg, opts.Dbg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			lgr.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	switch command {
	case "sync":
		return a.syncFeeds(ctx, opts.Sync.Feeds, out)
	case "serve":
		return a.serve(ctx)
	case "digest":
		return a.renderDigest(opts.Digest.Feed, opts.Digest.Top, opts.Digest.Window, opts.Digest.Output, out)
	case "discover":
		return a.discover(ctx, out)
	case "pending":
		return a.pending(ctx, opts.Pending.Status, out)
	case "approve":
		return a.approve(ctx, opts.Approve.Args.IDs, out)
	case "untrack":
		return a.untrack(ctx, opts.Untrack.Args.IDs, out)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	// empty secrets would mask everything
	secrets := make([]string, 0, len(secs))
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
