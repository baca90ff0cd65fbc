package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/tartampluch/go-jubilee/internal/app"
	"github.com/tartampluch/go-jubilee/internal/config"
	"github.com/tartampluch/go-jubilee/internal/roster"
	"github.com/tartampluch/go-jubilee/internal/server"
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	version    bool
	debug      bool
	configPath string
	groupPath  string
	serve      bool
	person     string
	jubilee    string
	lang       string
	storePass  bool
}

// main delegates to runMain so deferred calls run before os.Exit.
func main() {
	os.Exit(runMain(os.Args[1:], os.Stdin, os.Stdout))
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
// Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain(args []string, stdin io.Reader, stdout io.Writer) int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	opts, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return config.ExitCodeSuccess
	}
	if err != nil {
		return config.ExitCodeError
	}

	if opts.version {
		printVersion(stdout)
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(opts.debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts, stdin, stdout); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet(config.AppBinary, flag.ContinueOnError)
	fs.BoolVar(&opts.version, config.FlagVersion, false, config.FlagDescVersion)
	fs.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	fs.StringVar(&opts.configPath, config.FlagConfig, "", config.FlagDescConfig)
	fs.StringVar(&opts.groupPath, config.FlagGroup, "", config.FlagDescGroup)
	fs.BoolVar(&opts.serve, config.FlagServe, false, config.FlagDescServe)
	fs.StringVar(&opts.person, config.FlagPerson, "", config.FlagDescPerson)
	fs.StringVar(&opts.jubilee, config.FlagJubilee, "", config.FlagDescJubilee)
	fs.StringVar(&opts.lang, config.FlagLang, "", config.FlagDescLang)
	fs.BoolVar(&opts.storePass, config.FlagStorePassword, false, config.FlagDescStorePassword)
	err := fs.Parse(args)
	return opts, err
}

// overrides turns command-line flags into settings that beat file and env.
func (o cliOptions) overrides() []config.Override {
	var out []config.Override
	if o.groupPath != "" {
		out = append(out,
			config.Override{Key: config.KeySourceMode, Value: config.SourceModeLocal},
			config.Override{Key: config.KeySourcePath, Value: o.groupPath},
		)
	}
	if o.lang != "" {
		out = append(out, config.Override{Key: config.KeyLanguage, Value: o.lang})
	}
	return out
}

// run loads the settings and either prints one report or serves until ctx ends.
func run(ctx context.Context, opts cliOptions, stdin io.Reader, stdout io.Writer) error {
	settings, err := config.LoadSettings(opts.configPath, opts.overrides()...)
	if err != nil {
		return err
	}

	if opts.storePass {
		return storePassword(settings.Source.User, stdin)
	}

	loader := &roster.Loader{Fetcher: roster.NewHTTPFetcher()}

	if !opts.serve {
		oneShot := app.NewJubileeApp(ctx, settings, loader, nil)
		snap, err := oneShot.Refresh()
		if err != nil {
			return err
		}
		return app.WriteReport(stdout, oneShot.Translator, snap.Summary, app.ReportOptions{
			Person:  opts.person,
			Jubilee: opts.jubilee,
		})
	}

	// Cancelling ctx stops both the worker and the listener.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := server.NewJubileeServer(settings.Server.Port, server.NewMetrics())
	worker := app.NewJubileeApp(ctx, settings, loader, srv)

	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run()
	}()

	err = srv.Start(ctx)
	cancel()
	<-done
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// storePassword saves the first line of r as the keyring password of user.
func storePassword(user string, r io.Reader) error {
	if user == "" {
		return errors.New(config.ErrWebUserEmpty)
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", config.ErrPasswordStore, err)
	}
	if err := config.StorePassword(user, strings.TrimRight(line, "\r\n")); err != nil {
		return fmt.Errorf("%s: %w", config.ErrPasswordStore, err)
	}
	slog.Info(config.MsgPasswordStored,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyUser, user)
	return nil
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuilt, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger. Logs go to stderr so
// stdout carries only the report.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stderr}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
