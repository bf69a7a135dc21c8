package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/riadafridishibly/jsonascii/cache"
	"github.com/riadafridishibly/jsonascii/logging"
	"github.com/riadafridishibly/jsonascii/scanner"
	"github.com/riadafridishibly/jsonascii/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errUsage = errors.New("usage")

// setupLogging is swapped out by tests to keep temp files out of the way.
var setupLogging = func() (func(), error) {
	name, closeFn, err := logging.NewFile()
	if err != nil {
		return nil, err
	}
	logging.Debug("log file created", "path", name)
	return closeFn, nil
}

type options struct {
	useCache    bool
	cachePath   string
	interactive bool
	theme       string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "jsonascii [flags] <directory>",
		Short: "Report bytes outside 7-bit ASCII in JSON files under a directory",
		Long: `jsonascii walks a directory tree and checks every regular file whose name
contains ".json". Each line holding a byte above 0x7F is printed with its
file path and line number. The exit status does not depend on findings.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.interactive && !tui.HasTheme(opts.theme) {
				return fmt.Errorf("%w: unknown theme %q (available: %s)",
					errUsage, opts.theme, strings.Join(tui.ThemeNames(), ", "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], opts, stdout, stderr)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	addFlags(cmd.Flags(), opts)

	return cmd
}

func addFlags(flags *pflag.FlagSet, opts *options) {
	flags.BoolVar(&opts.useCache, "cache", false, "reuse results of unchanged files from the result cache")
	flags.StringVar(&opts.cachePath, "cache-path", "", "location of the result cache database (implies --cache)")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "browse findings in a terminal UI")
	flags.StringVar(&opts.theme, "theme", tui.DefaultConfig().Theme, "terminal UI theme: "+strings.Join(tui.ThemeNames(), ", "))
	flags.SortFlags = false
}

func run(root string, opts *options, stdout, stderr io.Writer) error {
	// Console runs leave the filesystem untouched; only the UI keeps a log.
	if opts.interactive {
		if closeLog, err := setupLogging(); err == nil {
			defer closeLog()
		}
	}
	logger := logging.WithName("scanner")

	scanOpts := []scanner.Option{scanner.WithLogger(logger)}
	if opts.useCache || opts.cachePath != "" {
		c, err := openCache(opts.cachePath)
		if err != nil {
			logging.Error(err, "result cache disabled")
		} else {
			defer c.Close()
			scanOpts = append(scanOpts, scanner.WithCache(c))
		}
	}

	if opts.interactive {
		cfg := tui.DefaultConfig()
		cfg.Theme = opts.theme
		app := tui.NewApp(root, cfg, func(r scanner.Reporter) *scanner.Scanner {
			return scanner.NewScanner(root, r, scanOpts...)
		}, logging.WithName("tui"))
		return app.Run()
	}

	reporter := scanner.NewConsoleReporter(stdout, stderr)
	scanner.NewScanner(root, reporter, scanOpts...).Run()
	return nil
}

func openCache(path string) (*cache.Cache, error) {
	if path == "" {
		p, err := cache.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get cache path: %w", err)
		}
		path = p
	}
	logging.Debug("opening result cache", "path", path)
	return cache.Open(path)
}

// execute runs the command line and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if errors.Is(err, errUsage) {
		if msg := strings.TrimPrefix(err.Error(), errUsage.Error()+": "); msg != errUsage.Error() {
			fmt.Fprintf(stderr, "Error: %s\n", msg)
		}
		fmt.Fprintf(stderr, "Usage: %s <directory>\n", cmd.Name())
		fmt.Fprint(stderr, cmd.Flags().FlagUsages())
		return 1
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
