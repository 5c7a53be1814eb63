// Package cmd wires the command line surface. With a TTY the
// interactive tree opens; without one, or with --print, the full tree
// is assembled and written to stdout so the tool composes with pipes.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"promptmap/internal/app"
	"promptmap/internal/config"
	"promptmap/internal/logging"
)

const version = "0.3.0"

var (
	flagPrint       bool
	flagDebug       bool
	flagShowHidden  bool
	flagTokenCap    uint64
	flagMaxFileSize int64
	flagExclude     []string
)

var rootCmd = &cobra.Command{
	Use:   "promptmap [path]",
	Short: "Select files interactively and copy them as an LLM prompt",
	Long: `promptmap scans a directory, presents the files as a selectable
tree, and assembles the selection into a single prompt payload: a file
map followed by the file contents, bounded by a token cap.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "config warning: %v (using defaults)\n", err)
		}
		if len(args) > 0 {
			cfg.Path = args[0]
		}
		if cmd.Flags().Changed("show-hidden") {
			cfg.ShowHidden = flagShowHidden
		}
		if cmd.Flags().Changed("token-cap") {
			cfg.TokenCap = flagTokenCap
		}
		if cmd.Flags().Changed("max-file-size") {
			cfg.MaxFileSizeKB = flagMaxFileSize
		}
		if cmd.Flags().Changed("exclude") {
			cfg.ExcludePatterns = append(cfg.ExcludePatterns, flagExclude...)
		}

		logger, err := logging.New(flagDebug, version)
		if err != nil {
			return err
		}
		defer logger.Sync()

		interactive := term.IsTerminal(int(os.Stdout.Fd())) && !flagPrint
		if !interactive {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.RunPrint(ctx, cfg, logger, os.Stdout)
		}
		return app.Run(cfg, logger)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&flagPrint, "print", "p", false, "assemble everything and print to stdout instead of opening the UI")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "verbose logging")
	rootCmd.Flags().BoolVar(&flagShowHidden, "show-hidden", false, "include hidden files in the scan")
	rootCmd.Flags().Uint64Var(&flagTokenCap, "token-cap", 0, "token budget for the assembled prompt")
	rootCmd.Flags().Int64Var(&flagMaxFileSize, "max-file-size", 0, "per-file size cap in KB")
	rootCmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "glob patterns to exclude (repeatable)")
	rootCmd.SilenceUsage = true
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
