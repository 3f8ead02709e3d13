package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seen-lang/seenc/internal/watch"
)

var (
	watchVerbose  bool
	watchLanguage string
)

func init() {
	watchCmd.Flags().BoolVar(&watchVerbose, "verbose", false, "Show job-level debug logging")
	watchCmd.Flags().StringVar(&watchLanguage, "language", "", "Source language tag (en|ar), defaults to the project config")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recheck the project incrementally as files change",
	Long: `Watch src/ for changes and recheck only the files that changed, using
the same compilation job pipeline as "seenc check". There is no dev
server or binary produced here; it is a fast feedback loop for editing,
the role spec.md §1 leaves to an out-of-core driver.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _, err := resolveLanguage(watchLanguage)
		if err != nil {
			return err
		}

		compiler := watch.NewIncrementalCompiler(lang, newLogger(watchVerbose))
		compiler.OnRebuild = reportWatchResult

		result, err := compiler.FullBuild()
		if err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}
		reportWatchResult(result)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		watchDone := make(chan error, 1)
		go func() { watchDone <- compiler.Watch(ctx, []string{"src", "lib", "modules", "."}) }()

		fmt.Println("watching for changes, press Ctrl+C to stop")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		fmt.Println("\nstopping")
		cancel()
		return <-watchDone
	},
}

func reportWatchResult(result *watch.CompileResult) {
	if result.Success {
		fmt.Printf("ok (%s)\n", result.Duration)
		return
	}
	fmt.Printf("%d error(s) (%s):\n", len(result.Errors), result.Duration)
	for _, e := range result.Errors {
		fmt.Printf("  %s:%d:%d: %s: %s\n", e.Location.File, e.Location.Line, e.Location.Column, e.Code, e.Message)
	}
}
