package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seen-lang/seenc/internal/lsp"
)

var lspLanguage string

func init() {
	lspCmd.Flags().StringVar(&lspLanguage, "language", "", "Source language tag (en|ar), defaults to the project config")
}

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Start the Seen language server",
	Long:  "Start an LSP server over stdio, publishing diagnostics from the lex/parse/typecheck pipeline on document open, change, and save.",
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _, err := resolveLanguage(lspLanguage)
		if err != nil {
			return err
		}

		logger, err := zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
		defer logger.Sync()

		server := lsp.NewServer(lang, logger)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Run(ctx)
	},
}
