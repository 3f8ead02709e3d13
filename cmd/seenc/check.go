package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seen-lang/seenc/internal/compiler/job"
)

var (
	checkJSON     bool
	checkVerbose  bool
	checkLanguage string
)

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output diagnostics in JSON format")
	checkCmd.Flags().BoolVar(&checkVerbose, "verbose", false, "Show job-level debug logging")
	checkCmd.Flags().StringVar(&checkLanguage, "language", "", "Source language tag (en|ar), defaults to the project config")
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Lex, parse, and type-check a Seen source file",
	Long:  "Run the compiler pipeline through type checking without emitting code. Exits 2 on lex/parse errors, 1 on type errors, 0 otherwise.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		source, err := readSource(file)
		if err != nil {
			return err
		}

		lang, table, err := resolveLanguage(checkLanguage)
		if err != nil {
			return err
		}

		j := job.New(newLogger(checkVerbose))
		res, _ := j.Run(context.Background(), job.Request{
			Source:   source,
			File:     file,
			Language: lang,
			Table:    table,
			Mode:     job.ModeCheck,
		})

		if res.Diagnostics.HasErrors() || res.Diagnostics.HasWarnings() {
			if checkJSON {
				out, _ := res.Diagnostics.FormatAsJSON()
				fmt.Println(out)
			} else {
				fmt.Fprint(os.Stderr, res.Diagnostics.FormatForTerminal())
			}
		} else if !checkJSON {
			fmt.Printf("%s: no errors\n", file)
		}

		os.Exit(res.ExitCode())
		return nil
	},
}
