package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliconfig "github.com/seen-lang/seenc/internal/cli/config"
	"github.com/seen-lang/seenc/internal/compiler/backend/llvm"
	"github.com/seen-lang/seenc/internal/compiler/job"
)

var (
	buildJSON     bool
	buildVerbose  bool
	buildLanguage string
	buildTriple   string
	buildVector   bool
	buildOutput   string
)

func init() {
	buildCmd.Flags().BoolVar(&buildJSON, "json", false, "Output diagnostics in JSON format")
	buildCmd.Flags().BoolVar(&buildVerbose, "verbose", false, "Show job-level debug logging")
	buildCmd.Flags().StringVar(&buildLanguage, "language", "", "Source language tag (en|ar), defaults to the project config")
	buildCmd.Flags().StringVar(&buildTriple, "target", "", "Target triple, defaults to the project config")
	buildCmd.Flags().BoolVar(&buildVector, "vector", false, "Enable the RISC-V vector extension (RISC-V targets only)")
	buildCmd.Flags().StringVar(&buildOutput, "output", "", "Write emitted LLVM IR to this path instead of stdout")
}

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Compile a Seen source file to LLVM IR",
	Long:  "Run the full compiler pipeline and emit textual LLVM IR. Exits 1 on any compile error, 0 on success.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		source, err := readSource(file)
		if err != nil {
			return err
		}

		lang, table, err := resolveLanguage(buildLanguage)
		if err != nil {
			return err
		}

		target, err := resolveTarget()
		if err != nil {
			return err
		}

		j := job.New(newLogger(buildVerbose))
		res, _ := j.Run(context.Background(), job.Request{
			Source:   source,
			File:     file,
			Language: lang,
			Table:    table,
			Mode:     job.ModeBuild,
			Target:   target,
		})

		if res.Diagnostics.HasErrors() {
			if buildJSON {
				out, _ := res.Diagnostics.FormatAsJSON()
				fmt.Println(out)
			} else {
				fmt.Fprint(os.Stderr, res.Diagnostics.FormatForTerminal())
			}
			os.Exit(1)
		}

		if buildOutput != "" {
			if err := os.WriteFile(buildOutput, []byte(res.LLVMIR), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", buildOutput, err)
			}
			fmt.Printf("wrote %s\n", buildOutput)
			return nil
		}

		fmt.Print(res.LLVMIR)
		return nil
	},
}

// resolveTarget builds the llvm.Target from flags, falling back to the
// project config's default triple/vector setting.
func resolveTarget() (llvm.Target, error) {
	triple := buildTriple
	vector := buildVector

	if triple == "" {
		cfg, err := cliconfig.Load()
		if err != nil {
			return llvm.Target{}, err
		}
		triple = cfg.Target.Triple
		if !cmdFlagChanged("vector") {
			vector = cfg.Target.Vector
		}
	}

	return llvm.Target{Triple: triple, Vector: vector}, nil
}

func cmdFlagChanged(name string) bool {
	flag := buildCmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}
