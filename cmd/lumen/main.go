// Command lumen runs a source file through the parse/desugar/eval
// pipeline and prints its final value: one positional file argument,
// flags for debug output, color, a step cap, watch mode, and dumping the
// compiled IL (spec.md §6).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/lumen/pkgs/ast"
	"github.com/aledsdavies/lumen/pkgs/cache"
	"github.com/aledsdavies/lumen/pkgs/config"
	"github.com/aledsdavies/lumen/pkgs/desugar"
	"github.com/aledsdavies/lumen/pkgs/errors"
	"github.com/aledsdavies/lumen/pkgs/eval"
	"github.com/aledsdavies/lumen/pkgs/value"
)

func main() {
	var (
		debug    bool
		noColor  bool
		maxSteps int
		watch    bool
		dumpIL   bool
	)

	rootCmd := &cobra.Command{
		Use:           "lumen <file>",
		Short:         "Run a lumen source file",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			cwd, err := os.Getwd()
			if err != nil {
				cwd = "."
			}
			cfg, err := config.Load(cwd)
			if err != nil {
				return errors.NewConfigParseError(config.FileName, err)
			}
			if !cmd.Flags().Changed("no-color") {
				noColor = cfg.NoColor
			}
			if !cmd.Flags().Changed("max-steps") && cfg.MaxSteps > 0 {
				maxSteps = cfg.MaxSteps
			}
			if !cmd.Flags().Changed("watch") {
				watch = cfg.Watch
			}

			runOpts := runOptions{
				path:     path,
				debug:    debug,
				noColor:  noColor,
				maxSteps: maxSteps,
				dumpIL:   dumpIL,
			}

			if watch {
				return runWatch(runOpts)
			}

			exitCode := runOnce(runOpts)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&debug, "debug", false, "print step counts and timing")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
	rootCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "cap the number of eval steps (0 = unbounded)")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "re-run on every save to the source file")
	rootCmd.Flags().BoolVar(&dumpIL, "dump-il", false, "print the compiled IL (CBOR) instead of running it")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorize("Error: ", colorRed, !noColor)+err.Error())
		os.Exit(1)
	}
}

type runOptions struct {
	path     string
	debug    bool
	noColor  bool
	maxSteps int
	dumpIL   bool
}

var parseCache = cache.NewParseCache()

// runOnce reads, parses, desugars, and evaluates path once, printing either
// the final value or a diagnostic to stderr. It returns the process exit
// code the caller should use (spec.md §6: "0 on success, 1 on parse
// errors, type errors, or runtime faults").
func runOnce(opts runOptions) int {
	source, err := os.ReadFile(opts.path)
	if err != nil {
		le := errors.NewFileNotFoundError(opts.path, err)
		fmt.Fprintln(os.Stderr, colorize("Error: ", colorRed, !opts.noColor)+le.Error())
		return 1
	}

	start := time.Now()

	body, oob := parseCache.Parse(string(source))
	for _, rec := range oob {
		if rec.Kind == ast.OOBError {
			line, col := lineCol(string(source), rec.Pos)
			fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", opts.path, line, col, colorize("Error: ParseError:"+rec.Text, colorRed, !opts.noColor))
			return 1
		}
	}

	rootNames, rootValues := value.Manifest()
	node := desugar.Desugar(body, desugar.NewEnv(rootNames))

	if opts.dumpIL {
		data, err := cache.EncodeIL(node)
		if err != nil {
			fmt.Fprintln(os.Stderr, colorize("Error: ", colorRed, !opts.noColor)+err.Error())
			return 1
		}
		os.Stdout.Write(data)
		return 0
	}

	env := value.NewEnv(nil, rootValues)
	ev := eval.New(eval.Compile(node), env, eval.DefaultHost{})
	steps := 0
	for ev.GetState() == eval.StateRunning && (opts.maxSteps == 0 || steps < opts.maxSteps) {
		ev.Sync(1)
		steps++
	}

	switch ev.GetState() {
	case eval.StateRunning:
		le := errors.NewStepLimitError(opts.maxSteps)
		fmt.Fprintln(os.Stderr, colorize("Error: ", colorRed, !opts.noColor)+le.Error())
		return 1

	case eval.StateFault:
		errName, _ := ev.Error()
		fault := &eval.Fault{Name: errName, Hint: ev.ErrorHint(), Eval: ev}
		formatError(os.Stderr, fault, opts.path, string(source), !opts.noColor)
		return 1
	}

	result, _ := ev.StackTop()
	fmt.Println(result.String())

	if opts.debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] %s (eval %s) evaluated in %d steps, %s\n", opts.path, ev.ID, steps, time.Since(start))
	}
	return 0
}
