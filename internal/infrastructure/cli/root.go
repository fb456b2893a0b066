package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/rxdbg/internal/app"
	"github.com/doeshing/rxdbg/internal/application/analysis"
	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/infrastructure/cli/commands"
	"github.com/doeshing/rxdbg/internal/infrastructure/engine"
	"github.com/doeshing/rxdbg/internal/ports"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// Execute builds the container, runs the command line and releases the
// container's resources.
func Execute(ctx context.Context, opts Options, args []string) error {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return err
	}
	defer container.Close()

	root := NewRootCmd(container)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(container *app.Container) *cobra.Command {
	rootFlags := &testFlags{}
	root := &cobra.Command{
		Use:   "rxdbg [pattern] [test string]",
		Short: "rxdbg - regex debugger",
		Long:  "rxdbg runs a regular expression against a sample, lists every match with its capture groups and explains the pattern token by token.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTest(cmd, container, rootFlags, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootFlags.bind(root)

	root.AddCommand(newTestCommand(container))
	root.AddCommand(newRandomCommand(container))
	root.AddCommand(commands.NewExplainCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewServeCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root
}

type testFlags struct {
	engine     string
	ignoreCase bool
	multiline  bool
	dotAll     bool
	noHistory  bool
	asJSON     bool
}

func (f *testFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.engine, "engine", "e", "", "Regex engine (ecmascript|re2|coregex), default from config")
	cmd.Flags().BoolVarP(&f.ignoreCase, "ignore-case", "i", false, "Case-insensitive matching")
	cmd.Flags().BoolVarP(&f.multiline, "multiline", "m", false, "^ and $ match at line boundaries")
	cmd.Flags().BoolVarP(&f.dotAll, "dot-all", "s", false, ". also matches newlines")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "Do not record this run")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the analysis as JSON")
}

func newTestCommand(container *app.Container) *cobra.Command {
	flags := &testFlags{}
	cmd := &cobra.Command{
		Use:   "test <pattern> [test string]",
		Short: "Run a pattern against a test string",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd, container, flags, args)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newRandomCommand(container *app.Container) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Try a random example pattern on a random sample",
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, result, err := container.AnalysisService.Random()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, map[string]any{"example": ex, "analysis": result})
			}
			fmt.Fprintf(out, "Example: %s\n\n", ex.Description)
			NewRenderer(out).RenderAnalysis(result, container.Matcher.Name())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis as JSON")
	return cmd
}

func runTest(cmd *cobra.Command, container *app.Container, flags *testFlags, args []string) error {
	pattern := args[0]
	sample := ""
	if len(args) > 1 {
		sample = args[1]
	}

	matcher, err := resolveMatcher(cmd, container, flags)
	if err != nil {
		return err
	}
	record := container.AnalysisService.Record && !flags.noHistory
	svc := container.AnalysisWith(matcher, record)

	out := cmd.OutOrStdout()
	result, err := svc.Run(pattern, sample)
	if errors.Is(err, analysis.ErrEmptyPattern) {
		NewRenderer(out).RenderError(err)
		return err
	}
	if flags.asJSON {
		if jsonErr := writeJSON(out, result); jsonErr != nil {
			return jsonErr
		}
		return err
	}
	NewRenderer(out).RenderAnalysis(result, svc.Matcher.Name())
	return err
}

// resolveMatcher returns the configured matcher unless a flag overrides the
// engine or one of its options.
func resolveMatcher(cmd *cobra.Command, container *app.Container, flags *testFlags) (ports.Matcher, error) {
	changed := false
	for _, name := range []string{"engine", "ignore-case", "multiline", "dot-all"} {
		if cmd.Flags().Changed(name) {
			changed = true
			break
		}
	}
	if !changed {
		return container.Matcher, nil
	}

	cfg := container.Config
	name := cfg.Matcher.Engine
	if flags.engine != "" {
		name = strings.ToLower(flags.engine)
	}
	base := cfg.Matcher.Options()
	opts := domain.MatchOptions{
		IgnoreCase: base.IgnoreCase || flags.ignoreCase,
		Multiline:  base.Multiline || flags.multiline,
		DotAll:     base.DotAll || flags.dotAll,
	}
	timeout, err := cfg.MatchTimeout()
	if err != nil {
		return nil, err
	}
	return engine.New(name, opts, timeout)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
