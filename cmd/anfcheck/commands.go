package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gogpu/anf"
	"github.com/gogpu/anf/internal/ctxlog"
)

// errCheckFailed is returned when at least one fixture failed its check.
var errCheckFailed = errors.New("check failed")

var (
	okLabel   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	dimText   = color.New(color.Faint).SprintfFunc()
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "anfcheck",
		Short:         "Check ANF graph fixtures",
		Long:          "anfcheck builds graphs from YAML fixtures, applies their edit scripts\nand verifies that node inputs and uses stay consistent.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newCheckCmd(), newStatsCmd(), newDumpCmd(), newVersionCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	opts := anf.DefaultOptions()
	var (
		verbose bool
		noStop  bool
	)
	cmd := &cobra.Command{
		Use:   "check [flags] <fixture.yaml>...",
		Short: "Build fixtures, run their edits and verify edges",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.StopOnError = !noStop
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				report, err := checkFile(cmd, path, opts)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", failLabel("FAIL"), path, err)
					continue
				}
				if !report.OK() {
					failed++
					fmt.Fprintf(out, "%s %s\n", failLabel("FAIL"), path)
					printProblems(out, report)
					continue
				}
				fmt.Fprintf(out, "%s %s", okLabel("OK"), path)
				if verbose {
					s := report.Stats
					fmt.Fprint(out, dimText(" (%d graphs, %d nodes, %d edges, %d edits)",
						s.Graphs, s.Nodes, s.Edges, s.EditsApplied))
				}
				fmt.Fprintln(out)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d fixtures", errCheckFailed, failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print counts for passing fixtures")
	cmd.Flags().BoolVar(&opts.VerifyEachEdit, "each-edit", false, "verify edges after every edit")
	cmd.Flags().BoolVar(&noStop, "keep-going", false, "keep applying edits after a failure")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <fixture.yaml>...",
		Short: "Print graph, node and edge counts after running the edits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := anf.DefaultOptions()
			opts.StopOnError = false

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FIXTURE\tGRAPHS\tNODES\tEDGES\tCONSTANTS\tUNUSED\tEDITS\tFAILED")
			for _, path := range args {
				report, err := checkFile(cmd, path, opts)
				if err != nil {
					tw.Flush()
					return fmt.Errorf("%s: %w", path, err)
				}
				s := report.Stats
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n", path,
					s.Graphs, s.Nodes, s.Edges, s.Constants, s.UnusedParameters, s.EditsApplied, s.EditsFailed)
			}
			return tw.Flush()
		},
	}
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <fixture.yaml>",
		Short: "Print the graphs as they are after running the edits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := checkFile(cmd, args[0], anf.DefaultOptions())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), anf.Dump(report.Program))
			if !report.OK() {
				printProblems(cmd.ErrOrStderr(), report)
				return errCheckFailed
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "anfcheck version %s\n", anfVersion)
		},
	}
}

func checkFile(cmd *cobra.Command, path string, opts anf.Options) (*anf.Report, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	ctxlog.FromContext(ctx).Info("checking fixture", "path", path)
	return anf.Check(ctx, source, opts)
}

func printProblems(w io.Writer, report *anf.Report) {
	for _, err := range report.EditErrors {
		fmt.Fprintf(w, "  edit: %v\n", err)
	}
	for _, e := range report.EdgeErrors {
		fmt.Fprintf(w, "  edge: %v\n", e)
	}
}

// newLogger logs text to terminals and JSON everywhere else.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, hopts)), nil
}
