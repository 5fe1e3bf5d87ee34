package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scrub/adapters/fileio"
	"scrub/app"
	"scrub/internal/analysis"
	"scrub/internal/cleaning"
	"scrub/internal/recommend"
	"scrub/internal/render"
	"scrub/internal/viz"
	"scrub/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scrub-cli",
		Short: "Scrub CLI for batch data profiling and cleaning",
	}

	rootCmd.AddCommand(
		newProfileCmd(),
		newSuggestCmd(),
		newCleanCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newProfileCmd() *cobra.Command {
	var asJSON bool
	var plotsDir string

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Generate a data quality report for a CSV or Excel file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(args[0])
			if err != nil {
				return err
			}
			if plotsDir != "" {
				if err := os.MkdirAll(plotsDir, 0o755); err != nil {
					return err
				}
				plots, err := viz.SaveAll(sess.Table, sess.Report, plotsDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "wrote %d plots to %s\n", len(plots), plotsDir)
			}
			if asJSON {
				out, err := json.MarshalIndent(sess.Report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}
			fmt.Print(render.ReportMarkdown(sess.Report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	cmd.Flags().StringVar(&plotsDir, "plots", "", "Directory to write diagnostic plot PNGs into")
	return cmd
}

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [file]",
		Short: "Print cleaning suggestions grouped by severity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(args[0])
			if err != nil {
				return err
			}
			fmt.Print(render.SuggestionsMarkdown(sess.Suggestions))
			return nil
		},
	}
}

func newCleanCmd() *cobra.Command {
	var ops []string
	var out string

	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Apply cleaning operations and export the result",
		Long: `Apply a sequence of cleaning operations and write the cleaned dataset.

Each --op takes one operation spec:

  missing:<column>:<mean|median|mode|drop>
  missing:<column>:constant:<value>
  dedup
  outliers:<column>:<iqr|zscore>
  encode:<column>:<label|onehot>
  scale:<standard|minmax|robust>:<col,col,...>
  dropconst

Example: scrub-cli clean data.csv --op missing:age:median --op dedup --out cleaned.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(ops) == 0 {
				return fmt.Errorf("at least one --op is required")
			}
			return runClean(args[0], ops, out)
		},
	}

	cmd.Flags().StringArrayVar(&ops, "op", nil, "Cleaning operation spec (repeatable, applied in order)")
	cmd.Flags().StringVar(&out, "out", "cleaned.csv", "Output file path (.csv or .xlsx)")
	return cmd
}

func newSession(path string) (*app.Session, error) {
	tbl, err := fileio.NewReader().ReadFile(path)
	if err != nil {
		return nil, err
	}
	svc := app.NewSessionService(analysis.NewGenerator(), recommend.NewEngine(), cleaning.NewService())
	return svc.Create(path, tbl)
}

func runClean(path string, ops []string, out string) error {
	tbl, err := fileio.NewReader().ReadFile(path)
	if err != nil {
		return err
	}
	svc := app.NewSessionService(analysis.NewGenerator(), recommend.NewEngine(), cleaning.NewService())
	sess, err := svc.Create(path, tbl)
	if err != nil {
		return err
	}

	for _, spec := range ops {
		req, err := parseOpSpec(spec)
		if err != nil {
			return err
		}
		if sess, err = svc.Apply(sess.ID, req); err != nil {
			return fmt.Errorf("op %q: %w", spec, err)
		}
		fmt.Printf("applied %s: %d rows, %d columns remain\n",
			req.Op, sess.Table.RowCount(), sess.Table.ColumnCount())
	}

	if err := fileio.NewWriter().SaveFile(out, sess.Table); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)

	fmt.Println()
	fmt.Print(render.SuggestionsMarkdown(sess.Suggestions))
	return nil
}

// parseOpSpec translates one colon-separated operation spec into a
// cleaning request.
func parseOpSpec(spec string) (ports.CleaningRequest, error) {
	parts := strings.Split(spec, ":")
	switch parts[0] {
	case "missing":
		if len(parts) < 3 {
			return ports.CleaningRequest{}, fmt.Errorf("missing op needs missing:<column>:<strategy>")
		}
		req := ports.CleaningRequest{
			Op:       ports.OpHandleMissing,
			Column:   parts[1],
			Strategy: parts[2],
		}
		if parts[2] == cleaning.StrategyConstant {
			if len(parts) < 4 {
				return ports.CleaningRequest{}, fmt.Errorf("constant strategy needs missing:<column>:constant:<value>")
			}
			req.FillValue = parts[3]
		}
		return req, nil
	case "dedup":
		req := ports.CleaningRequest{Op: ports.OpRemoveDuplicates}
		if len(parts) > 1 && parts[1] != "" {
			req.Columns = strings.Split(parts[1], ",")
		}
		return req, nil
	case "outliers":
		if len(parts) < 3 {
			return ports.CleaningRequest{}, fmt.Errorf("outliers op needs outliers:<column>:<iqr|zscore>")
		}
		return ports.CleaningRequest{
			Op:     ports.OpRemoveOutliers,
			Column: parts[1],
			Method: parts[2],
		}, nil
	case "encode":
		if len(parts) < 3 {
			return ports.CleaningRequest{}, fmt.Errorf("encode op needs encode:<column>:<label|onehot>")
		}
		return ports.CleaningRequest{
			Op:     ports.OpEncodeCategorical,
			Column: parts[1],
			Method: parts[2],
		}, nil
	case "scale":
		if len(parts) < 3 {
			return ports.CleaningRequest{}, fmt.Errorf("scale op needs scale:<method>:<col,col,...>")
		}
		return ports.CleaningRequest{
			Op:      ports.OpScaleFeatures,
			Method:  parts[1],
			Columns: strings.Split(parts[2], ","),
		}, nil
	case "dropconst":
		return ports.CleaningRequest{Op: ports.OpDropConstantColumns}, nil
	default:
		return ports.CleaningRequest{}, fmt.Errorf("unknown operation '%s'", parts[0])
	}
}
