package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"serviceboard/adapters/excel"
	"serviceboard/app"
	"serviceboard/domain/core"
	"serviceboard/domain/report"
	"serviceboard/internal/dataset"
	"serviceboard/internal/logging"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "serviceboard-cli",
		Short:         "Inspect and convert service employee rank exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Log level: debug|info|warn|error")

	newService := func() (*app.ExtractionService, func(), error) {
		logger, err := logging.New(logLevel, logging.FormatConsole)
		if err != nil {
			return nil, nil, err
		}
		return app.NewExtractionService(logger.Named("cli"), core.SystemClock), func() { _ = logger.Sync() }, nil
	}

	rootCmd.AddCommand(
		newExtractCmd(newService),
		newSheetsCmd(),
		newInspectCmd(newService),
	)
	return rootCmd
}

type serviceFactory func() (*app.ExtractionService, func(), error)

func newExtractCmd(newService serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [input.xlsx] [output.json]",
		Short: "Convert a workbook to dashboard JSON",
		Long: `Convert a workbook to the JSON document the dashboard reads.

Example: serviceboard-cli extract export.xlsx storage/latest.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := newService()
			if err != nil {
				return err
			}
			defer done()

			doc, err := svc.ExtractTo(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(doc.Dataset.Rows), args[1])
			return nil
		},
	}
}

func newSheetsCmd() *cobra.Command {
	var types bool

	cmd := &cobra.Command{
		Use:   "sheets [input.xlsx]",
		Short: "List the sheets of a workbook with their row counts",
		Long: `List the sheets of a workbook with their row counts.

With --types, also print how the cells under each header coerce, column by
column, before any row is dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			wb, err := excel.ReadWorkbook(cmd.Context(), data)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SHEET\tPATH\tROWS\tHEADER ROW")
			for _, sheet := range wb.Sheets {
				header := "-"
				if idx, ok := dataset.FindHeaderRow(dataset.NormalizeRows(sheet.Rows)); ok {
					header = fmt.Sprintf("%d", idx+1)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", sheet.Name, sheet.Path, len(sheet.Rows), header)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !types {
				return nil
			}
			for _, sheet := range wb.Sheets {
				profiles, err := dataset.ProfileColumns(dataset.NormalizeRows(sheet.Rows))
				if err != nil {
					continue
				}
				if err := printProfiles(cmd.OutOrStdout(), sheet.Name, profiles); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&types, "types", false, "print the per-column type breakdown of each sheet with a header")
	return cmd
}

func printProfiles(out io.Writer, sheet string, profiles []dataset.ColumnProfile) error {
	fmt.Fprintf(out, "\n%s:\n", sheet)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  COLUMN\tEMPTY\tSTRING\tNUMBER\tPERCENT\tPROMOTED")
	for _, p := range profiles {
		fmt.Fprintf(w, "  %s\t%d\t%d\t%d\t%d\t%s\n",
			p.Column, p.EmptyCount, p.StringCount, p.NumberCount, p.PercentCount, p.Promoted)
	}
	return w.Flush()
}

func newInspectCmd(newService serviceFactory) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "inspect [input.xlsx]",
		Short: "Show title, columns, field types and column statistics",
		Long: `Show what the dashboard would receive for a workbook.

With --query, print the result of a JSON path over the document instead.

Examples:
  serviceboard-cli inspect export.xlsx
  serviceboard-cli inspect export.xlsx --query 'meta.Exported ISO'
  serviceboard-cli inspect export.xlsx --query 'dataset.rows.#.Employee'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := newService()
			if err != nil {
				return err
			}
			defer done()

			doc, err := svc.ExtractFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if query != "" {
				return printQuery(cmd.OutOrStdout(), doc, query)
			}
			return printInspect(cmd.OutOrStdout(), doc)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "JSON path over the extracted document (gjson syntax)")
	return cmd
}

func printQuery(out io.Writer, doc *report.Document, query string) error {
	body, err := doc.EncodeIndent()
	if err != nil {
		return err
	}
	res := gjson.GetBytes(body, query)
	if !res.Exists() {
		return fmt.Errorf("no value at %q", query)
	}
	if res.Type == gjson.String {
		_, err = fmt.Fprintln(out, res.Str)
	} else {
		_, err = fmt.Fprintln(out, res.Raw)
	}
	return err
}

func printInspect(out io.Writer, doc *report.Document) error {
	fmt.Fprintf(out, "Title:   %s\n", doc.Dataset.Title)
	fmt.Fprintf(out, "Sheets:  data=%q filters=%q\n", doc.Source.DataSheet, doc.Source.FiltersSheet)
	fmt.Fprintf(out, "Rows:    %d\n", len(doc.Dataset.Rows))
	if iso, ok := doc.Meta[report.MetaExportedISO]; ok {
		fmt.Fprintf(out, "Exported: %s\n", iso)
	}

	if len(doc.Meta) > 0 {
		keys := make([]string, 0, len(doc.Meta))
		for k := range doc.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(out, "\nMetadata:")
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %s\n", k, doc.Meta[k])
		}
	}

	fmt.Fprintln(out, "\nColumns:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, col := range doc.Dataset.Columns {
		fmt.Fprintf(w, "  %s\t%s\n", col, doc.FieldTypes[col])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	summary := dataset.Summarize(doc.Dataset.Columns, doc.Dataset.Rows, doc.FieldTypes)
	if len(summary) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nSummary:")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  COLUMN\tCOUNT\tMIN\tMAX\tMEAN\tMEDIAN\tSTDDEV")
	for _, s := range summary {
		fmt.Fprintf(w, "  %s\t%d\t%g\t%g\t%.2f\t%g\t%.2f\n", s.Column, s.Count, s.Min, s.Max, s.Mean, s.Median, s.StdDev)
	}
	return w.Flush()
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
