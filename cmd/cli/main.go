package main

import (
	"encoding/json"
	"fmt"
	"os"

	"pimprep/adapters/excel"
	"pimprep/adapters/report"
	"pimprep/app"
	"pimprep/domain/dataset"
	"pimprep/internal/classifier"
	"pimprep/ports"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pimprep-cli",
		Short: "Analyze tabular product data before catalog import",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newValidateCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type pipelineFlags struct {
	low         float64
	medium      float64
	uomKeywords []string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.low, "low", 0.1, "Cardinality ratio below which a column is a parent-level candidate")
	cmd.Flags().Float64Var(&f.medium, "medium", 0.5, "Cardinality ratio below which a column is a variant-level candidate")
	cmd.Flags().StringSliceVar(&f.uomKeywords, "uom-keyword", nil, "Extra unit-of-measure header keywords (repeatable)")
}

func (f *pipelineFlags) service() (*app.AnalysisService, error) {
	t := classifier.Thresholds{Low: f.low, Medium: f.medium}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return app.NewAnalysisService(t, f.uomKeywords, nil), nil
}

func loadDataset(path string) (*dataset.Dataset, error) {
	var reader ports.DatasetReader = excel.NewDataReader(path)
	return reader.ReadDataset()
}

func newAnalyzeCmd() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "analyze [data-file]",
		Short: "Run the full analysis pipeline and print the result as JSON",
		Long: `Classify columns, propose a product hierarchy, resolve the taxonomy
tree and run the data-quality passes over an xlsx or csv file.

Example: pimprep-cli analyze catalog.xlsx --low 0.1 --medium 0.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			rec, err := svc.Run(cmd.Context(), ds)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}

	flags.register(cmd)
	return cmd
}

func newValidateCmd() *cobra.Command {
	var flags pipelineFlags
	var hierarchyHeaders []string

	cmd := &cobra.Command{
		Use:   "validate [data-file]",
		Short: "Run only the data-quality passes and print the findings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			res := svc.Validate(ds, hierarchyHeaders)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&hierarchyHeaders, "hierarchy-header", nil, "Headers that form the taxonomy levels (repeatable)")
	return cmd
}

func newReportCmd() *cobra.Command {
	var flags pipelineFlags
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "report [data-file]",
		Short: "Run the pipeline and print a human-readable report",
		Long: `Run the full pipeline and render the result as a markdown report,
ready to hand to whoever owns the source data.

Example: pimprep-cli report catalog.csv > catalog-report.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			rec, err := svc.Run(cmd.Context(), ds)
			if err != nil {
				return err
			}
			if asHTML {
				_, err = os.Stdout.Write(report.HTML(rec))
				return err
			}
			_, err = fmt.Print(report.Markdown(rec))
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the report as HTML instead of markdown")
	return cmd
}
