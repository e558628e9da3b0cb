package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/jtf-go/pkg/jtf"
	"github.com/ukaji3/jtf-go/pkg/jtf/sheet"
)

var xlsxFlags struct {
	output   string
	noStyles bool
}

var xlsxCmd = &cobra.Command{
	Use:   "xlsx FILE",
	Short: "Export a document to an xlsx workbook",
	Long: `Export every table of a JTF document to its own worksheet.

Sheet names come from the table labels. Inline style rules are mapped to
cell fonts, fills and alignment unless --no-styles is given.

Examples:
  jtf xlsx report.json -o report.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runXLSX,
}

func init() {
	rootCmd.AddCommand(xlsxCmd)

	xlsxCmd.Flags().StringVarP(&xlsxFlags.output, "output", "o", "", "output workbook path (required)")
	xlsxCmd.Flags().BoolVar(&xlsxFlags.noStyles, "no-styles", false, "do not map inline styles to cell styles")
	_ = xlsxCmd.MarkFlagRequired("output")
}

func runXLSX(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	doc, err := jtf.ParseFile(args[0], s.opts)
	if err != nil {
		return err
	}

	styles := !xlsxFlags.noStyles
	if err := sheet.ExportFile(doc, xlsxFlags.output, sheet.ExportOptions{Styles: &styles}); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	s.logger.Info("Workbook written", "path", xlsxFlags.output, "tables", len(doc.Tables()))
	return nil
}
