package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/jtf-go/pkg/jtf/sheet"
)

var importFlags struct {
	output   string
	pretty   bool
	trim     bool
	formulas bool
}

var importCmd = &cobra.Command{
	Use:   "import FILE.xlsx",
	Short: "Convert an xlsx workbook to a JTF document",
	Long: `Convert every worksheet of an xlsx workbook into a JTF table.

Tables are indexed by sheet position and labeled with the sheet name. Numeric
text becomes numbers and boolean cells become booleans.

Examples:
  jtf import report.xlsx --pretty
  jtf import report.xlsx -o report.json --trim`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFlags.output, "output", "o", "", "output file path (default: stdout)")
	importCmd.Flags().BoolVar(&importFlags.pretty, "pretty", false, "pretty-print JSON output")
	importCmd.Flags().BoolVar(&importFlags.trim, "trim", false, "move each sheet's data to start at the first cell")
	importCmd.Flags().BoolVar(&importFlags.formulas, "formulas", false, "keep cell formulas instead of cached values")
}

func runImport(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	doc, err := sheet.ImportFile(args[0], sheet.ImportOptions{
		Trim:            importFlags.trim,
		IncludeFormulas: importFlags.formulas,
		Document:        s.opts,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	var data []byte
	if importFlags.pretty {
		data, err = doc.StringifyIndent("", "  ")
	} else {
		data, err = doc.Stringify()
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return writeOutput(cmd, importFlags.output, append(data, '\n'))
}
