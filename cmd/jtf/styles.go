package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/jtf-go/pkg/jtf"
	"github.com/ukaji3/jtf-go/pkg/jtf/sheet"
)

var stylesFlags struct {
	table  int
	x      int
	y      int
	asJSON bool
}

var stylesCmd = &cobra.Command{
	Use:   "styles FILE",
	Short: "Show the resolved styles of a cell",
	Long: `Resolve the classes and inline styles that apply to one cell.

Document rules apply before table rules, each in declaration order.

Examples:
  jtf styles report.json --table 0 --x 2 --y 1
  jtf styles report.json --x 0 --y 0 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runStyles,
}

func init() {
	rootCmd.AddCommand(stylesCmd)

	stylesCmd.Flags().IntVarP(&stylesFlags.table, "table", "t", 0, "table index")
	stylesCmd.Flags().IntVar(&stylesFlags.x, "x", 0, "column index")
	stylesCmd.Flags().IntVar(&stylesFlags.y, "y", 0, "row index")
	stylesCmd.Flags().BoolVar(&stylesFlags.asJSON, "json", false, "print the result as JSON")
}

func runStyles(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	doc, err := jtf.ParseFile(args[0], s.opts)
	if err != nil {
		return err
	}

	resolved, err := doc.GetCellStyles(stylesFlags.table, stylesFlags.x, stylesFlags.y)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if stylesFlags.asJSON {
		data, err := json.Marshal(resolved)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	cell, err := sheet.CellName(stylesFlags.x, stylesFlags.y)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "cell:  %s (x=%d, y=%d)\n", cell, stylesFlags.x, stylesFlags.y)
	fmt.Fprintf(out, "class: %s\n", resolved.Class)
	fmt.Fprintf(out, "style: %s\n", resolved.Style)
	return nil
}
