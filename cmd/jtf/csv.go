package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ukaji3/jtf-go/pkg/jtf"
)

var csvFlags struct {
	table  int
	output string
	dir    string
}

var csvCmd = &cobra.Command{
	Use:   "csv FILE",
	Short: "Render a table as CSV",
	Long: `Render one table of a JTF document as CSV text.

Rows are padded to the widest row; absent and null cells are empty fields.
With --dir every table is written to DIR/<index>.csv instead.

Examples:
  jtf csv report.json --table 1
  jtf csv report.json --table 0 -o table.csv
  jtf csv report.json --dir tables/`,
	Args: cobra.ExactArgs(1),
	RunE: runCSV,
}

func init() {
	rootCmd.AddCommand(csvCmd)

	csvCmd.Flags().IntVarP(&csvFlags.table, "table", "t", 0, "table index")
	csvCmd.Flags().StringVarP(&csvFlags.output, "output", "o", "", "output file path (default: stdout)")
	csvCmd.Flags().StringVar(&csvFlags.dir, "dir", "", "directory for per-table CSV files")
}

func runCSV(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	doc, err := jtf.ParseFile(args[0], s.opts)
	if err != nil {
		return err
	}

	if csvFlags.dir != "" {
		return writeTableFiles(doc, csvFlags.dir)
	}

	text, err := doc.ToCSV(csvFlags.table)
	if err != nil {
		return err
	}
	return writeOutput(cmd, csvFlags.output, []byte(text))
}

func writeTableFiles(doc *jtf.Document, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, index := range doc.Tables() {
		text, err := doc.ToCSV(index)
		if err != nil {
			return err
		}
		filename := filepath.Join(dir, strconv.Itoa(index)+".csv")
		if err := os.WriteFile(filename, []byte(text), 0644); err != nil {
			return fmt.Errorf("failed to write table %d: %w", index, err)
		}
	}

	return nil
}
