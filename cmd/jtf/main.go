// Command jtf validates and converts JTF documents.
//
// Usage:
//
//	# Validate documents
//	jtf validate report.json other.json
//
//	# Re-validate whenever a document changes
//	jtf validate report.json --watch
//
//	# Render a table as CSV
//	jtf csv report.json --table 0 -o table.csv
//
//	# Convert to and from xlsx workbooks
//	jtf xlsx report.json -o report.xlsx
//	jtf import report.xlsx -o report.json --pretty
//
//	# Show the resolved styles of a cell
//	jtf styles report.json --table 0 --x 2 --y 1
package main

func main() {
	Execute()
}
