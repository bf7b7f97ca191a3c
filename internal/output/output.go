// Package output renders query results for the terminal and for pipes.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/coral-mesh/sqlcmd/internal/executor"
)

// Supported formats.
const (
	FormatTable  = "table"
	FormatPretty = "pretty"
	FormatCSV    = "csv"
	FormatJSON   = "json"
)

// Formats lists every supported format name.
var Formats = []string{FormatTable, FormatPretty, FormatCSV, FormatJSON}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Print writes result to w in the requested format.
// Dry-run results (not executed) print only the statement.
func Print(w io.Writer, format string, result *executor.Result) error {
	if result == nil {
		return nil
	}
	if !result.Executed {
		_, err := fmt.Fprintln(w, result.Query)
		return err
	}

	switch format {
	case FormatTable, "":
		return printTable(w, result)
	case FormatPretty:
		return printPretty(w, result)
	case FormatCSV:
		return printCSV(w, result)
	case FormatJSON:
		return printJSON(w, result)
	default:
		return fmt.Errorf("invalid format: %s (must be table, pretty, csv, or json)", format)
	}
}

// printTable prints results as aligned columns with a row count footer.
func printTable(w io.Writer, result *executor.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Header and separator.
	for i, col := range result.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)
	for i := range result.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, "---")
	}
	fmt.Fprintln(tw)

	for _, row := range result.Rows {
		for i, val := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, FormatValue(val))
		}
		fmt.Fprintln(tw)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	_, err := fmt.Fprintf(w, "\n(%d rows)\n", len(result.Rows))
	return err
}

// printPretty prints results as a bordered lipgloss table.
func printPretty(w io.Writer, result *executor.Result) error {
	rows := make([][]string, len(result.Rows))
	for i, row := range result.Rows {
		rows[i] = stringRow(row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(result.Columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintf(w, "%s\n(%d rows)\n", t.Render(), len(result.Rows))
	return err
}

// printCSV prints results in CSV format with a header record.
func printCSV(w io.Writer, result *executor.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(result.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range result.Rows {
		if err := cw.Write(stringRow(row)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// printJSON prints results as an array of objects keyed by column name.
func printJSON(w io.Writer, result *executor.Result) error {
	records := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		record := make(map[string]any, len(result.Columns))
		for i, col := range result.Columns {
			record[col] = row[i]
		}
		records = append(records, record)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func stringRow(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = FormatValue(v)
	}
	return out
}

// FormatValue formats a value for display in table or CSV output.
func FormatValue(val any) string {
	if val == nil {
		return "NULL"
	}

	switch v := val.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
