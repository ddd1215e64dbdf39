// Package render prints tabular results for the CLI: a lipgloss-styled grid
// on a terminal and tab-separated values everywhere else.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	sepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2a3850"))
)

// Table is a titled grid of pre-formatted cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers, Rows: make([][]string, 0)}
}

// AddRow appends a row, formatting each value with FormatValue.
func (t *Table) AddRow(values ...any) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = FormatValue(v)
	}
	t.Rows = append(t.Rows, row)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Write renders t to w, styled when styled is true.
func (t *Table) Write(w io.Writer, styled bool) error {
	var out string
	if styled {
		out = t.styled()
	} else {
		out = t.tsv()
	}
	_, err := io.WriteString(w, out)
	return err
}

// tsv emits a header line and one line per row. Tabs and newlines inside
// cells are replaced by spaces.
func (t *Table) tsv() string {
	var sb strings.Builder
	writeLine := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(strings.NewReplacer("\t", " ", "\n", " ").Replace(c))
		}
		sb.WriteByte('\n')
	}
	writeLine(t.Headers)
	for _, row := range t.Rows {
		writeLine(row)
	}
	return sb.String()
}

func (t *Table) styled() string {
	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(titleStyle.Render(t.Title))
		sb.WriteString("\n")
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	total := len(widths) - 1
	for i := range widths {
		// Width includes the one-cell padding on each side.
		widths[i] += 2
		total += widths[i]
	}

	writeRow := func(style lipgloss.Style, cells []string) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(style.Width(widths[i]).Render(cell))
			if i < len(widths)-1 {
				sb.WriteString(sepStyle.Render("│"))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headerStyle, t.Headers)
	sb.WriteString(sepStyle.Render(strings.Repeat("─", max(total, 0))))
	sb.WriteString("\n")
	for _, row := range t.Rows {
		writeRow(cellStyle, row)
	}
	if len(t.Rows) == 0 {
		sb.WriteString(cellStyle.Render("(no rows)"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatValue renders a report or model value as a cell. Floats keep at most
// two decimals; midnight times print as dates.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(math.Round(x*100)/100, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
