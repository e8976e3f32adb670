// Package utils provides terminal output helpers shared by the CLI commands
package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Theme implements a Gruvbox-inspired dark theme
var (
	gruvboxFgDark  = text.Colors{text.FgHiBlack}
	gruvboxFgLight = text.Colors{text.FgWhite}
	gruvboxRed     = text.Colors{text.FgRed}
	gruvboxGreen   = text.Colors{text.FgGreen}
	gruvboxYellow  = text.Colors{text.FgYellow}
	gruvboxBlue    = text.Colors{text.FgBlue}
	gruvboxAqua    = text.Colors{text.FgCyan}

	gruvboxGreenBright = text.Colors{text.FgHiGreen}
	gruvboxBlueBright  = text.Colors{text.FgHiBlue}
	gruvboxAquaBright  = text.Colors{text.FgHiCyan}

	gruvboxBold = text.Colors{text.Bold}
)

// Theme - exported theme colors for consistent UI
var Theme = struct {
	Success text.Colors
	Info    text.Colors
	Warning text.Colors
	Error   text.Colors
	Heading text.Colors
	Subtle  text.Colors
	Accent  text.Colors

	Title       text.Colors
	TableHeader text.Colors
	TableBorder text.Colors
	TableRow    text.Colors
	TableAltRow text.Colors
	Code        text.Colors
}{
	Success: gruvboxGreen,
	Info:    gruvboxBlue,
	Warning: gruvboxYellow,
	Error:   gruvboxRed,
	Heading: append(gruvboxAquaBright, text.Bold),
	Subtle:  gruvboxFgDark,
	Accent:  gruvboxAqua,

	Title:       append(gruvboxAquaBright, text.Bold),
	TableHeader: append(gruvboxBlueBright, text.Bold),
	TableBorder: gruvboxBlue,
	TableRow:    gruvboxFgLight,
	TableAltRow: text.Colors{text.FgWhite, text.Faint},
	Code:        gruvboxGreenBright,
}

// PrintHeading prints a formatted heading
func PrintHeading(title string) {
	fmt.Println(Theme.Heading.Sprint(title))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Println(Theme.Success.Sprint("✓ ") + message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Println(Theme.Info.Sprint("ℹ ") + message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println(Theme.Warning.Sprint("⚠ ") + message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Println(Theme.Error.Sprint("✗ ") + message)
}

// PrintKeyValue prints a key-value pair
func PrintKeyValue(key, value string) {
	fmt.Printf("%s: %s\n", gruvboxBold.Sprint(key), value)
}

// PrintDivider prints a horizontal divider
func PrintDivider() {
	fmt.Println(Theme.Subtle.Sprint("---------------------------------------------------"))
}

// CodeBlock formats text as an indented code block
func CodeBlock(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}
	return Theme.Code.Sprint(strings.Join(lines, "\n"))
}

// TableOptions defines options for table creation
type TableOptions struct {
	Title string
}

// DefaultTableOptions returns default table options with Gruvbox theme
func DefaultTableOptions() TableOptions {
	return TableOptions{
		Title: "Scalpel",
	}
}

// CreateTable creates a new table with default styling
func CreateTable(options ...TableOptions) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	opts := DefaultTableOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	if opts.Title != "" {
		t.SetTitle(opts.Title)
	}

	customStyle := table.StyleDouble
	customStyle.Color.Header = Theme.TableHeader
	customStyle.Color.Border = Theme.TableBorder
	customStyle.Color.Row = Theme.TableRow
	customStyle.Color.RowAlternate = Theme.TableAltRow
	customStyle.Title.Colors = Theme.Title
	customStyle.Title.Align = text.AlignCenter
	customStyle.Box.PaddingLeft = " "
	customStyle.Box.PaddingRight = " "

	t.SetStyle(customStyle)
	t.Style().Options.SeparateRows = false

	return t
}

// PrintTable prints a table with headers and rows
func PrintTable(headers []string, rows [][]string, options ...TableOptions) {
	t := CreateTable(options...)

	headerRow := table.Row{}
	for _, header := range headers {
		headerRow = append(headerRow, header)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tableRow := table.Row{}
		for _, cell := range row {
			tableRow = append(tableRow, cell)
		}
		t.AppendRow(tableRow)
	}

	t.Render()
}
