package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
)

// infof prints a status line unless --quiet.
func infof(format string, a ...interface{}) {
	if quietFlag {
		return
	}
	fmt.Printf(format+"\n", a...)
}

// verbosef prints a debug line when --verbose is set.
func verbosef(format string, a ...interface{}) {
	if !verboseFlag || quietFlag {
		return
	}
	fmt.Printf("%s %s\n", color.HiBlackString("debug:"), fmt.Sprintf(format, a...))
}

// warnf prints a warning to stderr. Warnings ignore --quiet; they signal
// something the user should look at.
func warnf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("Warning:"), fmt.Sprintf(format, a...))
}

// fatalf prints an error to stderr and exits non-zero.
func fatalf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("Error:"), fmt.Sprintf(format, a...))
	os.Exit(1)
}

func successMark() string { return color.GreenString("✓") }
func failMark() string    { return color.RedString("✗") }
func emptyMark() string   { return color.HiBlackString("○") }

// printJSON renders v as indented JSON on stdout.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatalf("encode JSON: %v", err)
	}
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tableCellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

// renderTable prints a borderless column-aligned table.
func renderTable(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).BorderBottom(false).
		BorderLeft(false).BorderRight(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle.PaddingRight(2)
			}
			return tableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Println(t.Render())
}
