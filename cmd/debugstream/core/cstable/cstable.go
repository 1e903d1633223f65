package cstable

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	isatty "github.com/mattn/go-isatty"
)

// ShouldWeColorize resolves a yes/no/auto setting against the terminal
// behind f.
func ShouldWeColorize(wantColor string, f *os.File) bool {
	switch wantColor {
	case "yes":
		return true
	case "no":
		return false
	default:
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}

type Table struct {
	Writer table.Writer
	output io.Writer
	align  []text.Align
}

func New(out io.Writer, wantColor string) *Table {
	if out == nil {
		panic("newTable: out is nil")
	}

	t := table.NewWriter()

	// colorize output, use unicode box characters
	fancy := ShouldWeColorize(wantColor, os.Stdout)

	colorOptions := table.ColorOptions{}

	if fancy {
		colorOptions.Header = text.Colors{text.Italic}
		colorOptions.Border = text.Colors{text.FgHiBlack}
		colorOptions.Separator = text.Colors{text.FgHiBlack}
	}

	box := table.StyleBoxDefault
	if fancy {
		box = table.StyleBoxRounded
	}

	t.SetStyle(table.Style{
		Box:     box,
		Color:   colorOptions,
		Format:  table.FormatOptions{},
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
	})

	return &Table{
		Writer: t,
		output: out,
	}
}

func (t *Table) SetHeaders(str ...string) {
	row := table.Row{}
	t.align = make([]text.Align, len(str))

	for i, v := range str {
		row = append(row, v)
		t.align[i] = text.AlignLeft
	}

	t.Writer.AppendHeader(row)
}

func (t *Table) AddRow(str ...string) {
	row := table.Row{}
	for _, v := range str {
		row = append(row, v)
	}

	t.Writer.AppendRow(row)
}

func (t *Table) Render() {
	configs := []table.ColumnConfig{}

	for i := range len(t.align) {
		configs = append(configs, table.ColumnConfig{
			Number:           i + 1,
			AlignHeader:      text.AlignCenter,
			Align:            t.align[i],
			WidthMax:         120,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}

	t.Writer.SetColumnConfigs(configs)
	fmt.Fprintln(t.output, t.Writer.Render())
}
