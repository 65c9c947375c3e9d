// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// NewTable returns a borderless table writer rendering to w, with the
// header separated from the rows by a rule.
func NewTable(w io.Writer, header ...any) table.Writer {
	style := table.StyleDefault
	style.Options = table.Options{
		DrawBorder:      false,
		SeparateColumns: false,
		SeparateFooter:  false,
		SeparateHeader:  true,
		SeparateRows:    false,
	}
	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(style)
	writer.AppendHeader(table.Row(header))
	return writer
}
