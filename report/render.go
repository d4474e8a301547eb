/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// createStandardTable creates a table writer with standard formatting options
// so every report section renders the same way.
func createStandardTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 80,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// Render writes the analysis as a markdown report with the median
// thresholds, the full classified table, and a section per non-empty
// quadrant.
func (a *Analysis) Render() string {
	var sb strings.Builder

	sb.WriteString("# Quadrant Analysis\n\n")
	fmt.Fprintf(&sb, "Quality median: %s\n", formatEntryScore(a.QualityMedian))
	fmt.Fprintf(&sb, "Consensus median: %s\n\n", formatEntryScore(a.ConsensusMedian))

	sb.WriteString("## All Candidates\n\n")
	var buf bytes.Buffer
	table := createStandardTable([]string{"Model", "Quality", "Consensus", "Quadrant"}, &buf)
	for _, entry := range a.Entries {
		_ = table.Append([]string{
			entry.ID,
			formatEntryScore(entry.QualityScore),
			formatEntryScore(entry.ConsensusScore),
			string(entry.Quadrant),
		})
	}
	_ = table.Render()
	sb.WriteString(buf.String())

	groups := a.ByQuadrant()
	for _, quadrant := range []Quadrant{Goldilocks, CreativeExcellence, SafeConsensus, Avoid} {
		entries := groups[quadrant]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", quadrant)
		var qbuf bytes.Buffer
		qtable := createStandardTable([]string{"Model", "Quality", "Consensus"}, &qbuf)
		for _, entry := range entries {
			_ = qtable.Append([]string{
				entry.ID,
				formatEntryScore(entry.QualityScore),
				formatEntryScore(entry.ConsensusScore),
			})
		}
		_ = qtable.Render()
		sb.WriteString(qbuf.String())
	}

	return sb.String()
}
