package main

import (
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// fieldTable renders the two-column field/value block shown by
// `slotsync status`.
func fieldTable(rows [][2]string) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Field", "Value"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	return tw.Render()
}

// slotTable renders a mapping snapshot ordered by slot, then by session ID
// within a shared slot (split panes).
func slotTable(mapping map[string]int) string {
	type assignment struct {
		slot    int
		session string
	}
	assignments := make([]assignment, 0, len(mapping))
	for session, slot := range mapping {
		assignments = append(assignments, assignment{slot: slot, session: session})
	}
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].slot != assignments[j].slot {
			return assignments[i].slot < assignments[j].slot
		}
		return assignments[i].session < assignments[j].session
	})

	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Slot", "Session"})
	for _, a := range assignments {
		tw.AppendRow(table.Row{strconv.Itoa(a.slot), a.session})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}
