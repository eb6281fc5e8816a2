package client

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/gvarobotics/estop-controller/internal/api/bus"
)

// renderHistory prints the transition history as a table, oldest first.
func renderHistory(records []bus.HistoryEntry) {
	writer := table.NewWriter()
	writer.SetOutputMirror(os.Stdout)
	writer.SetStyle(table.StyleLight)
	writer.AppendHeader(table.Row{"#", "From", "To", "Timestamp"})

	writer.AppendRows(lo.Map(records, func(record bus.HistoryEntry, i int) table.Row {
		return table.Row{i + 1, record.From, record.To, record.Timestamp.Format(time.RFC3339)}
	}))

	writer.Render()
}
