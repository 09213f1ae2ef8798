// Package render formats note collections for terminal display.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/starford/ansuz/internal/models"
)

// TimeFormat is the display format for note timestamps.
const TimeFormat = "02/01/2006 - 15:04"

// Table writes the notes as a bordered table with one row per note.
// Empty tag sets render as "-".
func Table(w io.Writer, notes []models.Note) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Content", "Tags", "Created at", "Updated at")

	for _, n := range notes {
		tags := "-"
		if len(n.Tags) > 0 {
			tags = strings.Join(n.Tags, ", ")
		}
		t.Row(
			strconv.FormatUint(n.ID, 10),
			n.Content,
			tags,
			n.CreatedAt.Format(TimeFormat),
			n.UpdatedAt.Format(TimeFormat),
		)
	}

	fmt.Fprintln(w, t.Render())
}
