package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/models"
)

func TestTableRendersNotes(t *testing.T) {
	created := time.Date(2024, 7, 5, 15, 4, 0, 0, time.UTC)
	notes := []models.Note{
		{ID: 1, Content: "buy milk", Tags: []string{"errand", "home"}, CreatedAt: created, UpdatedAt: created},
		{ID: 2, Content: "untagged", Tags: []string{}, CreatedAt: created, UpdatedAt: created},
	}

	var buf bytes.Buffer
	Table(&buf, notes)
	out := buf.String()

	for _, want := range []string{
		"ID", "Content", "Tags", "Created at", "Updated at",
		"buy milk", "errand, home",
		"05/07/2024 - 15:04",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Empty tag sets render as a dash.
	if !strings.Contains(out, "-") {
		t.Errorf("output missing dash for empty tags:\n%s", out)
	}
}
