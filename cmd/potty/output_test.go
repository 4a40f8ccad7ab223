package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alfredjeanlab/potties/internal/model"
	"github.com/alfredjeanlab/potties/internal/ui"
)

func TestPrintOutputs(t *testing.T) {
	ui.SetColor(false)
	t.Cleanup(func() { ui.SetColor(true) })

	var buf bytes.Buffer
	printPottyList(&buf, []*model.Potty{
		{ID: 1, Status: model.StatusVacant, Location: model.LocationNorth},
		{ID: 12, Status: model.StatusOccupied, Location: model.LocationWest},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 || !strings.HasPrefix(lines[0], "ID") || lines[4] != "2 potties" {
		t.Fatalf("list output:\n%s", buf.String())
	}
	if !strings.Contains(lines[2], "12") || !strings.Contains(lines[2], "OCCUPIED") || !strings.Contains(lines[2], "WEST") {
		t.Fatalf("row = %q", lines[2])
	}

	buf.Reset()
	printStatusChange(&buf, model.StatusChange{ID: 3, OldStatus: model.StatusVacant, CurrentStatus: model.StatusOccupied, Location: model.LocationEast})
	if got := buf.String(); got != "potty 3 (EAST): VACANT -> OCCUPIED\n" {
		t.Fatalf("change = %q", got)
	}

	buf.Reset()
	if err := printJSON(&buf, &model.Potty{ID: 5, Status: model.StatusVacant, Location: model.LocationSouth}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"id": "5"`) {
		t.Fatalf("json = %s", buf.String())
	}
}
