package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alfredjeanlab/potties/internal/model"
)

// fakeSource serves fixed records in whatever order they were given.
type fakeSource struct {
	potties []*model.Potty
	subs    []*model.Subscriber
	err     error
}

func (f *fakeSource) ListPotties(context.Context, model.PottyFilter) ([]*model.Potty, error) {
	return f.potties, f.err
}

func (f *fakeSource) ListSubscribers(context.Context) ([]*model.Subscriber, error) {
	return f.subs, f.err
}

func TestExportJSONL_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), &fakeSource{}, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h Header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != FormatVersion || h.Type != TypeHeader || h.PottyCount != 0 || h.SubscriberCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
	if h.Timestamp.IsZero() {
		t.Fatal("header timestamp not set")
	}
}

func TestExportJSONL_Records(t *testing.T) {
	src := &fakeSource{
		potties: []*model.Potty{
			{ID: 3, Status: model.StatusVacant, Location: model.LocationWest},
			{ID: 1, Status: model.StatusOccupied, Location: model.LocationNorth},
		},
		subs: []*model.Subscriber{
			{ID: 9, URL: "http://hooks.example/b?x=1&y=2"},
			{ID: 4, URL: "http://hooks.example/a"},
		},
	}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), src, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), `\u0026`) {
		t.Fatalf("HTML escaping should be disabled:\n%s", buf.String())
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 2 potties + 2 subscribers
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h Header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.PottyCount != 2 || h.SubscriberCount != 2 {
		t.Fatalf("header counts: potty=%d subscriber=%d", h.PottyCount, h.SubscriberCount)
	}

	var got []string
	for _, line := range lines[1:] {
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("unmarshal %q: %v", line, err)
		}
		var id struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(rec.Data, &id); err != nil {
			t.Fatalf("unmarshal data %s: %v", rec.Data, err)
		}
		got = append(got, rec.Type+":"+id.ID)
	}
	want := "potty:1,potty:3,subscriber:4,subscriber:9"
	if strings.Join(got, ",") != want {
		t.Fatalf("records = %v, want %s", got, want)
	}
}

func TestExportJSONL_SourceError(t *testing.T) {
	var buf bytes.Buffer
	err := ExportJSONL(context.Background(), &fakeSource{err: errors.New("db down")}, &buf)
	if err == nil || !strings.Contains(err.Error(), "db down") {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written on error, got %q", buf.String())
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
