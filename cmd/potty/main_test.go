package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alfredjeanlab/potties/internal/model"
	"github.com/alfredjeanlab/potties/internal/server"
	"github.com/alfredjeanlab/potties/internal/store/sqlite"
)

// startServer runs a real potty HTTP handler over an in-memory store.
func startServer(t *testing.T) string {
	t.Helper()
	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(server.NewPottyServer(st, server.Options{Logger: logger}).NewHTTPHandler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	jsonOutput = false
	_ = listCmd.Flags().Set("status", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_PottyLifecycle(t *testing.T) {
	url := startServer(t)

	out, err := runCLI(t, "--url", url, "create", "north")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out, "Created potty 1") || !strings.Contains(out, "VACANT") {
		t.Fatalf("create output:\n%s", out)
	}

	out, err = runCLI(t, "--url", url, "set-status", "1", "occupied")
	if err != nil {
		t.Fatalf("set-status: %v", err)
	}
	if !strings.Contains(out, "OCCUPIED") {
		t.Fatalf("set-status output:\n%s", out)
	}

	out, err = runCLI(t, "--url", url, "--json", "list", "--status", "OCCUPIED")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var potties []model.Potty
	if err := json.Unmarshal([]byte(out), &potties); err != nil {
		t.Fatalf("decode list %q: %v", out, err)
	}
	if len(potties) != 1 || potties[0].Location != model.LocationNorth {
		t.Fatalf("got %+v", potties)
	}

	out, err = runCLI(t, "--url", url, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "ID") || !strings.Contains(out, "1 potty") {
		t.Fatalf("table output:\n%s", out)
	}

	if _, err := runCLI(t, "--url", url, "show", "42"); err == nil || !strings.Contains(err.Error(), "potty not found") {
		t.Fatalf("show missing: %v", err)
	}
	if _, err := runCLI(t, "--url", url, "show", "abc"); err == nil || !strings.Contains(err.Error(), "invalid id") {
		t.Fatalf("show bad id: %v", err)
	}
	if _, err := runCLI(t, "--url", url, "set-status", "1", "closed"); err == nil || !strings.Contains(err.Error(), "HTTP 400") {
		t.Fatalf("set-status invalid: %v", err)
	}
}

func TestCLI_Subscribers(t *testing.T) {
	url := startServer(t)

	out, err := runCLI(t, "--url", url, "subscribe", "http://hooks.example/a")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !strings.Contains(out, "Subscriber 1 registered") {
		t.Fatalf("subscribe output:\n%s", out)
	}

	out, err = runCLI(t, "--url", url, "subscribers")
	if err != nil || !strings.Contains(out, "http://hooks.example/a") {
		t.Fatalf("subscribers: %v\n%s", err, out)
	}

	if _, err := runCLI(t, "--url", url, "unsubscribe", "1"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	out, err = runCLI(t, "--url", url, "subscribers")
	if err != nil || !strings.Contains(out, "no subscribers") {
		t.Fatalf("subscribers after delete: %v\n%s", err, out)
	}
	if _, err := runCLI(t, "--url", url, "unsubscribe", "1"); err == nil {
		t.Fatal("expected error removing a missing subscriber")
	}
}

func TestCLI_Health(t *testing.T) {
	url := startServer(t)
	out, err := runCLI(t, "--url", url, "health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if strings.TrimSpace(out) != "Health: ok" {
		t.Fatalf("health output %q", out)
	}
}

func TestParseID(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1", 1, true},
		{"9000", 9000, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"x", 0, false},
		{"", 0, false},
	} {
		got, err := parseID(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("parseID(%q) = %d, %v", tc.in, got, err)
		}
	}
}

func TestDiffStatuses(t *testing.T) {
	seen := map[int64]model.Status{}
	first := []*model.Potty{
		{ID: 1, Status: model.StatusVacant, Location: model.LocationNorth},
		{ID: 2, Status: model.StatusOccupied, Location: model.LocationSouth},
	}
	if changes := diffStatuses(seen, first); len(changes) != 0 {
		t.Fatalf("first poll should report nothing, got %+v", changes)
	}

	second := []*model.Potty{
		{ID: 1, Status: model.StatusOccupied, Location: model.LocationNorth},
		{ID: 2, Status: model.StatusOccupied, Location: model.LocationSouth},
		{ID: 3, Status: model.StatusVacant, Location: model.LocationEast},
	}
	changes := diffStatuses(seen, second)
	want := model.StatusChange{ID: 1, OldStatus: model.StatusVacant, CurrentStatus: model.StatusOccupied, Location: model.LocationNorth}
	if len(changes) != 1 || changes[0] != want {
		t.Fatalf("changes = %+v, want [%+v]", changes, want)
	}
}

func TestOpenStore(t *testing.T) {
	s, backend, err := openStore("sqlite://:memory:")
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	s.Close()
	if backend != "sqlite" {
		t.Fatalf("backend = %q", backend)
	}

	for _, bad := range []string{"pottyapi.db", "mysql://x", "sqlite://"} {
		if _, _, err := openStore(bad); err == nil {
			t.Errorf("openStore(%q) should fail", bad)
		}
	}
}
