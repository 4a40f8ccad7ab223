package main

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/potties/internal/store"
	"github.com/alfredjeanlab/potties/internal/store/postgres"
	"github.com/alfredjeanlab/potties/internal/store/sqlite"
)

// openStore selects the backend from the database URL scheme:
// sqlite://<path> (":memory:" allowed) or postgres://... / postgresql://...
func openStore(databaseURL string) (store.Store, string, error) {
	scheme, rest, ok := strings.Cut(databaseURL, "://")
	if !ok {
		return nil, "", fmt.Errorf("database URL %q has no scheme", databaseURL)
	}
	switch scheme {
	case "sqlite", "sqlite3":
		if rest == "" {
			return nil, "", fmt.Errorf("database URL %q has no path", databaseURL)
		}
		s, err := sqlite.New(rest)
		if err != nil {
			return nil, "", err
		}
		return s, "sqlite", nil
	case "postgres", "postgresql":
		s, err := postgres.New(databaseURL)
		if err != nil {
			return nil, "", err
		}
		return s, "postgres", nil
	default:
		return nil, "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
}
