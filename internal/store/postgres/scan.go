package postgres

import "github.com/alfredjeanlab/potties/internal/model"

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanPotty scans a single row into a model.Potty.
// The row must contain columns in the order defined by pottyColumns.
func scanPotty(row scannable) (*model.Potty, error) {
	var p model.Potty
	if err := row.Scan(&p.ID, &p.Status, &p.Location); err != nil {
		return nil, err
	}
	return &p, nil
}

// scanSubscriber scans a single row into a model.Subscriber.
func scanSubscriber(row scannable) (*model.Subscriber, error) {
	var s model.Subscriber
	if err := row.Scan(&s.ID, &s.URL); err != nil {
		return nil, err
	}
	return &s, nil
}
