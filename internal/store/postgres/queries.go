package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alfredjeanlab/potties/internal/model"
)

const (
	pottyColumns      = `id, status, location`
	subscriberColumns = `id, url`
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreatePotty(ctx context.Context, db executor, p *model.Potty) error {
	return db.QueryRowContext(ctx,
		`INSERT INTO potties (status, location) VALUES ($1, $2) RETURNING id`,
		string(p.Status), string(p.Location),
	).Scan(&p.ID)
}

func queryGetPotty(ctx context.Context, db executor, id int64) (*model.Potty, error) {
	row := db.QueryRowContext(ctx, `SELECT `+pottyColumns+` FROM potties WHERE id = $1`, id)
	return scanPotty(row)
}

func queryListPotties(ctx context.Context, db executor, filter model.PottyFilter) ([]*model.Potty, error) {
	query := `SELECT ` + pottyColumns + ` FROM potties`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list potties: %w", err)
	}
	defer rows.Close()

	potties := []*model.Potty{}
	for rows.Next() {
		p, err := scanPotty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan potty: %w", err)
		}
		potties = append(potties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate potties: %w", err)
	}
	return potties, nil
}

func queryUpdatePotty(ctx context.Context, db executor, p *model.Potty) error {
	res, err := db.ExecContext(ctx,
		`UPDATE potties SET status = $1, location = $2 WHERE id = $3`,
		string(p.Status), string(p.Location), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update potty: %w", err)
	}
	return requireAffected(res)
}

func queryCreateSubscriber(ctx context.Context, db executor, s *model.Subscriber) error {
	return db.QueryRowContext(ctx,
		`INSERT INTO subscribers (url) VALUES ($1) RETURNING id`, s.URL,
	).Scan(&s.ID)
}

func queryGetSubscriber(ctx context.Context, db executor, id int64) (*model.Subscriber, error) {
	row := db.QueryRowContext(ctx, `SELECT `+subscriberColumns+` FROM subscribers WHERE id = $1`, id)
	return scanSubscriber(row)
}

func queryListSubscribers(ctx context.Context, db executor) ([]*model.Subscriber, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+subscriberColumns+` FROM subscribers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	subs := []*model.Subscriber{}
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}
	return subs, nil
}

func queryDeleteSubscriber(ctx context.Context, db executor, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	return requireAffected(res)
}

// requireAffected maps a zero-row mutation to sql.ErrNoRows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
