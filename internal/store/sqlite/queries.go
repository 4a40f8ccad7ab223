package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alfredjeanlab/potties/internal/model"
)

// execer is the interface satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertPotty(ctx context.Context, db execer, p *model.Potty) error {
	const op = "store.sqlite.CreatePotty"

	res, err := db.ExecContext(ctx,
		"INSERT INTO potties(status,location) VALUES(?,?)",
		string(p.Status), string(p.Location))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s: last insert id: %w", op, err)
	}
	p.ID = id
	return nil
}

func selectPotty(ctx context.Context, db execer, id int64) (*model.Potty, error) {
	var p model.Potty
	err := db.QueryRowContext(ctx,
		"SELECT id,status,location FROM potties WHERE id=?", id,
	).Scan(&p.ID, &p.Status, &p.Location)
	if err != nil {
		// sql.ErrNoRows stays unwrapped.
		return nil, err
	}
	return &p, nil
}

func selectPotties(ctx context.Context, db execer, filter model.PottyFilter) ([]*model.Potty, error) {
	const op = "store.sqlite.ListPotties"

	query := "SELECT id,status,location FROM potties"
	var args []any
	if filter.Status != "" {
		query += " WHERE status=?"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY id"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	potties := []*model.Potty{}
	for rows.Next() {
		var p model.Potty
		if err := rows.Scan(&p.ID, &p.Status, &p.Location); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		potties = append(potties, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return potties, nil
}

func updatePotty(ctx context.Context, db execer, p *model.Potty) error {
	const op = "store.sqlite.UpdatePotty"

	res, err := db.ExecContext(ctx,
		"UPDATE potties SET status=?,location=? WHERE id=?",
		string(p.Status), string(p.Location), p.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affectedOne(op, res)
}

func insertSubscriber(ctx context.Context, db execer, s *model.Subscriber) error {
	const op = "store.sqlite.CreateSubscriber"

	res, err := db.ExecContext(ctx, "INSERT INTO subscribers(url) VALUES(?)", s.URL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s: last insert id: %w", op, err)
	}
	s.ID = id
	return nil
}

func selectSubscriber(ctx context.Context, db execer, id int64) (*model.Subscriber, error) {
	var s model.Subscriber
	err := db.QueryRowContext(ctx,
		"SELECT id,url FROM subscribers WHERE id=?", id,
	).Scan(&s.ID, &s.URL)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func selectSubscribers(ctx context.Context, db execer) ([]*model.Subscriber, error) {
	const op = "store.sqlite.ListSubscribers"

	rows, err := db.QueryContext(ctx, "SELECT id,url FROM subscribers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	subs := []*model.Subscriber{}
	for rows.Next() {
		var s model.Subscriber
		if err := rows.Scan(&s.ID, &s.URL); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		subs = append(subs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

func deleteSubscriber(ctx context.Context, db execer, id int64) error {
	const op = "store.sqlite.DeleteSubscriber"

	res, err := db.ExecContext(ctx, "DELETE FROM subscribers WHERE id=?", id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affectedOne(op, res)
}

func affectedOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
