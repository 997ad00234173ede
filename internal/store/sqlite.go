package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/playperu/crocodile/internal/crocodile"
)

// DocStore keeps the state document in a single-row SQLite table. The
// schema comes from the migrations package.
type DocStore struct {
	db   *sql.DB
	opts options
}

func NewDocStore(db *sql.DB, opts ...Option) *DocStore {
	return &DocStore{db: db, opts: newOptions(opts)}
}

func (s *DocStore) Load(ctx context.Context) (crocodile.State, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM state WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		s.opts.logger.Info("no state document, creating new database")
		st := crocodile.NewState()
		return st, s.Commit(ctx, st)
	}
	if err != nil {
		return crocodile.State{}, fmt.Errorf("reading state: %w", err)
	}

	st, err := decodeState([]byte(data), s.opts.defaultFilter)
	if err == nil {
		s.opts.logger.Info("store loaded", "users", len(st.Users), "guilds", len(st.Guilds))
		return st, nil
	}

	s.opts.logger.Warn("store corrupted, archiving and starting empty", "error", err)
	st = crocodile.NewState()
	if err := s.archiveAndReset(ctx, data, st); err != nil {
		return crocodile.State{}, err
	}
	return st, nil
}

// archiveAndReset copies the bad document into state_backups and writes st
// in the same transaction.
func (s *DocStore) archiveAndReset(ctx context.Context, bad string, st crocodile.State) error {
	fresh, err := encodeState(st)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := nowUTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO state_backups (data, archived_at) VALUES (?, ?)`, bad, now,
	); err != nil {
		return fmt.Errorf("archiving corrupted state: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsertState, string(fresh), now); err != nil {
		return fmt.Errorf("resetting state: %w", err)
	}
	return tx.Commit()
}

const upsertState = `INSERT INTO state (id, data, updated_at) VALUES (1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`

func (s *DocStore) Commit(ctx context.Context, st crocodile.State) error {
	data, err := encodeState(st)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertState, string(data), nowUTC()); err != nil {
		return fmt.Errorf("committing state: %w", err)
	}
	return nil
}

// Backups returns archived corrupted documents, oldest first.
func (s *DocStore) Backups(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM state_backups ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var backups []string
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		backups = append(backups, data)
	}
	return backups, rows.Err()
}

func (s *DocStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *DocStore) Close() error { return s.db.Close() }

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
