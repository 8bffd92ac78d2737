package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayout keeps a fixed fraction width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 20

// Launch is one recorded viewer launch attempt.
type Launch struct {
	ID          string
	ComponentID string
	Path        string
	Frame       string
	FrameCount  int
	FrameRange  string
	Success     bool
	Message     string
	Username    string
	CreatedAt   time.Time
}

// Record stores a launch. Missing ids and timestamps are filled in.
func (s *Store) Record(ctx context.Context, launch Launch) (Launch, error) {
	if strings.TrimSpace(launch.ID) == "" {
		launch.ID = uuid.NewString()
	}
	if launch.CreatedAt.IsZero() {
		launch.CreatedAt = time.Now()
	}
	launch.CreatedAt = launch.CreatedAt.UTC()

	_, err := s.execWithRetry(ctx, `INSERT INTO launches
		(id, component_id, path, frame, frame_count, frame_range, success, message, username, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		launch.ID,
		launch.ComponentID,
		launch.Path,
		launch.Frame,
		launch.FrameCount,
		launch.FrameRange,
		boolToInt(launch.Success),
		launch.Message,
		launch.Username,
		launch.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Launch{}, fmt.Errorf("insert launch: %w", err)
	}
	return launch, nil
}

// List returns the most recent launches, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Launch, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var rows *sql.Rows
	err := retryOnBusy(ctx, func() error {
		var queryErr error
		rows, queryErr = s.db.QueryContext(ctx, `SELECT
			id, component_id, path, frame, frame_count, frame_range, success, message, username, created_at
			FROM launches ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
		return queryErr
	})
	if err != nil {
		return nil, fmt.Errorf("query launches: %w", err)
	}
	defer rows.Close()

	var launches []Launch
	for rows.Next() {
		var (
			launch  Launch
			success int
			created string
		)
		if err := rows.Scan(
			&launch.ID,
			&launch.ComponentID,
			&launch.Path,
			&launch.Frame,
			&launch.FrameCount,
			&launch.FrameRange,
			&success,
			&launch.Message,
			&launch.Username,
			&created,
		); err != nil {
			return nil, fmt.Errorf("scan launch: %w", err)
		}
		launch.Success = success != 0
		launch.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parse launch time %q: %w", created, err)
		}
		launches = append(launches, launch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launches: %w", err)
	}
	return launches, nil
}

// Clear removes launches recorded before cutoff, or every launch when cutoff
// is zero. It returns the number of rows removed.
func (s *Store) Clear(ctx context.Context, cutoff time.Time) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if cutoff.IsZero() {
		res, err = s.execWithRetry(ctx, "DELETE FROM launches")
	} else {
		res, err = s.execWithRetry(ctx, "DELETE FROM launches WHERE created_at < ?", cutoff.UTC().Format(timeLayout))
	}
	if err != nil {
		return 0, fmt.Errorf("clear launches: %w", err)
	}
	return res.RowsAffected()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
