package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/postsync/pkg/domain"
)

// RecordRepository is the deduplicating record store fed with archive deltas
type RecordRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// recordSQL represents a record for SQL operations
type recordSQL struct {
	ItemID         string    `db:"item_id"`
	Feed           string    `db:"feed"`
	Kind           string    `db:"kind"`
	AuthorID       string    `db:"author_id"`
	AuthorHandle   string    `db:"author_handle"`
	Text           string    `db:"text"`
	ReferencedID   string    `db:"referenced_id"`
	ThreadPosition int       `db:"thread_position"`
	Likes          int       `db:"likes"`
	Reposts        int       `db:"reposts"`
	Replies        int       `db:"replies"`
	CreatedAt      time.Time `db:"created_at"`
	PushedAt       time.Time `db:"pushed_at"`
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db, now: time.Now}
}

// PushNew stores items whose ids are not known yet and returns how many were created.
// Pushing the same items again creates nothing.
func (r *RecordRepository) PushNew(ctx context.Context, feed domain.Feed, items []domain.ClassifiedItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO records (item_id, feed, kind, author_id, author_handle, text, referenced_id,
			thread_position, likes, reposts, replies, created_at, pushed_at)
		VALUES (:item_id, :feed, :kind, :author_id, :author_handle, :text, :referenced_id,
			:thread_position, :likes, :reposts, :replies, :created_at, :pushed_at)
		ON CONFLICT(item_id) DO NOTHING
	`
	pushedAt := r.now().UTC()
	var created int
	err := withLockRetry(ctx, func() error {
		created = 0
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		stmt, err := tx.PrepareNamedContext(ctx, query)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, it := range items {
			res, err := stmt.ExecContext(ctx, toRecordSQL(feed, it, pushedAt))
			if err != nil {
				return fmt.Errorf("insert record %s: %w", it.ID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("get affected rows: %w", err)
			}
			created += int(n)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit records: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("push records: %w", err)
	}
	return created, nil
}

// Count returns the number of stored records of the feed, all feeds for an empty feed
func (r *RecordRepository) Count(ctx context.Context, feed domain.Feed) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM records"
	args := []any{}
	if feed != "" {
		query += " WHERE feed = ?"
		args = append(args, string(feed))
	}
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// Exists checks whether a record with the item id is stored
func (r *RecordRepository) Exists(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM records WHERE item_id = ?)", itemID)
	if err != nil {
		return false, fmt.Errorf("check record %s: %w", itemID, err)
	}
	return exists, nil
}

func toRecordSQL(feed domain.Feed, it domain.ClassifiedItem, pushedAt time.Time) recordSQL {
	res := recordSQL{
		ItemID:         it.ID,
		Feed:           string(feed),
		Kind:           string(it.Kind),
		AuthorID:       it.AuthorID,
		AuthorHandle:   it.AuthorHandle,
		Text:           it.Text,
		ThreadPosition: it.ThreadPosition,
		Likes:          it.Metrics.Likes,
		Reposts:        it.Metrics.Reposts,
		Replies:        it.Metrics.Replies,
		CreatedAt:      it.CreatedAt.UTC(),
		PushedAt:       pushedAt,
	}
	if it.Referenced != nil {
		res.ReferencedID = it.Referenced.ID
	}
	return res
}
