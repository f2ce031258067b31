package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"time-tagger/internal/errors"
	"time-tagger/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// SearchOptions selects records overlapping [T1, T2). Running records
// (t1 == t2) overlap any interval that starts after their start.
type SearchOptions struct {
	T1 int64
	T2 int64
}

// Repository defines the interface for database operations
type Repository interface {
	// Write operations
	PutRecords(ctx context.Context, records []*Record) error
	DeleteRecord(ctx context.Context, key string) error
	SetTagPriority(ctx context.Context, tag string, priority int) error

	// Read operations
	GetRecord(ctx context.Context, key string) (*Record, error)
	FindKeyByTimes(ctx context.Context, t1, t2 int64) (string, error)
	ListRecords(ctx context.Context) ([]*Record, error)
	SearchRecords(ctx context.Context, opts SearchOptions) ([]*Record, error)
	ListTagPriorities(ctx context.Context) ([]*TagInfo, error)

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
	writeTimeout time.Duration
}

var timeNow = time.Now

// NewKey returns a fresh record key.
func NewKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// one connection keeps :memory: databases coherent and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	// Run migrations
	if err := migrations.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SetTimeouts bounds each read and write; zero disables the bound
func (r *SQLiteRepository) SetTimeouts(query, write time.Duration) {
	r.queryTimeout = query
	r.writeTimeout = write
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// PutRecords inserts or replaces records in a single transaction. Records
// without a key are assigned one; every record is stamped with the current
// modification time.
func (r *SQLiteRepository) PutRecords(ctx context.Context, records []*Record) error {
	if len(records) == 0 {
		return nil
	}

	query := `
	INSERT INTO records (key, t1, t2, ds, mt)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		t1 = excluded.t1, t2 = excluded.t2, ds = excluded.ds, mt = excluded.mt`

	ctx, cancel := bounded(ctx, r.writeTimeout)
	defer cancel()

	mt := timeNow().Unix()
	return withTx(ctx, r.db, "put records", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, record := range records {
			if record.Key == "" {
				record.Key = NewKey()
			}
			record.Mt = mt
			if _, err := stmt.ExecContext(ctx, record.Key, record.T1, record.T2, record.Ds, record.Mt); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRecord retrieves a record by key
func (r *SQLiteRepository) GetRecord(ctx context.Context, key string) (*Record, error) {
	query := `
	SELECT key, t1, t2, ds, mt
	FROM records
	WHERE key = ?`

	ctx, cancel := bounded(ctx, r.queryTimeout)
	defer cancel()
	return querySingle(ctx, r.db, query, ScanRecord, "record", key, key)
}

// FindKeyByTimes returns the key of a record with exactly the given start
// and stop, or "" if there is none.
func (r *SQLiteRepository) FindKeyByTimes(ctx context.Context, t1, t2 int64) (string, error) {
	query := `SELECT key FROM records WHERE t1 = ? AND t2 = ? ORDER BY key LIMIT 1`

	ctx, cancel := bounded(ctx, r.queryTimeout)
	defer cancel()

	var key string
	err := r.db.QueryRowContext(ctx, query, t1, t2).Scan(&key)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", dbError("find record by times", err)
	}
	return key, nil
}

// ListRecords retrieves all records
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]*Record, error) {
	query := `
	SELECT key, t1, t2, ds, mt
	FROM records
	ORDER BY t1 ASC, key ASC`

	ctx, cancel := bounded(ctx, r.queryTimeout)
	defer cancel()
	return queryMultiple(ctx, r.db, query, ScanRecords, "records")
}

// SearchRecords retrieves the records overlapping the given interval
func (r *SQLiteRepository) SearchRecords(ctx context.Context, opts SearchOptions) ([]*Record, error) {
	query := `
	SELECT key, t1, t2, ds, mt
	FROM records
	WHERE t1 < ? AND (t2 > ? OR t1 = t2)
	ORDER BY t1 ASC, key ASC`

	ctx, cancel := bounded(ctx, r.queryTimeout)
	defer cancel()
	return queryMultiple(ctx, r.db, query, ScanRecords, "records", opts.T2, opts.T1)
}

// DeleteRecord deletes a record by key
func (r *SQLiteRepository) DeleteRecord(ctx context.Context, key string) error {
	query := `DELETE FROM records WHERE key = ?`
	ctx, cancel := bounded(ctx, r.writeTimeout)
	defer cancel()
	return execAffecting(ctx, r.db, query, "record", key, key)
}

// SetTagPriority stores the priority of a tag
func (r *SQLiteRepository) SetTagPriority(ctx context.Context, tag string, priority int) error {
	query := `
	INSERT INTO tag_info (tag, priority) VALUES (?, ?)
	ON CONFLICT(tag) DO UPDATE SET priority = excluded.priority`

	ctx, cancel := bounded(ctx, r.writeTimeout)
	defer cancel()
	if _, err := r.db.ExecContext(ctx, query, tag, priority); err != nil {
		return dbError("set tag priority", err)
	}
	return nil
}

// ListTagPriorities retrieves all stored tag priorities
func (r *SQLiteRepository) ListTagPriorities(ctx context.Context) ([]*TagInfo, error) {
	query := `SELECT tag, priority FROM tag_info ORDER BY tag ASC`
	ctx, cancel := bounded(ctx, r.queryTimeout)
	defer cancel()
	return queryMultiple(ctx, r.db, query, ScanTagInfos, "tag priorities")
}
