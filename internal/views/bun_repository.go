package views

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var errNoDatabase = errors.New("views: bun repository requires a database")

// BunRepository persists counts in a SQL table through Bun.
type BunRepository struct {
	db          *bun.DB
	now         func() time.Time
	broadcaster *changeBroadcaster
}

var _ Repository = (*BunRepository)(nil)

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db:          db,
		now:         time.Now,
		broadcaster: newChangeBroadcaster(),
	}
}

// OpenSQLite opens dsn with the sqlite3 driver and ensures the schema.
func OpenSQLite(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("views: open sqlite: %w", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the view_counts table when missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errNoDatabase
	}
	if _, err := db.NewCreateTable().Model((*viewModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("views: create table: %w", err)
	}
	return nil
}

func (r *BunRepository) Get(ctx context.Context, key string) (int64, error) {
	if r.db == nil {
		return 0, errNoDatabase
	}
	key, err := normalizeKey(key)
	if err != nil {
		return 0, err
	}
	return r.get(ctx, r.db, key)
}

func (r *BunRepository) get(ctx context.Context, db bun.IDB, key string) (int64, error) {
	var model viewModel
	if err := db.NewSelect().Model(&model).Where("key = ?", key).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return model.Views, nil
}

func (r *BunRepository) Increment(ctx context.Context, key string) (int64, error) {
	if r.db == nil {
		return 0, errNoDatabase
	}
	key, err := normalizeKey(key)
	if err != nil {
		return 0, err
	}

	var count int64
	now := r.now().UTC()
	err = r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*viewModel)(nil)).
			Set("views = views + 1").
			Set("updated_at = ?", now).
			Where("key = ?", key).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			model := viewModel{Key: key, Views: 1, UpdatedAt: now}
			if _, err := tx.NewInsert().Model(&model).Exec(ctx); err != nil {
				return err
			}
		}
		count, err = r.get(ctx, tx, key)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("views: increment %s: %w", key, err)
	}

	r.broadcaster.Broadcast(ChangeEvent{Key: key, Count: count})
	return count, nil
}

func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

type viewModel struct {
	bun.BaseModel `bun:"table:view_counts"`

	Key       string    `bun:"key,pk"`
	Views     int64     `bun:"views,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
