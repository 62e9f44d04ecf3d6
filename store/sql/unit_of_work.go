package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-oauth-store/core"
	"github.com/uptrace/bun"
)

type UnitOfWorkManager struct {
	db *bun.DB
}

func NewUnitOfWorkManager(db *bun.DB) *UnitOfWorkManager {
	return &UnitOfWorkManager{db: db}
}

func (m *UnitOfWorkManager) Begin(ctx context.Context) (core.UnitOfWork, error) {
	return m.begin(ctx)
}

func (m *UnitOfWorkManager) begin(ctx context.Context) (*UnitOfWork, error) {
	if m == nil || m.db == nil {
		return nil, fmt.Errorf("sqlstore: unit of work manager is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &UnitOfWork{tx: tx}, nil
}

// UnitOfWork wraps one database transaction.
type UnitOfWork struct {
	mu   sync.Mutex
	tx   bun.Tx
	done bool
}

func (u *UnitOfWork) Tx() bun.Tx {
	return u.tx
}

// Complete commits. A cancelled context rolls the transaction back instead.
func (u *UnitOfWork) Complete(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return fmt.Errorf("sqlstore: unit of work already finished")
	}
	u.done = true
	if err := ctx.Err(); err != nil {
		_ = u.tx.Rollback()
		return err
	}
	return u.tx.Commit()
}

func (u *UnitOfWork) Dispose() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
