package database

import (
	"context"
	"sync"
)

type memoryTxKey struct{}

// memoryTx collects undo actions registered by in-memory repositories.
type memoryTx struct {
	undo []func()
}

// MemoryTxManager is a TxManager for the in-memory repositories. Units of work
// are serialized by a single mutex and writes are reverted in reverse order when
// the unit of work fails.
type MemoryTxManager struct {
	mu sync.Mutex
}

// NewMemoryTxManager creates a new MemoryTxManager.
func NewMemoryTxManager() *MemoryTxManager {
	return &MemoryTxManager{}
}

// WithTx runs fn as one unit of work.
func (m *MemoryTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(memoryTxKey{}).(*memoryTx); ok {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{}
	defer func() {
		if p := recover(); p != nil {
			tx.rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, memoryTxKey{}, tx)); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (tx *memoryTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

// OnRollback registers undo to run if the in-memory unit of work in ctx fails.
// Outside a unit of work it is a no-op and the write is final.
func OnRollback(ctx context.Context, undo func()) {
	if tx, ok := ctx.Value(memoryTxKey{}).(*memoryTx); ok {
		tx.undo = append(tx.undo, undo)
	}
}
