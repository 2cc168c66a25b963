package memory

import "context"

type txKey struct{}

// TxManager serializes callbacks on a store. There is no rollback: writes
// made before fn fails stay visible.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if inTx(ctx, t.store) {
		return fn(ctx)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(context.WithValue(ctx, txKey{}, t.store))
}

// inTx reports whether ctx already holds store's write lock.
func inTx(ctx context.Context, store *Store) bool {
	held, _ := ctx.Value(txKey{}).(*Store)
	return held == store
}
