package ports

import "context"

// Tx is the store's transaction handle. Only the persistence adapter knows
// its concrete type.
type Tx any

// UnitOfWork runs fn in one transaction: an error from fn rolls back, nil
// commits. A ctx that already carries a transaction is joined, so use cases
// can compose repository calls that open their own.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns nil when ctx carries no transaction.
func TxFromContext(ctx context.Context) Tx {
	if ctx == nil {
		return nil
	}
	return ctx.Value(txKey{})
}

func InTx(ctx context.Context) bool {
	return TxFromContext(ctx) != nil
}
