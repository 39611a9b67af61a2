package outbound

import "context"

// Transactor runs fn as one unit of work. Repositories called with the ctx
// passed to fn take part in the same transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
