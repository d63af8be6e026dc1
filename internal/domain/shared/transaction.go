package shared

import "context"

// TransactionManager runs a function inside one database transaction.
// Repository calls made with the context passed to fn join that
// transaction, so a multi-repository write unit commits or rolls back
// as a whole.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
