package inventory

import "context"

// TransactionScope runs a function inside one local-store transaction:
// compound updates such as "adjust stock and append the damage log" either
// fully apply or fully do not.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
