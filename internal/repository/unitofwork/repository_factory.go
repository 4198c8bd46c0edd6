package unitofwork

import "context"

// RepositoryFactory hands out a fresh UnitOfWork per request or consume
// cycle. Services hold the factory, never a UnitOfWork, so repository state
// cannot leak across chat turns.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
