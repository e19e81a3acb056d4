package unitofwork

import "context"

// RepositoryFactory hands every service operation its own UnitOfWork over
// the chat tables.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
