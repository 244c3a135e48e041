package uow

import (
	"context"

	domainapartment "bookify/internal/domain/apartment"
	domainbooking "bookify/internal/domain/booking"
	domainuser "bookify/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Bookings() domainbooking.Repository
	Users() domainuser.Repository
	Apartments() domainapartment.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
