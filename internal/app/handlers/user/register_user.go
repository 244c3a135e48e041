package user

import (
	"context"
	"errors"
	"time"

	"bookify/internal/app/commands"
	"bookify/internal/app/middleware"
	"bookify/internal/app/outbox"
	"bookify/internal/app/uow"
	domainuser "bookify/internal/domain/user"
)

const registerUserKey = "user.register"

type RegisterUserCommand struct {
	FirstName       string
	LastName        string
	Email           string
	IdempotencyKeyV string
}

func (c RegisterUserCommand) Key() string { return registerUserKey }

func (c RegisterUserCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RegisterUserCommand) ResultPrototype() any { return &RegisterUserResult{} }

type RegisterUserResult struct {
	UserID string `json:"user_id"`
}

var ErrUnitOfWorkRequired = errors.New("user: unit of work required")

type RegisterUserHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	unit, managed, err := h.beginUnit(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	res := domainuser.Register(
		domainuser.FirstName(cmd.FirstName),
		domainuser.LastName(cmd.LastName),
		domainuser.Email(cmd.Email),
		h.now(),
	)
	if res.IsFailure() {
		return nil, res.Err()
	}
	usr := res.Value()

	if err := unit.Users().Add(ctx, usr); err != nil {
		return nil, err
	}

	raised := usr.PendingEvents()
	usr.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), raised); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &RegisterUserResult{UserID: string(usr.ID)}, nil
}

func (h *RegisterUserHandler) beginUnit(ctx context.Context) (uow.UnitOfWork, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, false, nil
	}
	if h.UoWFactory == nil {
		return nil, false, ErrUnitOfWorkRequired
	}
	unit, err := h.UoWFactory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	return unit, true, nil
}

func (h *RegisterUserHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *RegisterUserHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[RegisterUserCommand, *RegisterUserResult] = (*RegisterUserHandler)(nil)
var _ middleware.IdempotentCommand = (*RegisterUserCommand)(nil)
