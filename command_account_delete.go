package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DeleteAccountMessage requests permanent removal of an account and every
// record it owns. CurrentPassword must match the stored hash before any
// mutation happens.
type DeleteAccountMessage struct {
	AccountID       uuid.UUID `json:"account_id"`
	CurrentPassword string    `json:"current_password"`

	OnResponse func(deleted bool) error `json:"-"`
}

func (m DeleteAccountMessage) Type() string { return "account.delete" }

type DeleteAccountHandler struct {
	store  AccountStore
	logger Logger
}

func NewDeleteAccountHandler(store AccountStore) *DeleteAccountHandler {
	return &DeleteAccountHandler{
		store:  store,
		logger: defLogger{},
	}
}

func (h *DeleteAccountHandler) WithLogger(logger Logger) *DeleteAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *DeleteAccountHandler) Execute(ctx context.Context, event DeleteAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "delete account command cancelled")
	default:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return h.execute(ctx, event)
	}
}

func (h *DeleteAccountHandler) execute(ctx context.Context, event DeleteAccountMessage) error {
	account, err := h.store.FindByID(ctx, event.AccountID)
	if err != nil {
		return err
	}

	// Holding a valid session is not enough to destroy the account; the
	// caller proves knowledge of the password immediately before the
	// irreversible step.
	if err := ComparePasswordAndHash(event.CurrentPassword, account.PasswordHash); err != nil {
		return ErrPasswordMismatch
	}

	deleted, err := h.store.DeleteCascade(ctx, account.ID)
	if err != nil {
		return err
	}

	h.logger.Info("deleted account %s and owned records", account.Email)

	if event.OnResponse != nil {
		return event.OnResponse(deleted)
	}

	return nil
}
