package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ChangePasswordMessage rotates an account's password. The caller is already
// authenticated; the current password is still demanded right before the
// hash is replaced.
type ChangePasswordMessage struct {
	AccountID       uuid.UUID `json:"account_id"`
	CurrentPassword string    `json:"current_password"`
	NewPassword     string    `json:"new_password"`

	OnResponse func(*Account) error `json:"-"`
}

func (m ChangePasswordMessage) Type() string { return "password.change" }

type ChangePasswordHandler struct {
	store  AccountStore
	logger Logger
}

func NewChangePasswordHandler(store AccountStore) *ChangePasswordHandler {
	return &ChangePasswordHandler{
		store:  store,
		logger: defLogger{},
	}
}

func (h *ChangePasswordHandler) WithLogger(logger Logger) *ChangePasswordHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ChangePasswordHandler) Execute(ctx context.Context, event ChangePasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "change password command cancelled")
	default:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return h.execute(ctx, event)
	}
}

func (h *ChangePasswordHandler) execute(ctx context.Context, event ChangePasswordMessage) error {
	if err := validateNewPassword(event.NewPassword); err != nil {
		return err
	}

	account, err := h.store.FindByID(ctx, event.AccountID)
	if err != nil {
		return err
	}

	if err := ComparePasswordAndHash(event.CurrentPassword, account.PasswordHash); err != nil {
		return ErrPasswordMismatch
	}

	hash, err := HashPassword(event.NewPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash new password")
	}

	// Only the hash changes here. A pending reset token, if one exists,
	// stays untouched and expires on its own schedule.
	updated, err := h.store.UpdateFields(ctx, account.ID, AccountPatch{PasswordHash: strptr(hash)})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password")
	}

	h.logger.Info("password changed for %s", updated.Email)

	if event.OnResponse != nil {
		return event.OnResponse(updated)
	}

	return nil
}
