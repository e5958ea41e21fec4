package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// PasswordResetConfirmMessage redeems a reset token for a new password.
type PasswordResetConfirmMessage struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`

	OnResponse func(*Account) error `json:"-"`
}

func (m PasswordResetConfirmMessage) Type() string { return "password.reset.confirm" }

type PasswordResetConfirmHandler struct {
	store  AccountStore
	logger Logger
}

func NewPasswordResetConfirmHandler(store AccountStore) *PasswordResetConfirmHandler {
	return &PasswordResetConfirmHandler{
		store:  store,
		logger: defLogger{},
	}
}

func (h *PasswordResetConfirmHandler) WithLogger(logger Logger) *PasswordResetConfirmHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *PasswordResetConfirmHandler) Execute(ctx context.Context, event PasswordResetConfirmMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "password reset confirm cancelled")
	default:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return h.execute(ctx, event)
	}
}

func (h *PasswordResetConfirmHandler) execute(ctx context.Context, event PasswordResetConfirmMessage) error {
	if event.Token == "" {
		return ErrResetTokenInvalid
	}

	if err := validateNewPassword(event.NewPassword); err != nil {
		return err
	}

	// FindByResetToken only matches unexpired tokens, so an expired token
	// is indistinguishable from one that never existed.
	account, err := h.store.FindByResetToken(ctx, event.Token)
	if err != nil {
		if goerrors.IsNotFound(err) || isNoRows(err) {
			return ErrResetTokenInvalid
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up reset token")
	}

	hash, err := HashPassword(event.NewPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash new password")
	}

	// Single patch: the new hash lands and the token is consumed in the
	// same statement, so a redeemed token can never be replayed.
	patch := AccountPatch{
		PasswordHash: strptr(hash),
		ClearReset:   true,
	}

	updated, err := h.store.UpdateFields(ctx, account.ID, patch)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to apply password reset")
	}

	h.logger.Info("password reset completed for %s", updated.Email)

	if event.OnResponse != nil {
		return event.OnResponse(updated)
	}

	return nil
}
