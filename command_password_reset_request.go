package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultResetTokenTTL bounds how long a reset token stays redeemable.
var DefaultResetTokenTTL = time.Hour

// PasswordResetRequestMessage starts the reset flow for an email address.
// The outcome reported to the caller is identical whether or not the email
// maps to an account, so the flow cannot be used to probe for registered
// addresses.
type PasswordResetRequestMessage struct {
	Email string `json:"email"`

	OnResponse func() error `json:"-"`
}

func (m PasswordResetRequestMessage) Type() string { return "password.reset.request" }

type PasswordResetRequestHandler struct {
	store    AccountStore
	notifier NotificationSink
	tokenTTL time.Duration
	logger   Logger
}

func NewPasswordResetRequestHandler(store AccountStore, notifier NotificationSink) *PasswordResetRequestHandler {
	return &PasswordResetRequestHandler{
		store:    store,
		notifier: notifier,
		tokenTTL: DefaultResetTokenTTL,
		logger:   defLogger{},
	}
}

func (h *PasswordResetRequestHandler) WithLogger(logger Logger) *PasswordResetRequestHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *PasswordResetRequestHandler) WithTokenTTL(ttl time.Duration) *PasswordResetRequestHandler {
	if ttl > 0 {
		h.tokenTTL = ttl
	}
	return h
}

func (h *PasswordResetRequestHandler) Execute(ctx context.Context, event PasswordResetRequestMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "password reset request cancelled")
	default:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return h.execute(ctx, event)
	}
}

func (h *PasswordResetRequestHandler) execute(ctx context.Context, event PasswordResetRequestMessage) error {
	email := NormalizeEmail(event.Email)

	account, err := h.store.FindByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) || isNoRows(err) {
			h.logger.Debug("reset requested for unknown email %s", email)
			return h.acknowledge(event)
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account for reset")
	}

	token, err := GenerateResetToken(MinResetTokenBytes)
	if err != nil {
		return err
	}

	expires := time.Now().Add(h.tokenTTL)
	patch := AccountPatch{
		ResetToken:     strptr(token),
		ResetExpiresAt: timeptr(expires),
	}

	if _, err := h.store.UpdateFields(ctx, account.ID, patch); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist reset token")
	}

	// Delivery is fire and forget: success was already determined by the
	// state change above, and a slow or broken sink must not change the
	// caller-visible outcome.
	go func(email, name, token string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.notifier.NotifyPasswordReset(ctx, email, name, token); err != nil {
			h.logger.Error("reset notification for %s failed: %v", email, err)
		}
	}(account.Email, account.DisplayName(), token)

	return h.acknowledge(event)
}

func (h *PasswordResetRequestHandler) acknowledge(event PasswordResetRequestMessage) error {
	if event.OnResponse != nil {
		return event.OnResponse()
	}
	return nil
}
