package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// UpdateProfileMessage applies a sparse update to an account's profile.
// Nil fields are left untouched; a pointer to the empty string clears the
// optional fields. NewEmail, when present, must still be unique and within
// the allowed domains.
type UpdateProfileMessage struct {
	AccountID      uuid.UUID `json:"account_id"`
	FirstName      *string   `json:"first_name,omitempty"`
	LastName       *string   `json:"last_name,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	NewEmail       *string   `json:"new_email,omitempty"`

	OnResponse func(*Account) error `json:"-"`
}

func (m UpdateProfileMessage) Type() string { return "account.profile.update" }

type UpdateProfileHandler struct {
	store  AccountStore
	logger Logger
}

func NewUpdateProfileHandler(store AccountStore) *UpdateProfileHandler {
	return &UpdateProfileHandler{
		store:  store,
		logger: defLogger{},
	}
}

func (h *UpdateProfileHandler) WithLogger(logger Logger) *UpdateProfileHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *UpdateProfileHandler) Execute(ctx context.Context, event UpdateProfileMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "profile update command cancelled")
	default:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return h.execute(ctx, event)
	}
}

func (h *UpdateProfileHandler) execute(ctx context.Context, event UpdateProfileMessage) error {
	if err := validateProfileUpdate(event); err != nil {
		return err
	}

	account, err := h.store.FindByID(ctx, event.AccountID)
	if err != nil {
		return err
	}

	patch := AccountPatch{
		FirstName:      event.FirstName,
		LastName:       event.LastName,
		Phone:          event.Phone,
		ProfilePicture: event.ProfilePicture,
	}

	if event.NewEmail != nil {
		email := NormalizeEmail(*event.NewEmail)
		if email != account.Email {
			if other, err := h.store.FindByEmail(ctx, email); err == nil && other.ID != account.ID {
				return ErrEmailTaken
			} else if err != nil && !goerrors.IsNotFound(err) && !isNoRows(err) {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email availability")
			}
			patch.Email = strptr(email)
		}
	}

	if patch.IsZero() {
		if event.OnResponse != nil {
			return event.OnResponse(account)
		}
		return nil
	}

	// The unique index still backstops the availability check above when
	// two updates race for the same address.
	updated, err := h.store.UpdateFields(ctx, account.ID, patch)
	if err != nil {
		return err
	}

	h.logger.Info("profile updated for %s", updated.Email)

	if event.OnResponse != nil {
		return event.OnResponse(updated)
	}

	return nil
}
