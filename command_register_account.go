package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// RegisterAccountMessage carries the payload for creating a new account.
type RegisterAccountMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
	// UseHashid derives the account ID deterministically from the email
	// instead of generating a random UUID.
	UseHashid  bool                 `json:"-"`
	OnResponse func(*Account) error `json:"-"`
}

func (m RegisterAccountMessage) Type() string { return "account.register" }

type RegisterAccountHandler struct {
	store  AccountStore
	logger Logger
}

func NewRegisterAccountHandler(store AccountStore) *RegisterAccountHandler {
	return &RegisterAccountHandler{
		store:  store,
		logger: defLogger{},
	}
}

func (h *RegisterAccountHandler) WithLogger(logger Logger) *RegisterAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute validates the payload, hashes the password, and inserts the
// account. The pre-insert email lookup gives a friendly early rejection;
// the unique index on accounts.email is the authoritative guard, so a
// concurrent duplicate still surfaces as ErrEmailTaken from Insert.
func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "register account command cancelled")
	default:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) error {
	if err := validateRegisterAccount(event); err != nil {
		return err
	}

	email := NormalizeEmail(event.Email)

	if _, err := h.store.FindByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !goerrors.IsNotFound(err) && !isNoRows(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email availability")
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	id, err := h.accountID(email, event.UseHashid)
	if err != nil {
		return err
	}

	account := &Account{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		FirstName:    event.FirstName,
		LastName:     event.LastName,
		Phone:        event.Phone,
	}

	created, err := h.store.Insert(ctx, account)
	if err != nil {
		return err
	}

	h.logger.Info("registered account %s", created.Email)

	if event.OnResponse != nil {
		return event.OnResponse(created)
	}

	return nil
}

func (h *RegisterAccountHandler) accountID(email string, deterministic bool) (uuid.UUID, error) {
	if !deterministic {
		return uuid.New(), nil
	}

	id, err := hashid.NewUUID(email)
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to derive account id")
	}

	return id, nil
}
