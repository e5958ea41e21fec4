package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// OwnedRecordStore is implemented by every dependent collection that keeps
// records owned by an account; DeleteCascade walks these before removing the
// account row.
type OwnedRecordStore interface {
	Collection() string
	DeleteByAccountTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID) (int64, error)
}

// Accounts is the account store surface backed by Bun.
type Accounts interface {
	repository.Repository[*Account]
	AccountStore
	CredentialStore
}

type accounts struct {
	repository.Repository[*Account]
	db         *bun.DB
	dependents []OwnedRecordStore
	logger     Logger
}

var (
	_ Accounts     = (*accounts)(nil)
	_ AccountStore = (*accounts)(nil)
)

type AccountsOption func(*accounts)

// WithDependentStores registers the collections swept by DeleteCascade.
func WithDependentStores(stores ...OwnedRecordStore) AccountsOption {
	return func(a *accounts) {
		a.dependents = append(a.dependents, stores...)
	}
}

// WithAccountsLogger overrides the repository logger.
func WithAccountsLogger(logger Logger) AccountsOption {
	return func(a *accounts) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func NewAccountsRepository(db *bun.DB, opts ...AccountsOption) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	repoAccounts := &accounts{
		Repository: repo,
		db:         db,
		logger:     defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repoAccounts)
		}
	}

	return repoAccounts
}

func (a *accounts) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return a.FindByEmailTx(ctx, a.db, email)
}

func (a *accounts) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error) {
	normalized := NormalizeEmail(email)

	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", normalized).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if isNoRows(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": normalized})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account lookup by email failed")
	}

	return record, nil
}

func (a *accounts) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	record := &Account{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if isNoRows(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account lookup by id failed")
	}

	return record, nil
}

// FindByResetToken matches the token only while its expiry timestamp is in
// the future. A stale token that nobody cleared yet behaves exactly like an
// absent one.
func (a *accounts) FindByResetToken(ctx context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, repository.NewRecordNotFound()
	}

	record := &Account{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.password_reset_token = ?", token).
		Where("?TableAlias.password_reset_token_expires_at > ?", time.Now()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if isNoRows(err) {
			return nil, repository.NewRecordNotFound()
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account lookup by reset token failed")
	}

	return record, nil
}

// Insert persists a new account. The unique index on accounts(email) is the
// authoritative uniqueness guard; a violation surfaces as ErrEmailTaken even
// when a concurrent writer slipped past the caller's existence pre-check.
func (a *accounts) Insert(ctx context.Context, account *Account) (*Account, error) {
	return a.InsertTx(ctx, a.db, account)
}

func (a *accounts) InsertTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error) {
	prepareAccountDefaults(account)

	created, err := a.Repository.CreateTx(ctx, tx, account)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create account")
	}

	return created, nil
}

// UpdateFields applies a sparse patch and returns the post-update record,
// even when no field actually changed value. Returns a not-found error when
// the id does not exist.
func (a *accounts) UpdateFields(ctx context.Context, id uuid.UUID, patch AccountPatch) (*Account, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	q := a.db.NewUpdate().
		Model((*Account)(nil)).
		Where("id = ?", id).
		Set("updated_at = ?", time.Now())

	if patch.Email != nil {
		q = q.Set("email = ?", NormalizeEmail(*patch.Email))
	}
	if patch.PasswordHash != nil {
		q = q.Set("password_hash = ?", *patch.PasswordHash)
	}
	if patch.FirstName != nil {
		q = q.Set("first_name = ?", *patch.FirstName)
	}
	if patch.LastName != nil {
		q = q.Set("last_name = ?", *patch.LastName)
	}
	if patch.Phone != nil {
		q = q.Set("phone_number = ?", *patch.Phone)
	}
	if patch.ProfilePicture != nil {
		q = q.Set("profile_picture = ?", *patch.ProfilePicture)
	}
	if patch.IsAdmin != nil {
		q = q.Set("is_admin = ?", *patch.IsAdmin)
	}
	if patch.ResetToken != nil {
		q = q.Set("password_reset_token = ?", *patch.ResetToken).
			Set("password_reset_token_expires_at = ?", *patch.ResetExpiresAt)
	}
	if patch.ClearReset {
		q = q.Set("password_reset_token = NULL").
			Set("password_reset_token_expires_at = NULL")
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account update failed")
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return a.FindByID(ctx, id)
}

// DeleteCascade removes the account's dependent records collection by
// collection, then the account row, all inside one transaction. Returns
// false when the account did not exist.
func (a *accounts) DeleteCascade(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false

	err := a.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, dep := range a.dependents {
			n, err := dep.DeleteByAccountTx(ctx, tx, id)
			if err != nil {
				a.logger.Error(
					"cascade delete failed in dependent collection %s for account %s: %v",
					dep.Collection(), id, err,
				)
				return goerrors.Wrap(err, goerrors.CategoryInternal, "cascade delete of dependent records failed")
			}
			if n > 0 {
				a.logger.Debug("cascade delete removed %d records from %s for account %s", n, dep.Collection(), id)
			}
		}

		res, err := tx.NewDelete().
			Model((*Account)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			a.logger.Error("cascade delete removed dependents but account row delete failed for %s: %v", id, err)
			return goerrors.Wrap(err, goerrors.CategoryInternal, "account delete failed")
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "account delete result unavailable")
		}

		deleted = affected > 0
		return nil
	})

	if err != nil {
		return false, err
	}

	return deleted, nil
}

func (a *accounts) TrackAttemptedLogin(ctx context.Context, account *Account) error {
	_, err := a.db.NewUpdate().
		Model((*Account)(nil)).
		Where("id = ?", account.ID).
		Set("login_attempts = ?", account.LoginAttempts+1).
		Set("login_attempt_at = ?", time.Now()).
		Exec(ctx)
	return err
}

func (a *accounts) TrackSuccessfulLogin(ctx context.Context, account *Account) error {
	_, err := a.db.NewUpdate().
		Model((*Account)(nil)).
		Where("id = ?", account.ID).
		Set("loggedin_at = ?", time.Now()).
		Set("login_attempt_at = NULL").
		Set("login_attempts = 0").
		Exec(ctx)
	return err
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	record.Email = NormalizeEmail(record.Email)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

func isNoRows(err error) bool {
	if err == nil {
		return false
	}
	if repository.IsRecordNotFound(err) {
		return true
	}
	return err.Error() == "sql: no rows in result set"
}
