package identity

import (
	"context"
	"database/sql"
	"errors"
	"log"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Accounts() Accounts
	Captions() *CaptionsRepository
	ScheduledPosts() *ScheduledPostsRepository
}

type mngr struct {
	db             *bun.DB
	accounts       Accounts
	captions       *CaptionsRepository
	scheduledPosts *ScheduledPostsRepository
}

// NewRepositoryManager wires the account store with its dependent
// collections so cascading deletion sweeps every record an account owns.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	captions := NewCaptionsRepository(db)
	scheduledPosts := NewScheduledPostsRepository(db)

	return &mngr{
		db:             db,
		captions:       captions,
		scheduledPosts: scheduledPosts,
		accounts: NewAccountsRepository(db,
			WithDependentStores(captions, scheduledPosts),
		),
	}
}

func (m mngr) Validate() error {
	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	if m.captions == nil {
		return errors.New("repository captions should be initialized")
	}

	if m.scheduledPosts == nil {
		return errors.New("repository scheduledPosts should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Accounts() Accounts {
	return m.accounts
}

func (m mngr) Captions() *CaptionsRepository {
	return m.captions
}

func (m mngr) ScheduledPosts() *ScheduledPostsRepository {
	return m.scheduledPosts
}
