package identity_test

import (
	"context"
	"strings"
	"sync"
	"time"

	identity "github.com/markavo/go-identity"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// memStore is an in-memory AccountStore and CredentialStore used by the
// handler and service tests.
type memStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*identity.Account

	attemptedLogins  int
	successfulLogins int
	deleteCalls      int
	patches          []identity.AccountPatch
}

func newMemStore(accounts ...*identity.Account) *memStore {
	s := &memStore{accounts: map[uuid.UUID]*identity.Account{}}
	for _, a := range accounts {
		cp := *a
		s.accounts[a.ID] = &cp
	}
	return s
}

func notFoundErr() error {
	return goerrors.New("record not found", goerrors.CategoryNotFound)
}

func (s *memStore) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == strings.ToLower(strings.TrimSpace(email)) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, notFoundErr()
}

func (s *memStore) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, notFoundErr()
}

func (s *memStore) FindByResetToken(ctx context.Context, token string) (*identity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, a := range s.accounts {
		if a.ResetToken != nil && *a.ResetToken == token &&
			a.ResetExpiresAt != nil && a.ResetExpiresAt.After(now) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, notFoundErr()
}

func (s *memStore) Insert(ctx context.Context, account *identity.Account) (*identity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == account.Email {
			return nil, identity.ErrEmailTaken
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	cp := *account
	s.accounts[account.ID] = &cp
	return account, nil
}

func (s *memStore) UpdateFields(ctx context.Context, id uuid.UUID, patch identity.AccountPatch) (*identity.Account, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, notFoundErr()
	}

	s.patches = append(s.patches, patch)

	if patch.Email != nil {
		for _, other := range s.accounts {
			if other.ID != id && other.Email == *patch.Email {
				return nil, identity.ErrEmailTaken
			}
		}
		a.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		a.PasswordHash = *patch.PasswordHash
	}
	if patch.FirstName != nil {
		a.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		a.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		a.Phone = *patch.Phone
	}
	if patch.ProfilePicture != nil {
		a.ProfilePicture = *patch.ProfilePicture
	}
	if patch.IsAdmin != nil {
		a.IsAdmin = *patch.IsAdmin
	}
	if patch.ResetToken != nil {
		a.ResetToken = patch.ResetToken
		a.ResetExpiresAt = patch.ResetExpiresAt
	}
	if patch.ClearReset {
		a.ResetToken = nil
		a.ResetExpiresAt = nil
	}

	cp := *a
	return &cp, nil
}

func (s *memStore) DeleteCascade(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if _, ok := s.accounts[id]; !ok {
		return false, nil
	}
	delete(s.accounts, id)
	return true, nil
}

func (s *memStore) TrackAttemptedLogin(ctx context.Context, account *identity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attemptedLogins++
	if a, ok := s.accounts[account.ID]; ok {
		a.LoginAttempts++
		now := time.Now()
		a.LoginAttemptAt = &now
	}
	return nil
}

func (s *memStore) TrackSuccessfulLogin(ctx context.Context, account *identity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successfulLogins++
	if a, ok := s.accounts[account.ID]; ok {
		a.LoginAttempts = 0
		a.LoginAttemptAt = nil
		now := time.Now()
		a.LoggedInAt = &now
	}
	return nil
}

func (s *memStore) get(id uuid.UUID) *identity.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		cp := *a
		return &cp
	}
	return nil
}

// captureSink records reset notifications and signals delivery so tests can
// wait for the fire-and-forget goroutine.
type captureSink struct {
	mu        sync.Mutex
	delivered chan struct{}
	email     string
	name      string
	token     string
	fail      error
}

func newCaptureSink() *captureSink {
	return &captureSink{delivered: make(chan struct{}, 1)}
}

func (s *captureSink) NotifyPasswordReset(ctx context.Context, email, displayName, token string) error {
	s.mu.Lock()
	s.email = email
	s.name = displayName
	s.token = token
	err := s.fail
	s.mu.Unlock()

	select {
	case s.delivered <- struct{}{}:
	default:
	}

	return err
}

func (s *captureSink) wait(timeout time.Duration) bool {
	select {
	case <-s.delivered:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (s *captureSink) lastToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func mustHash(password string) string {
	hash, err := identity.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return hash
}

func uuidMust() uuid.UUID { return uuid.New() }

func testAccount(email, password string) *identity.Account {
	return &identity.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: mustHash(password),
		FirstName:    "Test",
		LastName:     "User",
	}
}
