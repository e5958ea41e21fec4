package identity

import (
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the canonical identity record.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`

	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	FirstName      string     `bun:"first_name" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name" json:"last_name,omitempty"`
	Phone          string     `bun:"phone_number" json:"phone_number,omitempty"`
	ProfilePicture string     `bun:"profile_picture" json:"profile_picture,omitempty"`
	IsAdmin        bool       `bun:"is_admin,notnull,default:false" json:"is_admin"`
	ResetToken     *string    `bun:"password_reset_token,nullzero" json:"-"`
	ResetExpiresAt *time.Time `bun:"password_reset_token_expires_at,nullzero" json:"-"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at,nullzero" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at,nullzero" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// DisplayName is the name used in outbound notifications.
func (a *Account) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Email
	}
	return name
}

// HasActiveReset reports whether a non-expired reset token is pending.
func (a *Account) HasActiveReset(now time.Time) bool {
	return a.ResetToken != nil && a.ResetExpiresAt != nil && a.ResetExpiresAt.After(now)
}

// NormalizeEmail lowercases and trims an email address. Every store write and
// lookup goes through this, so `User@Gmail.com` and `user@gmail.com` are the
// same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Caption is a generated caption owned by an account. Its feature CRUD lives
// elsewhere; it matters here as a dependent record for cascading deletion.
type Caption struct {
	bun.BaseModel `bun:"table:captions,alias:cap"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID uuid.UUID  `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	Prompt    string     `bun:"prompt" json:"prompt,omitempty"`
	Content   string     `bun:"content,notnull" json:"content,omitempty"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// ScheduledPost is a queued post owned by an account, another dependent
// record removed by cascading deletion.
type ScheduledPost struct {
	bun.BaseModel `bun:"table:scheduled_posts,alias:sp"`

	ID          uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID   uuid.UUID  `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	Content     string     `bun:"content,notnull" json:"content,omitempty"`
	ScheduledAt time.Time  `bun:"scheduled_at,notnull" json:"scheduled_at"`
	Status      string     `bun:"status,notnull,default:'pending'" json:"status,omitempty"`
	CreatedAt   *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// AccountPatch is a typed sparse update: only fields that are explicitly set
// become SET columns, so concurrent writers never clobber columns they did
// not touch.
type AccountPatch struct {
	Email          *string
	PasswordHash   *string
	FirstName      *string
	LastName       *string
	Phone          *string
	ProfilePicture *string
	IsAdmin        *bool

	// ResetToken and ResetExpiresAt must be set together; ClearReset nulls
	// both columns. Validate enforces the pairing.
	ResetToken     *string
	ResetExpiresAt *time.Time
	ClearReset     bool
}

// IsZero reports whether the patch would not change anything.
func (p AccountPatch) IsZero() bool {
	return p.Email == nil &&
		p.PasswordHash == nil &&
		p.FirstName == nil &&
		p.LastName == nil &&
		p.Phone == nil &&
		p.ProfilePicture == nil &&
		p.IsAdmin == nil &&
		p.ResetToken == nil &&
		p.ResetExpiresAt == nil &&
		!p.ClearReset
}

// Validate rejects patches that would break record invariants before any
// store mutation is attempted.
func (p AccountPatch) Validate() error {
	if (p.ResetToken == nil) != (p.ResetExpiresAt == nil) {
		return goerrors.New(
			"reset token and its expiry must be set together",
			goerrors.CategoryValidation,
		).WithCode(goerrors.CodeBadRequest)
	}

	if p.ClearReset && p.ResetToken != nil {
		return goerrors.New(
			"cannot set and clear the reset token in the same patch",
			goerrors.CategoryValidation,
		).WithCode(goerrors.CodeBadRequest)
	}

	if p.Email != nil && NormalizeEmail(*p.Email) == "" {
		return goerrors.New("email must not be empty", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	if p.PasswordHash != nil && *p.PasswordHash == "" {
		return goerrors.New("password hash must not be empty", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	return nil
}

func strptr(s string) *string { return &s }

func timeptr(t time.Time) *time.Time { return &t }

func boolptr(b bool) *bool { return &b }
