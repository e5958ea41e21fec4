package identity

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CaptionsRepository persists generated captions. Only the slice needed by
// the account authority lives here: creation, per-account listing, and the
// owned-record sweep used by cascading deletion.
type CaptionsRepository struct {
	db *bun.DB
}

var _ OwnedRecordStore = (*CaptionsRepository)(nil)

func NewCaptionsRepository(db *bun.DB) *CaptionsRepository {
	return &CaptionsRepository{db: db}
}

func (r *CaptionsRepository) Collection() string {
	return "captions"
}

func (r *CaptionsRepository) Create(ctx context.Context, caption *Caption) (*Caption, error) {
	if caption.ID == uuid.Nil {
		caption.ID = uuid.New()
	}

	if _, err := r.db.NewInsert().Model(caption).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create caption")
	}

	return caption, nil
}

func (r *CaptionsRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]Caption, error) {
	if limit <= 0 {
		limit = 100
	}

	var records []Caption
	err := r.db.NewSelect().
		Model(&records).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not list captions")
	}

	return records, nil
}

// DeleteByAccountTx implements OwnedRecordStore.
func (r *CaptionsRepository) DeleteByAccountTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID) (int64, error) {
	res, err := tx.NewDelete().
		Model((*Caption)(nil)).
		Where("account_id = ?", accountID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
