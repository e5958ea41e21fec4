package identity

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ScheduledPostsRepository persists queued posts, the second dependent
// collection swept by cascading deletion.
type ScheduledPostsRepository struct {
	db *bun.DB
}

var _ OwnedRecordStore = (*ScheduledPostsRepository)(nil)

func NewScheduledPostsRepository(db *bun.DB) *ScheduledPostsRepository {
	return &ScheduledPostsRepository{db: db}
}

func (r *ScheduledPostsRepository) Collection() string {
	return "scheduled_posts"
}

func (r *ScheduledPostsRepository) Create(ctx context.Context, post *ScheduledPost) (*ScheduledPost, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.Status == "" {
		post.Status = "pending"
	}

	if _, err := r.db.NewInsert().Model(post).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create scheduled post")
	}

	return post, nil
}

func (r *ScheduledPostsRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]ScheduledPost, error) {
	if limit <= 0 {
		limit = 100
	}

	var records []ScheduledPost
	err := r.db.NewSelect().
		Model(&records).
		Where("account_id = ?", accountID).
		Order("scheduled_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not list scheduled posts")
	}

	return records, nil
}

// DeleteByAccountTx implements OwnedRecordStore.
func (r *ScheduledPostsRepository) DeleteByAccountTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID) (int64, error) {
	res, err := tx.NewDelete().
		Model((*ScheduledPost)(nil)).
		Where("account_id = ?", accountID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
