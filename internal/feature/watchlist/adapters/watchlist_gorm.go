package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// watchlistGorm はWatchlistRepositoryインターフェースのGORM実装です。
type watchlistGorm struct {
	db *gorm.DB
}

var _ usecase.WatchlistRepository = (*watchlistGorm)(nil)

// NewWatchlistRepository は指定されたgorm.DB接続でリポジトリを生成します。
func NewWatchlistRepository(db *gorm.DB) *watchlistGorm {
	return &watchlistGorm{db: db}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *watchlistGorm) Exists(ctx context.Context, userID, symbol string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&WatchlistModel{}).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Limit(1).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts the item. A (user_id, symbol) conflict returns usecase.ErrAlreadyExists.
func (r *watchlistGorm) Create(ctx context.Context, item *entity.WatchlistItem) error {
	m := toModel(item)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicate(err) {
			return usecase.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *watchlistGorm) Delete(ctx context.Context, userID, symbol string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Delete(&WatchlistModel{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ListByUser returns the user's items ordered by added_at descending.
// Items added in the same instant fall back to insertion order, newest first.
func (r *watchlistGorm) ListByUser(ctx context.Context, userID string) ([]entity.WatchlistItem, error) {
	var rows []WatchlistModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.WatchlistItem, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

func (r *watchlistGorm) ListSymbols(ctx context.Context, userID string) ([]string, error) {
	symbols := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&WatchlistModel{}).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Order("id DESC").
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}
