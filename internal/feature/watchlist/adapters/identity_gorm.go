package adapters

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
)

// identityRow is the subset of the users table needed to resolve an owner id.
type identityRow struct {
	ID       uint
	PublicID string
}

// identityGorm resolves users from the shared users table.
type identityGorm struct {
	db *gorm.DB
}

var _ usecase.IdentityRepository = (*identityGorm)(nil)

// NewIdentityRepository はusersテーブルを参照するIdentityRepositoryを生成します。
func NewIdentityRepository(db *gorm.DB) *identityGorm {
	return &identityGorm{db: db}
}

// FindByEmail matches the e-mail exactly. The public id is preferred;
// rows created before public ids existed fall back to the numeric id.
func (r *identityGorm) FindByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	var row identityRow
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id", "public_id").
		Where("email = ?", email).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrIdentityNotFound
		}
		return nil, err
	}

	id := row.PublicID
	if id == "" && row.ID != 0 {
		id = strconv.FormatUint(uint64(row.ID), 10)
	}
	return &entity.Identity{ID: id}, nil
}
