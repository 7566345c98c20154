package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "watchlist_backend/internal/feature/auth/domain/entity"
	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: は接続ごとに別DBになるため1接続に固定する
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&WatchlistModel{}, &authentity.User{}), "failed to migrate tables")
	return db
}

// seedItem creates a test item in the database.
func seedItem(t *testing.T, db *gorm.DB, userID, symbol string, addedAt time.Time) {
	t.Helper()
	m := WatchlistModel{UserID: userID, Symbol: symbol, Company: symbol + " Inc.", AddedAt: addedAt}
	require.NoError(t, db.Create(&m).Error, "failed to seed item")
}

func TestNewWatchlistRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewWatchlistRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestWatchlistGorm_Create(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success: insert", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		repo := NewWatchlistRepository(db)

		err := repo.Create(context.Background(), &entity.WatchlistItem{UserID: "u1", Symbol: "AAPL", Company: "Apple", AddedAt: base})
		require.NoError(t, err)

		var got WatchlistModel
		require.NoError(t, db.First(&got).Error)
		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, "AAPL", got.Symbol)
		assert.Equal(t, "Apple", got.Company)
		assert.True(t, base.Equal(got.AddedAt))
	})

	t.Run("failure: duplicate (user, symbol) maps to ErrAlreadyExists", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		repo := NewWatchlistRepository(db)
		seedItem(t, db, "u1", "AAPL", base)

		err := repo.Create(context.Background(), &entity.WatchlistItem{UserID: "u1", Symbol: "AAPL", Company: "Apple", AddedAt: base})
		assert.ErrorIs(t, err, usecase.ErrAlreadyExists)

		var n int64
		db.Model(&WatchlistModel{}).Count(&n)
		assert.Equal(t, int64(1), n)
	})

	t.Run("success: same symbol for another user", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		repo := NewWatchlistRepository(db)
		seedItem(t, db, "u1", "AAPL", base)

		err := repo.Create(context.Background(), &entity.WatchlistItem{UserID: "u2", Symbol: "AAPL", Company: "Apple", AddedAt: base})
		assert.NoError(t, err)
	})
}

func TestWatchlistGorm_Exists(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewWatchlistRepository(db)
	seedItem(t, db, "u1", "AAPL", time.Now())

	ok, err := repo.Exists(context.Background(), "u1", "AAPL")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), "u2", "AAPL")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Exists(context.Background(), "u1", "MSFT")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWatchlistGorm_Delete(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewWatchlistRepository(db)
	now := time.Now()
	seedItem(t, db, "u1", "MSFT", now)
	seedItem(t, db, "u2", "MSFT", now)

	n, err := repo.Delete(context.Background(), "u1", "MSFT")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(context.Background(), "u1", "MSFT")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	ok, err := repo.Exists(context.Background(), "u2", "MSFT")
	require.NoError(t, err)
	assert.True(t, ok, "other user's item must survive")
}

func TestWatchlistGorm_ListByUser(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupFunc func(t *testing.T, db *gorm.DB)
		userID    string
		want      []string
	}{
		{
			name: "success: newest first",
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedItem(t, db, "u1", "AAPL", base)
				seedItem(t, db, "u1", "MSFT", base.Add(2*time.Hour))
				seedItem(t, db, "u1", "NVDA", base.Add(time.Hour))
			},
			userID: "u1",
			want:   []string{"MSFT", "NVDA", "AAPL"},
		},
		{
			name: "success: equal timestamps fall back to insertion order",
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedItem(t, db, "u1", "AAPL", base)
				seedItem(t, db, "u1", "MSFT", base)
			},
			userID: "u1",
			want:   []string{"MSFT", "AAPL"},
		},
		{
			name: "success: scoped to user",
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedItem(t, db, "u1", "AAPL", base)
				seedItem(t, db, "u2", "TSLA", base)
			},
			userID: "u2",
			want:   []string{"TSLA"},
		},
		{
			name:      "success: empty",
			setupFunc: func(t *testing.T, db *gorm.DB) {},
			userID:    "u1",
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db := setupTestDB(t)
			tt.setupFunc(t, db)
			repo := NewWatchlistRepository(db)

			items, err := repo.ListByUser(context.Background(), tt.userID)
			require.NoError(t, err)

			got := make([]string, 0, len(items))
			for _, it := range items {
				got = append(got, it.Symbol)
				assert.Equal(t, tt.userID, it.UserID)
			}
			assert.Equal(t, tt.want, got)

			symbols, err := repo.ListSymbols(context.Background(), tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, symbols)
		})
	}
}

func TestIdentityGorm_FindByEmail(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	require.NoError(t, db.Create(&authentity.User{PublicID: "2b1f6a8e-0000-4000-8000-000000000001", Email: "a@example.com", Password: "x"}).Error)
	require.NoError(t, db.Create(&authentity.User{PublicID: "", Email: "legacy@example.com", Password: "x"}).Error)
	repo := NewIdentityRepository(db)

	t.Run("success: public id", func(t *testing.T) {
		got, err := repo.FindByEmail(context.Background(), "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, "2b1f6a8e-0000-4000-8000-000000000001", got.ID)
	})

	t.Run("success: numeric id fallback", func(t *testing.T) {
		got, err := repo.FindByEmail(context.Background(), "legacy@example.com")
		require.NoError(t, err)
		assert.Equal(t, "2", got.ID)
	})

	t.Run("failure: exact match only", func(t *testing.T) {
		_, err := repo.FindByEmail(context.Background(), "A@example.com")
		assert.ErrorIs(t, err, usecase.ErrIdentityNotFound)
	})
}
