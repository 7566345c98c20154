package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// memoryRepository は(userID, symbol)を一意キーとするインメモリのWatchlistRepositoryです。
type memoryRepository struct {
	mu    sync.Mutex
	items []entity.WatchlistItem

	ExistsErr error
	CreateErr error
	DeleteErr error
	ListErr   error

	// forceConflict はExistsがfalseを返した後にCreateが競合する状況を再現します。
	forceConflict bool
}

func (m *memoryRepository) Exists(_ context.Context, userID, symbol string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	if m.forceConflict {
		return false, nil
	}
	for _, it := range m.items {
		if it.UserID == userID && it.Symbol == symbol {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepository) Create(_ context.Context, item *entity.WatchlistItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, it := range m.items {
		if it.UserID == item.UserID && it.Symbol == item.Symbol {
			return usecase.ErrAlreadyExists
		}
	}
	m.items = append(m.items, *item)
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, userID, symbol string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return 0, m.DeleteErr
	}
	for i, it := range m.items {
		if it.UserID == userID && it.Symbol == symbol {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memoryRepository) ListByUser(_ context.Context, userID string) ([]entity.WatchlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []entity.WatchlistItem
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].UserID == userID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *memoryRepository) ListSymbols(ctx context.Context, userID string) ([]string, error) {
	items, err := m.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Symbol)
	}
	return out, nil
}

func (m *memoryRepository) count(userID, symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, it := range m.items {
		if it.UserID == userID && it.Symbol == symbol {
			n++
		}
	}
	return n
}

// mockIdentityRepository はIdentityRepositoryのモック実装です。
type mockIdentityRepository struct {
	FindByEmailFunc func(ctx context.Context, email string) (*entity.Identity, error)
}

func (m *mockIdentityRepository) FindByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, usecase.ErrIdentityNotFound
}

// staticSession は固定のユーザーIDを返すSessionReaderです。空の場合は未認証扱いです。
type staticSession string

func (s staticSession) CurrentUserID(context.Context) (string, error) {
	if s == "" {
		return "", errors.New("no session")
	}
	return string(s), nil
}

// recordingNotifier はNotifyChangedの呼び出しを記録します。
type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingNotifier) NotifyChanged(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userID)
	return nil
}

func newWatchlistUsecase(repo *memoryRepository, session string) (*usecase.WatchlistUsecase, *recordingNotifier) {
	n := &recordingNotifier{}
	return usecase.NewWatchlistUsecase(repo, &mockIdentityRepository{}, staticSession(session), n), n
}

// TestWatchlistUsecase_Add は追加処理の正規化・バリデーション・エラー分類を検証します。
func TestWatchlistUsecase_Add(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		session    string
		repo       *memoryRepository
		symbol     string
		company    string
		wantResult entity.ActionResult
		wantErr    error
		wantSymbol string
	}{
		{
			name:       "success: symbol is trimmed and uppercased",
			session:    "u1",
			repo:       &memoryRepository{},
			symbol:     " aapl ",
			company:    " Apple Inc. ",
			wantResult: entity.ActionResult{Success: true},
			wantSymbol: "AAPL",
		},
		{
			name:       "failure: empty symbol",
			session:    "u1",
			repo:       &memoryRepository{},
			symbol:     "   ",
			company:    "Apple",
			wantResult: entity.ActionResult{Success: false, Error: "Stock symbol is required."},
			wantErr:    usecase.ErrValidation,
		},
		{
			name:       "failure: empty company",
			session:    "u1",
			repo:       &memoryRepository{},
			symbol:     "AAPL",
			company:    "",
			wantResult: entity.ActionResult{Success: false, Error: "Company name is required."},
			wantErr:    usecase.ErrValidation,
		},
		{
			name:       "failure: unauthenticated",
			session:    "",
			repo:       &memoryRepository{},
			symbol:     "AAPL",
			company:    "Apple",
			wantResult: entity.ActionResult{Success: false, Error: "Authentication required."},
			wantErr:    usecase.ErrUnauthenticated,
		},
		{
			name:       "failure: existence check fails",
			session:    "u1",
			repo:       &memoryRepository{ExistsErr: ErrDB},
			symbol:     "AAPL",
			company:    "Apple",
			wantResult: entity.ActionResult{Success: false, Error: "Failed to add stock to watchlist."},
			wantErr:    usecase.ErrStoreUnavailable,
		},
		{
			name:       "failure: insert fails",
			session:    "u1",
			repo:       &memoryRepository{CreateErr: ErrDB},
			symbol:     "AAPL",
			company:    "Apple",
			wantResult: entity.ActionResult{Success: false, Error: "Failed to add stock to watchlist."},
			wantErr:    usecase.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc, notifier := newWatchlistUsecase(tt.repo, tt.session)
			got, err := uc.Add(context.Background(), tt.symbol, tt.company)

			assert.Equal(t, tt.wantResult, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantSymbol != "" {
				assert.Equal(t, 1, tt.repo.count(tt.session, tt.wantSymbol))
				assert.Equal(t, "Apple Inc.", tt.repo.items[0].Company)
				assert.False(t, tt.repo.items[0].AddedAt.IsZero())
				assert.Equal(t, []string{tt.session}, notifier.calls)
			} else {
				assert.Empty(t, notifier.calls)
			}
		})
	}
}

// TestWatchlistUsecase_Add_Idempotent は同じ銘柄の再追加が成功扱いで重複しないことを検証します。
func TestWatchlistUsecase_Add_Idempotent(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{}
	uc, notifier := newWatchlistUsecase(repo, "u1")
	ctx := context.Background()

	first, err := uc.Add(ctx, "AAPL", "Apple")
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.Empty(t, first.Message)

	second, err := uc.Add(ctx, "aapl", "Apple")
	require.NoError(t, err)
	assert.Equal(t, entity.ActionResult{Success: true, Message: "Stock is already in your watchlist."}, second)

	assert.Equal(t, 1, repo.count("u1", "AAPL"))
	assert.Len(t, notifier.calls, 1, "re-adding must not signal a change")
}

// TestWatchlistUsecase_Add_ConcurrentConflict は一意制約違反が既存扱いになることを検証します。
func TestWatchlistUsecase_Add_ConcurrentConflict(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{forceConflict: true}
	repo.items = []entity.WatchlistItem{{UserID: "u1", Symbol: "AAPL", Company: "Apple"}}
	uc, _ := newWatchlistUsecase(repo, "u1")

	got, err := uc.Add(context.Background(), "AAPL", "Apple")
	require.NoError(t, err)
	assert.Equal(t, entity.ActionResult{Success: true, Message: "Stock is already in your watchlist."}, got)
	assert.Equal(t, 1, repo.count("u1", "AAPL"))
}

// TestWatchlistUsecase_Add_PerUser は別ユーザーが同じ銘柄を持てることを検証します。
func TestWatchlistUsecase_Add_PerUser(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{}
	ucA, _ := newWatchlistUsecase(repo, "u1")
	ucB, _ := newWatchlistUsecase(repo, "u2")

	_, err := ucA.Add(context.Background(), "AAPL", "Apple")
	require.NoError(t, err)
	got, err := ucB.Add(context.Background(), "AAPL", "Apple")
	require.NoError(t, err)

	assert.Equal(t, entity.ActionResult{Success: true}, got)
	assert.Equal(t, 1, repo.count("u1", "AAPL"))
	assert.Equal(t, 1, repo.count("u2", "AAPL"))
}

// TestWatchlistUsecase_Remove は削除処理の結果とエラー分類を検証します。
func TestWatchlistUsecase_Remove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		session    string
		repo       *memoryRepository
		symbol     string
		wantResult entity.ActionResult
		wantErr    error
	}{
		{
			name:       "success: existing symbol, lowercase input",
			session:    "u1",
			repo:       &memoryRepository{items: []entity.WatchlistItem{{UserID: "u1", Symbol: "MSFT"}}},
			symbol:     "msft",
			wantResult: entity.ActionResult{Success: true},
		},
		{
			name:       "failure: not in watchlist",
			session:    "u1",
			repo:       &memoryRepository{},
			symbol:     "ZZZZ",
			wantResult: entity.ActionResult{Success: false, Error: "Stock not found in watchlist."},
			wantErr:    usecase.ErrNotFound,
		},
		{
			name:       "failure: other user's item is untouched",
			session:    "u1",
			repo:       &memoryRepository{items: []entity.WatchlistItem{{UserID: "u2", Symbol: "MSFT"}}},
			symbol:     "MSFT",
			wantResult: entity.ActionResult{Success: false, Error: "Stock not found in watchlist."},
			wantErr:    usecase.ErrNotFound,
		},
		{
			name:       "failure: empty symbol",
			session:    "u1",
			repo:       &memoryRepository{},
			symbol:     " ",
			wantResult: entity.ActionResult{Success: false, Error: "Stock symbol is required."},
			wantErr:    usecase.ErrValidation,
		},
		{
			name:       "failure: unauthenticated",
			session:    "",
			repo:       &memoryRepository{},
			symbol:     "MSFT",
			wantResult: entity.ActionResult{Success: false, Error: "Authentication required."},
			wantErr:    usecase.ErrUnauthenticated,
		},
		{
			name:       "failure: store error",
			session:    "u1",
			repo:       &memoryRepository{DeleteErr: ErrDB},
			symbol:     "MSFT",
			wantResult: entity.ActionResult{Success: false, Error: "Failed to remove stock from watchlist."},
			wantErr:    usecase.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc, _ := newWatchlistUsecase(tt.repo, tt.session)
			got, err := uc.Remove(context.Background(), tt.symbol)

			assert.Equal(t, tt.wantResult, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestWatchlistUsecase_Remove_Twice は2回目の削除がNotFoundになることを検証します。
func TestWatchlistUsecase_Remove_Twice(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{}
	uc, _ := newWatchlistUsecase(repo, "u1")
	ctx := context.Background()

	_, err := uc.Add(ctx, "TSLA", "Tesla")
	require.NoError(t, err)

	first, err := uc.Remove(ctx, "TSLA")
	require.NoError(t, err)
	assert.True(t, first.Success)

	second, err := uc.Remove(ctx, "TSLA")
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	assert.False(t, second.Success)
}

// TestWatchlistUsecase_List は一覧の並び順と失敗時の空スライスを検証します。
func TestWatchlistUsecase_List(t *testing.T) {
	t.Parallel()

	t.Run("success: newest first, scoped to user", func(t *testing.T) {
		t.Parallel()
		repo := &memoryRepository{}
		uc, _ := newWatchlistUsecase(repo, "u1")
		other, _ := newWatchlistUsecase(repo, "u2")
		ctx := context.Background()

		for _, s := range []string{"AAPL", "MSFT", "NVDA"} {
			_, err := uc.Add(ctx, s, s+" Corp")
			require.NoError(t, err)
		}
		_, err := other.Add(ctx, "TSLA", "Tesla")
		require.NoError(t, err)

		items, err := uc.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "NVDA", items[0].Symbol)
		assert.Equal(t, "AAPL", items[2].Symbol)
	})

	t.Run("failure: store error yields empty slice", func(t *testing.T) {
		t.Parallel()
		uc, _ := newWatchlistUsecase(&memoryRepository{ListErr: ErrDB}, "u1")

		items, err := uc.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("failure: unauthenticated", func(t *testing.T) {
		t.Parallel()
		uc, _ := newWatchlistUsecase(&memoryRepository{}, "")

		items, err := uc.List(context.Background())
		assert.ErrorIs(t, err, usecase.ErrUnauthenticated)
		assert.Empty(t, items)
	})
}

// TestWatchlistUsecase_ListSymbolsByEmail はメールアドレスによる銘柄取得の各分岐を検証します。
func TestWatchlistUsecase_ListSymbolsByEmail(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{items: []entity.WatchlistItem{
		{UserID: "u1", Symbol: "AAPL"},
		{UserID: "u1", Symbol: "MSFT"},
		{UserID: "u2", Symbol: "TSLA"},
	}}

	tests := []struct {
		name   string
		email  string
		repo   *memoryRepository
		lookup func(ctx context.Context, email string) (*entity.Identity, error)
		want   []string
	}{
		{
			name:  "success: symbols of known user",
			email: "a@example.com",
			repo:  repo,
			lookup: func(_ context.Context, email string) (*entity.Identity, error) {
				return &entity.Identity{ID: "u1"}, nil
			},
			want: []string{"MSFT", "AAPL"},
		},
		{
			name:  "empty: blank email skips lookup",
			email: "  ",
			repo:  repo,
			lookup: func(context.Context, string) (*entity.Identity, error) {
				t.Fatal("lookup must not be called")
				return nil, nil
			},
			want: []string{},
		},
		{
			name:  "empty: unknown user",
			email: "ghost@example.com",
			repo:  repo,
			want:  []string{},
		},
		{
			name:  "empty: identity without id",
			email: "a@example.com",
			repo:  repo,
			lookup: func(context.Context, string) (*entity.Identity, error) {
				return &entity.Identity{}, nil
			},
			want: []string{},
		},
		{
			name:  "empty: lookup error",
			email: "a@example.com",
			repo:  repo,
			lookup: func(context.Context, string) (*entity.Identity, error) {
				return nil, ErrDB
			},
			want: []string{},
		},
		{
			name:  "empty: store error",
			email: "a@example.com",
			repo:  &memoryRepository{ListErr: ErrDB},
			lookup: func(context.Context, string) (*entity.Identity, error) {
				return &entity.Identity{ID: "u1"}, nil
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.NewWatchlistUsecase(tt.repo, &mockIdentityRepository{FindByEmailFunc: tt.lookup}, staticSession(""), nil)

			got := uc.ListSymbolsByEmail(context.Background(), tt.email)
			assert.Equal(t, tt.want, got)
		})
	}
}
