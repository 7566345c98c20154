package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
)

// WatchlistRepository abstracts the persistence layer for watchlist items.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type WatchlistRepository interface {
	// Exists reports whether the user already watches the symbol.
	Exists(ctx context.Context, userID, symbol string) (bool, error)
	// Create inserts a new item. It returns ErrAlreadyExists on a (user, symbol) conflict.
	Create(ctx context.Context, item *entity.WatchlistItem) error
	// Delete removes the (user, symbol) item and returns the number of deleted rows.
	Delete(ctx context.Context, userID, symbol string) (int64, error)
	// ListByUser returns the user's items, most recently added first.
	ListByUser(ctx context.Context, userID string) ([]entity.WatchlistItem, error)
	// ListSymbols returns only the symbols the user watches.
	ListSymbols(ctx context.Context, userID string) ([]string, error)
}

// IdentityRepository resolves users outside of a session.
type IdentityRepository interface {
	// FindByEmail returns the identity with exactly this e-mail, or ErrIdentityNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.Identity, error)
}

// SessionReader supplies the current authenticated user.
type SessionReader interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// ChangeNotifier signals that a user's watchlist changed so rendered views revalidate.
type ChangeNotifier interface {
	NotifyChanged(ctx context.Context, userID string) error
}

// WatchlistUsecase is the store accessor for watchlist items.
// Every session-bound operation is scoped to the current user's id.
type WatchlistUsecase struct {
	repo       WatchlistRepository
	identities IdentityRepository
	session    SessionReader
	notifier   ChangeNotifier
	now        func() time.Time
}

// NewWatchlistUsecase creates a WatchlistUsecase. notifier may be nil.
func NewWatchlistUsecase(repo WatchlistRepository, identities IdentityRepository, session SessionReader, notifier ChangeNotifier) *WatchlistUsecase {
	return &WatchlistUsecase{
		repo:       repo,
		identities: identities,
		session:    session,
		notifier:   notifier,
		now:        time.Now,
	}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// currentUser resolves the session user or returns ErrUnauthenticated.
func (u *WatchlistUsecase) currentUser(ctx context.Context) (string, error) {
	id, err := u.session.CurrentUserID(ctx)
	if err != nil || id == "" {
		return "", ErrUnauthenticated
	}
	return id, nil
}

// notify is best effort; a lost signal only delays revalidation of other views.
func (u *WatchlistUsecase) notify(ctx context.Context, userID string) {
	if u.notifier == nil {
		return
	}
	if err := u.notifier.NotifyChanged(ctx, userID); err != nil {
		slog.Warn("failed to publish watchlist change", "user_id", userID, "error", err)
	}
}

func unauthenticatedResult() entity.ActionResult {
	return entity.ActionResult{Success: false, Error: "Authentication required."}
}

// Add puts symbol on the current user's watchlist.
// Re-adding an existing symbol succeeds with an informational message.
// The returned error classifies failures; the result is always populated.
func (u *WatchlistUsecase) Add(ctx context.Context, symbol, company string) (entity.ActionResult, error) {
	userID, err := u.currentUser(ctx)
	if err != nil {
		return unauthenticatedResult(), err
	}

	symbol = normalizeSymbol(symbol)
	company = strings.TrimSpace(company)
	if symbol == "" {
		return entity.ActionResult{Success: false, Error: msgSymbolRequired}, ErrValidation
	}
	if company == "" {
		return entity.ActionResult{Success: false, Error: msgCompanyRequired}, ErrValidation
	}

	exists, err := u.repo.Exists(ctx, userID, symbol)
	if err != nil {
		slog.Error("addToWatchlist: existence check failed", "user_id", userID, "symbol", symbol, "error", err)
		return entity.ActionResult{Success: false, Error: msgAddFailed}, ErrStoreUnavailable
	}
	if exists {
		return entity.ActionResult{Success: true, Message: msgAlreadyExists}, nil
	}

	item := &entity.WatchlistItem{
		UserID:  userID,
		Symbol:  symbol,
		Company: company,
		AddedAt: u.now(),
	}
	if err := u.repo.Create(ctx, item); err != nil {
		// 同時に同じ銘柄が追加された場合はユニーク制約で弾かれる
		if errors.Is(err, ErrAlreadyExists) {
			return entity.ActionResult{Success: true, Message: msgAlreadyExists}, nil
		}
		slog.Error("addToWatchlist: insert failed", "user_id", userID, "symbol", symbol, "error", err)
		return entity.ActionResult{Success: false, Error: msgAddFailed}, ErrStoreUnavailable
	}

	u.notify(ctx, userID)
	return entity.ActionResult{Success: true}, nil
}

// Remove deletes symbol from the current user's watchlist.
func (u *WatchlistUsecase) Remove(ctx context.Context, symbol string) (entity.ActionResult, error) {
	userID, err := u.currentUser(ctx)
	if err != nil {
		return unauthenticatedResult(), err
	}

	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return entity.ActionResult{Success: false, Error: msgSymbolRequired}, ErrValidation
	}

	deleted, err := u.repo.Delete(ctx, userID, symbol)
	if err != nil {
		slog.Error("removeFromWatchlist: delete failed", "user_id", userID, "symbol", symbol, "error", err)
		return entity.ActionResult{Success: false, Error: msgRemoveFailed}, ErrStoreUnavailable
	}

	u.notify(ctx, userID)

	if deleted == 0 {
		return entity.ActionResult{Success: false, Error: msgNotFound}, ErrNotFound
	}
	return entity.ActionResult{Success: true}, nil
}

// List returns the current user's items, most recently added first.
// Store failures are logged and yield an empty slice; the error only reports ErrUnauthenticated.
func (u *WatchlistUsecase) List(ctx context.Context) ([]entity.WatchlistItem, error) {
	userID, err := u.currentUser(ctx)
	if err != nil {
		return []entity.WatchlistItem{}, err
	}

	items, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		slog.Error("getUserWatchlist failed", "user_id", userID, "error", err)
		return []entity.WatchlistItem{}, nil
	}
	if items == nil {
		items = []entity.WatchlistItem{}
	}
	return items, nil
}

// ListSymbolsByEmail returns the symbols watched by the user with this e-mail.
// It needs no session and never fails: unknown users and internal errors yield an empty slice.
func (u *WatchlistUsecase) ListSymbolsByEmail(ctx context.Context, email string) []string {
	if strings.TrimSpace(email) == "" {
		return []string{}
	}

	identity, err := u.identities.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrIdentityNotFound) {
			slog.Error("getWatchlistSymbolsByEmail: identity lookup failed", "email", email, "error", err)
		}
		return []string{}
	}
	if identity == nil || identity.ID == "" {
		return []string{}
	}

	symbols, err := u.repo.ListSymbols(ctx, identity.ID)
	if err != nil {
		slog.Error("getWatchlistSymbolsByEmail failed", "email", email, "error", err)
		return []string{}
	}
	if symbols == nil {
		symbols = []string{}
	}
	return symbols
}
