package jwtmw

import (
	"context"
	"errors"
)

// ErrNoSession は認証済みユーザーがコンテキストに存在しない場合に返されます。
var ErrNoSession = errors.New("no authenticated session")

type userIDKey struct{}

// WithUserID はユーザーIDを格納した子コンテキストを返します。
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext はミドルウェアが格納したユーザーIDを取り出します。
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// ContextSession はリクエストコンテキストから現在のユーザーを読み取るセッションリーダーです。
type ContextSession struct{}

// CurrentUserID は認証済みユーザーのIDを返します。未認証の場合はErrNoSessionを返します。
func (ContextSession) CurrentUserID(ctx context.Context) (string, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return "", ErrNoSession
	}
	return id, nil
}
