// Package logger はアプリケーション全体で使用する構造化ロガーを構築します。
package logger

import (
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

// EnvKeyEnvironment は実行環境（development / production）を指定する環境変数名です。
const EnvKeyEnvironment = "ENVIRONMENT"

// New はzapをバックエンドとするslog.Loggerを生成します。
// ENVIRONMENT=development の場合は人が読みやすい開発用エンコーダを、それ以外はJSONの本番用エンコーダを使用します。
func New(environment string) (*slog.Logger, func(), error) {
	var (
		z   *zap.Logger
		err error
	)
	if environment == "development" {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}

	flush := func() { _ = z.Sync() }
	return slog.New(zapslog.NewHandler(z.Core())), flush, nil
}

// Setup はENVIRONMENTを読み取ってロガーを構築し、slogのデフォルトに設定します。
// 構築に失敗した場合は標準のテキストハンドラにフォールバックします。
func Setup() func() {
	l, flush, err := New(os.Getenv(EnvKeyEnvironment))
	if err != nil {
		slog.Warn("failed to build zap logger, falling back to text handler", "error", err)
		return func() {}
	}
	slog.SetDefault(l)
	return flush
}
