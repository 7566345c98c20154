// Command symbols prints the symbols watched by the user with the given e-mail, one per line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"watchlist_backend/internal/app/di"
	infradb "watchlist_backend/internal/platform/db"
	"watchlist_backend/internal/platform/logger"
)

func main() {
	email := flag.String("email", "", "user e-mail address (exact match)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	flush := logger.Setup()
	defer flush()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: symbols -email user@example.com")
		os.Exit(2)
	}

	db, err := infradb.OpenDB()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// 読み取りのみのため変更通知用のRedisは不要
	uc := di.NewWatchlistUsecase(db, nil)
	for _, s := range uc.ListSymbolsByEmail(ctx, *email) {
		fmt.Println(s)
	}
}
