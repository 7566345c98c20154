package router

import (
	"github.com/gin-gonic/gin"

	authhandler "watchlist_backend/internal/feature/auth/transport/handler"
	watchlisthandler "watchlist_backend/internal/feature/watchlist/transport/handler"
	healthhandler "watchlist_backend/internal/platform/http/handler"
	jwtmw "watchlist_backend/internal/platform/jwt"
)

func NewRouter(authHandler *authhandler.AuthHandler, watchlist *watchlisthandler.WatchlistHandler,
	health *healthhandler.HealthHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", health.Live)
	r.HEAD("/healthz", health.Live)
	r.GET("/readyz", health.Ready)
	// 新規ユーザー登録
	r.POST("/signup", authHandler.Signup)
	// ログイン（JWT 発行、Cookieにも設定）
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// JSON API: 未認証は401
	api := r.Group("/api")
	api.Use(jwtmw.AuthRequired())
	{
		api.GET("/watchlist", watchlist.List)
		api.POST("/watchlist", watchlist.Add)
		api.DELETE("/watchlist/:symbol", watchlist.Remove)
	}

	// HTMLページ: 未認証は/sign-inへリダイレクト
	pages := r.Group("/")
	pages.Use(jwtmw.PageAuthRequired())
	{
		pages.GET("/watchlist", watchlist.Page)
		pages.POST("/watchlist/remove", watchlist.PageRemove)
	}

	return r
}
