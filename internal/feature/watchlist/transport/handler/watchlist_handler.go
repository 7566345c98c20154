// Package handler はwatchlistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"watchlist_backend/internal/api"
	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/transport/http/dto"
	"watchlist_backend/internal/feature/watchlist/transport/view"
	"watchlist_backend/internal/feature/watchlist/usecase"
	jwtmw "watchlist_backend/internal/platform/jwt"
)

// APIPath is the JSON collection path the page script talks to.
const APIPath = "/api/watchlist"

// WatchlistUsecase は銘柄の追加・削除を行うユースケースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type WatchlistUsecase interface {
	Add(ctx context.Context, symbol, company string) (entity.ActionResult, error)
	Remove(ctx context.Context, symbol string) (entity.ActionResult, error)
}

// EnrichUsecase は市場データ付きのウォッチリストを返すユースケースです。
type EnrichUsecase interface {
	WatchlistWithData(ctx context.Context) ([]entity.StockRow, error)
}

// WatchlistHandler はウォッチリストのJSON APIとHTMLページを処理します。
type WatchlistHandler struct {
	watchlist WatchlistUsecase
	enrich    EnrichUsecase
}

// NewWatchlistHandler は新しい WatchlistHandler を作成します。
func NewWatchlistHandler(watchlist WatchlistUsecase, enrich EnrichUsecase) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist, enrich: enrich}
}

// statusFor maps a usecase error to an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, usecase.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// List は市場データ付きのウォッチリストをJSONで返します。
func (h *WatchlistHandler) List(c *gin.Context) {
	rows, err := h.enrich.WatchlistWithData(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: "authentication required"})
		return
	}
	c.JSON(http.StatusOK, dto.FromStockRows(rows))
}

// Add は銘柄をウォッチリストに追加します。
// - 新規追加は201、既に登録済みの場合は200
// - 入力不備は400、ストア障害は500
func (h *WatchlistHandler) Add(c *gin.Context) {
	var req dto.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("add to watchlist: invalid body", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, entity.ActionResult{Success: false, Error: "Invalid request body."})
		return
	}

	res, err := h.watchlist.Add(c.Request.Context(), req.Symbol, req.Company)
	if err != nil {
		c.JSON(statusFor(err), res)
		return
	}
	if res.Message != "" {
		c.JSON(http.StatusOK, res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Remove はパスパラメータのシンボルをウォッチリストから削除します。
func (h *WatchlistHandler) Remove(c *gin.Context) {
	var symbol string
	err := runtime.BindStyledParameterWithOptions("simple", "symbol", c.Param("symbol"), &symbol, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ActionResult{Success: false, Error: "Stock symbol is required."})
		return
	}

	res, err := h.watchlist.Remove(c.Request.Context(), symbol)
	c.JSON(statusFor(err), res)
}

// Page はウォッチリストをHTMLテーブルとして描画します。
func (h *WatchlistHandler) Page(c *gin.Context) {
	rows, err := h.enrich.WatchlistWithData(c.Request.Context())
	if errors.Is(err, usecase.ErrUnauthenticated) {
		c.Redirect(http.StatusSeeOther, jwtmw.SignInPath)
		return
	}
	h.render(c, http.StatusOK, view.Page{Table: view.NewTable(rows), APIPath: APIPath})
}

// PageRemove はスクリプトなしのフォーム送信による削除を処理します。
// 削除を先に行い、削除後の一覧を1回だけ取得して描画します。
func (h *WatchlistHandler) PageRemove(c *gin.Context) {
	ctx := c.Request.Context()
	symbol := strings.ToUpper(strings.TrimSpace(c.PostForm("symbol")))
	res, removeErr := h.watchlist.Remove(ctx, symbol)
	if errors.Is(removeErr, usecase.ErrUnauthenticated) {
		c.Redirect(http.StatusSeeOther, jwtmw.SignInPath)
		return
	}

	rows, err := h.enrich.WatchlistWithData(ctx)
	if errors.Is(err, usecase.ErrUnauthenticated) {
		c.Redirect(http.StatusSeeOther, jwtmw.SignInPath)
		return
	}

	table := view.NewTable(rows)
	status := http.StatusOK
	if res.Success {
		// 一覧取得と削除が競合しても削除済みの行は表示しない
		table.HandleWatchlistChange(symbol, false)
	} else {
		status = statusFor(removeErr)
	}
	h.render(c, status, view.Page{Table: table, Flash: res.Error, APIPath: APIPath})
}

func (h *WatchlistHandler) render(c *gin.Context, status int, page view.Page) {
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := page.Render(c.Writer); err != nil {
		slog.Error("failed to render watchlist page", "error", err)
	}
}
