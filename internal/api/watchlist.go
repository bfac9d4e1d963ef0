package api

import (
	"net/http"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/httputil"
	"onlinemart-be/internal/watchlist"
)

type WatchlistHandler struct {
	watchlists watchlist.Service
}

func NewWatchlistHandler(watchlists watchlist.Service) *WatchlistHandler {
	return &WatchlistHandler{watchlists: watchlists}
}

type watchlistAddRequest struct {
	ProductID int64 `json:"productId"`
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req watchlistAddRequest
	if err := decodeBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.ProductID <= 0 {
		httputil.WriteError(w, apperr.Validation("Validation failed",
			[]string{"productId: must be positive"}))
		return
	}

	if err := h.watchlists.Add(r.Context(), userID, req.ProductID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r, "productId")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.watchlists.Remove(r.Context(), userID, productID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	products, err := h.watchlists.List(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProductSummaries(products))
}
