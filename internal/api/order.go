package api

import (
	"net/http"
	"strconv"

	"onlinemart-be/internal/httputil"
	"onlinemart-be/internal/order"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderRequest struct {
	Items []order.ItemInput `json:"items"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := decodeBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	o, err := h.orders.Create(r.Context(), buyerID, req.Items)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toBuyerOrderDetail(o))
}

func (h *OrderHandler) ListForBuyer(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListForBuyer(r.Context(), buyerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]buyerOrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, buyerOrderSummary{ID: o.ID, PlacedAt: o.PlacedAt, Status: o.Status})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) GetForBuyer(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "orderId")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	o, err := h.orders.GetForBuyer(r.Context(), buyerID, orderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toBuyerOrderDetail(o))
}

func (h *OrderHandler) CancelForBuyer(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "orderId")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	o, err := h.orders.CancelForBuyer(r.Context(), buyerID, orderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, orderStatusResponse{OrderID: o.ID, Status: o.Status})
}

func (h *OrderHandler) TopPurchased(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	items, err := h.orders.TopPurchasedItems(r.Context(), buyerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]productFrequency, 0, len(items))
	for _, it := range items {
		out = append(out, productFrequency{
			ProductID:     it.ProductID,
			Description:   it.Description,
			TotalQuantity: it.Quantity,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) RecentPurchased(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	items, err := h.orders.RecentPurchasedItems(r.Context(), buyerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]recentPurchase, 0, len(items))
	for _, it := range items {
		out = append(out, recentPurchase{
			ProductID:       it.ProductID,
			Description:     it.Description,
			LastPurchasedAt: it.LastPurchasedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) ListForAdmin(w http.ResponseWriter, r *http.Request) {
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	orders, err := h.orders.ListForAdmin(r.Context(), page)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]adminOrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, adminOrderSummary{
			ID:            o.ID,
			PlacedAt:      o.PlacedAt,
			Status:        o.Status,
			BuyerUsername: o.BuyerUsername,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) GetForAdmin(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	o, err := h.orders.GetForAdmin(r.Context(), orderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAdminOrderDetail(o))
}

func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	o, err := h.orders.Complete(r.Context(), orderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, orderStatusResponse{OrderID: o.ID, Status: o.Status})
}

func (h *OrderHandler) CancelForAdmin(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	o, err := h.orders.CancelForAdmin(r.Context(), orderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, orderStatusResponse{OrderID: o.ID, Status: o.Status})
}

func (h *OrderHandler) MostProfitable(w http.ResponseWriter, r *http.Request) {
	p, err := h.orders.MostProfitableProduct(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mostProfitableProduct{
		ProductID:   p.ProductID,
		Description: p.Description,
		Profit:      p.Profit,
	})
}

func (h *OrderHandler) TopPopular(w http.ResponseWriter, r *http.Request) {
	items, err := h.orders.TopPopularProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]popularProduct, 0, len(items))
	for _, it := range items {
		out = append(out, popularProduct{
			ProductID:     it.ProductID,
			Description:   it.Description,
			TotalQuantity: it.Quantity,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) TotalSold(w http.ResponseWriter, r *http.Request) {
	total, err := h.orders.TotalItemsSold(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, totalItemsSold{TotalItemsSold: total})
}
