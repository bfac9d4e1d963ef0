package api

import (
	"net/http"

	"onlinemart-be/internal/apperr"
	"onlinemart-be/internal/httputil"
	"onlinemart-be/internal/product"

	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	products product.Service
}

func NewProductHandler(products product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

// Pointer fields distinguish "absent" from "zero" in both create (all
// required) and update (all optional) payloads.
type productCreateRequest struct {
	Description    *string          `json:"description"`
	WholesalePrice *decimal.Decimal `json:"wholesalePrice"`
	RetailPrice    *decimal.Decimal `json:"retailPrice"`
	StockQuantity  *int             `json:"stockQuantity"`
}

type productUpdateRequest struct {
	Description    *string          `json:"description"`
	WholesalePrice *decimal.Decimal `json:"wholesalePrice"`
	RetailPrice    *decimal.Decimal `json:"retailPrice"`
	StockQuantity  *int             `json:"stockQuantity"`
}

func (h *ProductHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListAvailable(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProductSummaries(products))
}

func (h *ProductHandler) GetForBuyer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.products.GetForBuyer(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProductSummary(p))
}

func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]adminProductDetail, 0, len(products))
	for _, p := range products {
		out = append(out, toAdminProductDetail(p))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *ProductHandler) GetForAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.products.GetForAdmin(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAdminProductDetail(p))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productCreateRequest
	if err := decodeBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var details []string
	if req.Description == nil {
		details = append(details, "description: is required")
	}
	if req.WholesalePrice == nil {
		details = append(details, "wholesalePrice: is required")
	}
	if req.RetailPrice == nil {
		details = append(details, "retailPrice: is required")
	}
	if req.StockQuantity == nil {
		details = append(details, "stockQuantity: is required")
	}
	if len(details) > 0 {
		httputil.WriteError(w, apperr.Validation("Validation failed", details))
		return
	}

	p, err := h.products.Create(r.Context(), product.CreateInput{
		Description:    *req.Description,
		WholesalePrice: *req.WholesalePrice,
		RetailPrice:    *req.RetailPrice,
		StockQuantity:  *req.StockQuantity,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toAdminProductDetail(p))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req productUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.products.Update(r.Context(), id, product.UpdateInput{
		Description:    req.Description,
		WholesalePrice: req.WholesalePrice,
		RetailPrice:    req.RetailPrice,
		StockQuantity:  req.StockQuantity,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAdminProductDetail(p))
}
