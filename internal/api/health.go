package api

import (
	"net/http"

	"onlinemart-be/internal/httputil"
	"onlinemart-be/internal/metrics"
)

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	RequestsTotal uint64 `json:"requestsTotal"`
	OrdersPlaced  uint64 `json:"ordersPlaced"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(metrics.Uptime().Seconds()),
		RequestsTotal: metrics.Requests.Load(),
		OrdersPlaced:  metrics.OrdersPlaced.Load(),
	})
}
