package controllers

import (
	"net/http"

	"github.com/quanganhtapcode/store/api/responses"
	statsvc "github.com/quanganhtapcode/store/internal/stats"
	"github.com/quanganhtapcode/store/pkg/logger"
)

// GetStats serves the cached dashboard snapshot.
func GetStats(svc statsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.GetStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// MonthlyProducts serves the current month's per-product sales.
func MonthlyProducts(svc statsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.MonthlyProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"data": rows})
	}
}
