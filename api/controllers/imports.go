package controllers

import (
	"net/http"

	"github.com/quanganhtapcode/store/api/responses"
	"github.com/quanganhtapcode/store/api/validators"
	importsvc "github.com/quanganhtapcode/store/internal/imports"
	"github.com/quanganhtapcode/store/pkg/db/models"
	"github.com/quanganhtapcode/store/pkg/logger"
	"github.com/quanganhtapcode/store/pkg/pagination"
)

type importItemRequest struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type createImportRequest struct {
	Items     []importItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalCost int                 `json:"total_cost" validate:"gte=0"`
	Note      string              `json:"note"`
	Timestamp int64               `json:"timestamp"`
}

// CreateImport records a restock delivery.
func CreateImport(svc importsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createImportRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]models.ImportItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, models.ImportItem{ID: item.ID, Quantity: item.Quantity})
		}

		note, err := svc.Create(r.Context(), importsvc.CreateImportInput{
			Items:     items,
			TotalCost: payload.TotalCost,
			Note:      payload.Note,
			Timestamp: payload.Timestamp,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, map[string]any{
			"id":      note.ID,
			"success": true,
		})
	}
}

// ListImports returns recent restock deliveries.
func ListImports(svc importsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), pagination.Params{Limit: limit, Offset: offset})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
