package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quanganhtapcode/store/api/responses"
	"github.com/quanganhtapcode/store/api/validators"
	ordersvc "github.com/quanganhtapcode/store/internal/orders"
	"github.com/quanganhtapcode/store/pkg/db/models"
	"github.com/quanganhtapcode/store/pkg/enums"
	pkgerrors "github.com/quanganhtapcode/store/pkg/errors"
	"github.com/quanganhtapcode/store/pkg/logger"
	"github.com/quanganhtapcode/store/pkg/pagination"
)

type orderItemRequest struct {
	ID           string `json:"id" validate:"required"`
	DisplayName  string `json:"displayName"`
	Quantity     int    `json:"quantity" validate:"gt=0"`
	SaleType     string `json:"saleType" validate:"omitempty,oneof=unit case"`
	UnitsPerCase int    `json:"units_per_case"`
	FinalPrice   int    `json:"finalPrice"`
	Price        int    `json:"price"`
}

func (i orderItemRequest) toSnapshot() models.ItemSnapshot {
	return models.ItemSnapshot{
		ID:           i.ID,
		DisplayName:  i.DisplayName,
		Quantity:     i.Quantity,
		SaleType:     enums.SaleType(i.SaleType),
		UnitsPerCase: i.UnitsPerCase,
		FinalPrice:   i.FinalPrice,
		Price:        i.Price,
	}
}

type createOrderRequest struct {
	Items         []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Total         int                `json:"total" validate:"gte=0"`
	CustomerName  string             `json:"customer_name"`
	PaymentMethod string             `json:"payment_method"`
	Note          string             `json:"note"`
	Timestamp     int64              `json:"timestamp"`
}

// CreateOrder handles checkout.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]models.ItemSnapshot, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, item.toSnapshot())
		}

		result, err := svc.Create(r.Context(), ordersvc.CreateOrderInput{
			Items:         items,
			Total:         payload.Total,
			CustomerName:  payload.CustomerName,
			PaymentMethod: payload.PaymentMethod,
			Note:          payload.Note,
			Timestamp:     payload.Timestamp,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, map[string]any{
			"id":         result.ID,
			"order_code": result.OrderCode,
			"success":    true,
		})
	}
}

// ListOrders returns a ledger page, optionally bounded by startDate/endDate.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		startTS, err := validators.ParseQueryMillis(r, "startDate")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		endTS, err := validators.ParseQueryMillis(r, "endDate")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), ordersvc.ListOrdersInput{
			StartTS: startTS,
			EndTS:   endTS,
			Page:    pagination.Params{Limit: limit, Offset: offset},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// GetOrder returns one ledger row.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// GetOrderItems returns the normalized line items of one order.
func GetOrderItems(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.GetItems(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"data": items})
	}
}

type updateOrderRequest struct {
	CustomerName  *string            `json:"customer_name"`
	PaymentMethod *string            `json:"payment_method"`
	Status        *string            `json:"status" validate:"omitempty,oneof=completed pending cancelled"`
	Note          *string            `json:"note"`
	Items         []orderItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	Total         *int               `json:"total" validate:"omitempty,gte=0"`
}

// UpdateOrder applies a partial patch to a ledger row.
func UpdateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch := ordersvc.UpdateOrderInput{
			CustomerName:  payload.CustomerName,
			PaymentMethod: payload.PaymentMethod,
			Note:          payload.Note,
			Total:         payload.Total,
		}
		if payload.Status != nil {
			status, err := enums.ParseOrderStatus(*payload.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
				return
			}
			patch.Status = &status
		}
		if payload.Items != nil {
			items := make([]models.ItemSnapshot, 0, len(payload.Items))
			for _, item := range payload.Items {
				items = append(items, item.toSnapshot())
			}
			patch.Items = items
		}

		if err := svc.Update(r.Context(), id, patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"success": true})
	}
}

// CancelOrder flips the row to cancelled and restocks, keeping it auditable.
func CancelOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Cancel(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"success": true})
	}
}

// DeleteOrder erases the row after restoring its inventory effect.
func DeleteOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"success": true})
	}
}

func orderIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a positive integer")
	}
	return id, nil
}
