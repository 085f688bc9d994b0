package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/solenne-shop/solenne-backend/api/middleware"
	"github.com/solenne-shop/solenne-backend/api/responses"
	"github.com/solenne-shop/solenne-backend/api/validators"
	ordersvc "github.com/solenne-shop/solenne-backend/internal/orders"
	"github.com/solenne-shop/solenne-backend/pkg/enums"
	pkgerrors "github.com/solenne-shop/solenne-backend/pkg/errors"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
)

// AdminListOrders serves the back-office orders listing. The meta block's
// estimated flag is set when the count query missed its deadline.
func AdminListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := parseOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meta := params.Meta(result.Total)
		meta.Estimated = result.TotalEstimated
		responses.WriteSuccessPage(w, result.Orders, meta)
	}
}

func AdminGetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := uuidURLParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func AdminUpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := uuidURLParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload ordersvc.UpdateStatusInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actorID *uuid.UUID
		if raw := middleware.AdminIDFromContext(r.Context()); raw != "" {
			if parsed, err := uuid.Parse(raw); err == nil {
				actorID = &parsed
			}
		}

		detail, err := svc.UpdateStatus(r.Context(), id, actorID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func AdminDeleteOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := uuidURLParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseOrderFilters(r *http.Request) (ordersvc.ListFilters, error) {
	q := r.URL.Query()
	filters := ordersvc.ListFilters{
		Search: validators.SanitizeString(q.Get("search"), 200),
	}

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return ordersvc.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(q.Get("paymentStatus")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return ordersvc.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status filter")
		}
		filters.PaymentStatus = &status
	}

	field, desc, err := parseOrderSort(q.Get("sort"), q.Get("dir"))
	if err != nil {
		return ordersvc.ListFilters{}, err
	}
	filters.SortField = field
	filters.SortDesc = desc

	return filters, nil
}

// parseOrderSort reads the field-direction pair form ("createdAt-desc") and
// the bare field with an optional dir parameter. An empty sort keeps the
// repository default of newest first.
func parseOrderSort(sortParam, dirParam string) (string, bool, error) {
	field := strings.TrimSpace(sortParam)
	direction := strings.ToLower(strings.TrimSpace(dirParam))
	if i := strings.LastIndex(field, "-"); i >= 0 {
		field, direction = field[:i], strings.ToLower(field[i+1:])
	}

	switch field {
	case "", "createdAt", "total":
	default:
		return "", false, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort field")
	}
	switch direction {
	case "", "asc", "desc":
	default:
		return "", false, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort direction")
	}
	return field, direction == "desc", nil
}
