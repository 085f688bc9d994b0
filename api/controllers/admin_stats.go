package controllers

import (
	"net/http"

	"github.com/solenne-shop/solenne-backend/api/responses"
	statssvc "github.com/solenne-shop/solenne-backend/internal/stats"
	pkgerrors "github.com/solenne-shop/solenne-backend/pkg/errors"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
)

// AdminDashboardStats serves the back-office landing-page counters.
func AdminDashboardStats(svc statssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
