package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/solenne-shop/solenne-backend/api/responses"
	pkgerrors "github.com/solenne-shop/solenne-backend/pkg/errors"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
)

// Pinger is anything the readiness probe should verify.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Live reports process liveness only.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Ready verifies the backing services before reporting healthy.
func Ready(logg *logger.Logger, pingers map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		for name, pinger := range pingers {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				checks[name] = err.Error()
			}
		}

		if len(checks) > 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").
				WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
