package mid

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/starnotary/business/sys/metrics"
	"github.com/ardanlabs/starnotary/foundation/web"
)

// Metrics updates program counters.
func Metrics() web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v, err := web.GetValues(ctx)
			if err != nil {
				return web.NewShutdownError("web value missing from context")
			}

			// Call the next handler.
			err = handler(ctx, w, r)

			// The error middleware sits above this one and has not written
			// the status yet.
			status := strconv.Itoa(v.StatusCode)
			if err != nil {
				metrics.AddError()
				status = "error"
			}

			metrics.AddRequest(r.Method, v.Route, status, time.Since(v.Now).Seconds())

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return m
}
