package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/starnotary/foundation/web"
)

// BodyLimit caps the number of bytes a handler can read from the request
// body. Reads past the limit fail with an *http.MaxBytesError. A limit of
// zero or less leaves the body untouched.
func BodyLimit(limit int64) web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
