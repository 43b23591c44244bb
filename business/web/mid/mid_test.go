package mid_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/starnotary/business/sys/validate"
	"github.com/ardanlabs/starnotary/business/web/errs"
	"github.com/ardanlabs/starnotary/business/web/mid"
	"github.com/ardanlabs/starnotary/foundation/web"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp(h web.Handler, mw ...web.Middleware) *web.App {
	log := zap.NewNop().Sugar()

	app := web.NewApp(
		make(chan os.Signal, 1),
		mid.Logger(log),
		mid.Errors(log),
		mid.Metrics(),
		mid.Cors("*"),
		mid.Panics(),
	)
	app.Handle(http.MethodPost, "v1", "/test", h, mw...)

	return app
}

func serve(app *web.App, remoteAddr string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/v1/test", nil)
	r.RemoteAddr = remoteAddr

	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)

	return w
}

func TestErrors(t *testing.T) {
	tt := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "trusted",
			err:    errs.NewTrusted(errors.New("challenge expired"), http.StatusUnauthorized),
			status: http.StatusUnauthorized,
			body:   `{"error":"challenge expired"}`,
		},
		{
			name:   "fields",
			err:    validate.FieldErrors{{Field: "address", Error: "address is a required field"}},
			status: http.StatusBadRequest,
			body:   `{"error":"data validation error","fields":{"address":"address is a required field"}}`,
		},
		{
			name:   "untrusted",
			err:    errors.New("disk on fire"),
			status: http.StatusInternalServerError,
			body:   `{"error":"Internal Server Error"}`,
		},
	}

	for _, tst := range tt {
		t.Run(tst.name, func(t *testing.T) {
			h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return tst.err
			}

			w := serve(newApp(h), "10.0.0.1:1234")
			require.Equal(t, tst.status, w.Code)
			require.JSONEq(t, tst.body, w.Body.String())
			require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestPanics(t *testing.T) {
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	}

	w := serve(newApp(h), "10.0.0.1:1234")
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRateLimit(t *testing.T) {
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	app := newApp(h, mid.RateLimit(0.001, 2))

	require.Equal(t, http.StatusNoContent, serve(app, "10.0.0.1:1234").Code)
	require.Equal(t, http.StatusNoContent, serve(app, "10.0.0.1:5678").Code)

	w := serve(app, "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "1", w.Header().Get("Retry-After"))

	require.Equal(t, http.StatusNoContent, serve(app, "10.0.0.2:1234").Code)
}

func TestBodyLimit(t *testing.T) {
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var v struct {
			Star string `json:"star"`
		}
		if err := web.Decode(r, &v); err != nil {
			return errs.FromDecode(err)
		}
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	app := newApp(h, mid.BodyLimit(32))

	send := func(body string) int {
		r := httptest.NewRequest(http.MethodPost, "/v1/test", strings.NewReader(body))
		w := httptest.NewRecorder()
		app.ServeHTTP(w, r)
		return w.Code
	}

	require.Equal(t, http.StatusNoContent, send(`{"star":"Polaris"}`))
	require.Equal(t, http.StatusRequestEntityTooLarge, send(`{"star":"`+strings.Repeat("a", 64)+`"}`))
}
