package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/starnotary/business/web/errs"
	"github.com/ardanlabs/starnotary/foundation/blockchain/challenge"
	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
	"github.com/ardanlabs/starnotary/foundation/blockchain/state"
	"github.com/stretchr/testify/require"
)

func TestFromSubmit(t *testing.T) {
	tt := []struct {
		err    error
		status int
		reason string
	}{
		{fmt.Errorf("parse: %w", challenge.ErrMalformed), http.StatusBadRequest, "malformed"},
		{challenge.ErrExpired, http.StatusUnauthorized, "expired"},
		{challenge.ErrMismatch, http.StatusUnauthorized, "mismatch"},
		{challenge.ErrReused, http.StatusUnauthorized, "reused"},
		{state.ErrInvalidSignature, http.StatusUnauthorized, "signature"},
		{&database.ChainIntegrityError{Errors: []string{"Block 2 is not valid."}}, http.StatusInternalServerError, "integrity"},
	}

	for _, tst := range tt {
		t.Run(tst.reason, func(t *testing.T) {
			err := errs.FromSubmit(tst.err)

			trusted := errs.GetTrusted(err)
			require.NotNil(t, trusted)
			require.Equal(t, tst.status, trusted.Status)
			require.Equal(t, tst.reason, errs.Reason(tst.err))
		})
	}

	other := errors.New("disk full")
	require.False(t, errs.IsTrusted(errs.FromSubmit(other)))
	require.Equal(t, "other", errs.Reason(other))
}

func TestFromDecode(t *testing.T) {
	tooLarge := fmt.Errorf("unable to decode payload: %w", &http.MaxBytesError{Limit: 10})
	require.Equal(t, http.StatusRequestEntityTooLarge, errs.GetTrusted(errs.FromDecode(tooLarge)).Status)

	bad := errors.New("unable to decode payload: unexpected EOF")
	require.Equal(t, http.StatusBadRequest, errs.GetTrusted(errs.FromDecode(bad)).Status)
}
