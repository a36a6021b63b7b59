package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcloud/dynamicmenu/internal/shared"
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) Result {
	t.Helper()
	var body Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestOKEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	OK(rr, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	body := decodeEnvelope(t, rr)
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "OK", body.Message)
	assert.NotNil(t, body.Data)
}

func TestFailEnvelopeMirrorsStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	Fail(rr, http.StatusConflict, "duplicate entry")

	assert.Equal(t, http.StatusConflict, rr.Code)
	body := decodeEnvelope(t, rr)
	assert.Equal(t, http.StatusConflict, body.Code)
	assert.Equal(t, "duplicate entry", body.Message)
	assert.Nil(t, body.Data)
}

func TestRespondErrorMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"invalid credentials": {err: shared.ErrInvalidCredentials, status: http.StatusUnauthorized},
		"not found":           {err: shared.ErrNotFound, status: http.StatusNotFound},
		"duplicate":           {err: shared.ErrDuplicate, status: http.StatusConflict},
		"validation":          {err: shared.ErrValidation, status: http.StatusBadRequest},
		"wrapped validation":  {err: fmt.Errorf("%w: role code required", shared.ErrValidation), status: http.StatusBadRequest},
		"unknown":             {err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondError(rr, tc.err)

			assert.Equal(t, tc.status, rr.Code)
			body := decodeEnvelope(t, rr)
			assert.Equal(t, tc.status, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("pq: connection refused on 10.0.0.5"))

	body := decodeEnvelope(t, rr)
	assert.Equal(t, "internal error", body.Message)
	assert.NotContains(t, rr.Body.String(), "10.0.0.5")
}
