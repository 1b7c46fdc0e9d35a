package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etuition/etuition-api/pkg/apperr"
	"github.com/etuition/etuition-api/pkg/response"
)

func fail(t *testing.T, err error) (int, response.ErrorBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	response.Fail(rec, httptest.NewRequest(http.MethodGet, "/x", nil), err)

	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec.Code, body
}

func TestFailClassified(t *testing.T) {
	code, body := fail(t, apperr.NotFound("Cant Find this id"))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Cant Find this id", body.Message)
}

func TestFailHidesInternalCause(t *testing.T) {
	code, body := fail(t, errors.New("connection refused 10.0.0.3:27017"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Server error", body.Message)
}

func TestFailIncludesFieldErrors(t *testing.T) {
	code, body := fail(t, apperr.Invalid("Validation failed", map[string]string{"email": "cannot be blank"}))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "cannot be blank", body.Errors["email"])
}

func TestFailUpstream(t *testing.T) {
	code, body := fail(t, apperr.Upstream("Payment processor error", errors.New("card_declined")))
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "Payment processor error", body.Message)
}
