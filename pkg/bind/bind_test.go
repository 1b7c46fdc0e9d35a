package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etuition/etuition-api/pkg/apperr"
	"github.com/etuition/etuition-api/pkg/bind"
)

type signup struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s signup) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Email, validation.Required, is.Email),
	)
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
}

func TestJSONValid(t *testing.T) {
	var in signup
	require.NoError(t, bind.JSON(post(`{"name":"Rafi","email":"rafi@x.com"}`), &in))
	assert.Equal(t, "Rafi", in.Name)
}

func TestJSONFieldErrors(t *testing.T) {
	var in signup
	err := bind.JSON(post(`{"email":"not-an-email"}`), &in)

	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindBadRequest, e.Kind)
	assert.Contains(t, e.Fields, "name")
	assert.Contains(t, e.Fields, "email")
}

func TestJSONMalformed(t *testing.T) {
	for _, body := range []string{"", "{", "[1,2]"} {
		var in signup
		err := bind.JSON(post(body), &in)
		assert.True(t, apperr.Is(err, apperr.KindBadRequest), "body %q", body)
	}
}

func TestMap(t *testing.T) {
	m, err := bind.Map(post(`{"subject":"Physics","salary":5000}`))
	require.NoError(t, err)
	assert.Equal(t, "Physics", m["subject"])
	assert.EqualValues(t, 5000, m["salary"])

	_, err = bind.Map(post(`{}`))
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}
