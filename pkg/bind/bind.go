// Package bind decodes and validates an HTTP request body.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/etuition/etuition-api/config"
	"github.com/etuition/etuition-api/pkg/apperr"
)

const defaultMaxBody = 1 << 20

func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultMaxBody
	}
	return n
}

// JSON decodes r.Body into dest. If dest implements validation.Validatable
// its rules run after decoding and field failures come back as an
// apperr BadRequest with per-field messages.
func JSON(r *http.Request, dest interface{}) error {
	if err := decode(r, dest); err != nil {
		return err
	}

	v, ok := dest.(validation.Validatable)
	if !ok {
		return nil
	}
	return Validate(v)
}

// Map decodes a JSON object body for partial updates. An empty or non-object
// body is a BadRequest.
func Map(r *http.Request) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := decode(r, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperr.BadRequest("Request body must be a non-empty JSON object")
	}
	return out, nil
}

// Validate runs v's rules and classifies the result.
func Validate(v validation.Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for name, fe := range fieldErrs {
			fields[name] = fe.Error()
		}
		return apperr.Invalid("Validation failed", fields)
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return apperr.Internal("Server error", internal.InternalError())
	}

	return apperr.BadRequest(err.Error())
}

func decode(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return apperr.BadRequest("Request body is required")
	}
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err := json.NewDecoder(body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.BadRequest(fmt.Sprintf("Request body too large (max %d bytes)", maxErr.Limit))
		case errors.Is(err, io.EOF):
			return apperr.BadRequest("Request body is required")
		default:
			return apperr.Wrap(apperr.KindBadRequest, "Invalid JSON body", err)
		}
	}
	return nil
}
