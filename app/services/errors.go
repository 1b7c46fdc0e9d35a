package services

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/pkg/apperr"
	"github.com/etuition/etuition-api/pkg/logger"
)

// Client-facing messages the frontend matches on.
const (
	msgIDError  = "ID error"
	msgNotFound = "Cant Find this id"
)

// classify maps repository sentinels onto apperr kinds.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrInvalidID):
		return apperr.Wrap(apperr.KindBadRequest, msgIDError, err)
	case errors.Is(err, repositories.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, msgNotFound, err)
	case errors.Is(err, repositories.ErrDuplicate):
		return apperr.Wrap(apperr.KindBadRequest, "Record already exists", err)
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Internal("Server error", err)
}

// sanitize filters patch through fs, coerces values to their stored types
// and rejects updates that end up empty.
func sanitize(ctx context.Context, fs models.FieldSet, patch map[string]interface{}) (map[string]interface{}, error) {
	kept, dropped := fs.Sanitize(patch)
	if len(dropped) > 0 {
		logger.WithCtx(ctx).Debug("dropped non-editable fields", "fields", dropped)
	}
	if len(kept) == 0 {
		return nil, apperr.BadRequest("No updatable fields in request")
	}
	kept, bad := fs.Coerce(kept)
	if len(bad) > 0 {
		return nil, apperr.Invalid("Validation failed", bad)
	}
	if fee, ok := kept["fee"]; ok {
		if err := validation.Validate(fee, validation.Required, validation.Min(int64(1))); err != nil {
			return nil, apperr.Invalid("Validation failed", map[string]string{"fee": err.Error()})
		}
	}
	return kept, nil
}

// lockFee rejects fee changes on a record that has already been paid.
func lockFee(paymentStatus string, set map[string]interface{}) error {
	if _, ok := set["fee"]; ok && paymentStatus == models.StatusPaid {
		return apperr.BadRequest("Fee cannot change after payment")
	}
	return nil
}

func requireOwner(caller, owner string) error {
	if caller == "" || caller != owner {
		return apperr.Forbidden("Forbidden: not the owner of this record")
	}
	return nil
}
