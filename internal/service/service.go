// Package service implements the application's business logic layer.
// Every operation receives the acting identity explicitly; nothing in this
// package reads ambient authentication state.
package service

import (
	"context"
	"errors"

	"mushroomservice/internal/models"

	"gorm.io/gorm"
)

// ContentEvents receives a signal after every content mutation so the live
// feed (local and on other instances) rebuilds its snapshots.
type ContentEvents interface {
	ContentChanged(ctx context.Context, kind string)
}

// storeError maps a repository failure to an application error: a missing
// row becomes NOT_FOUND, anything else an EXTERNAL_ERROR.
func storeError(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewExternalError("store", err)
}
