package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/logger"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository"
)

// Paged is a page of results with its window.
type Paged[T any] struct {
	Items      []T               `json:"items"`
	Pagination models.Pagination `json:"pagination"`
}

// Clock returns the current time. Tests replace it.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// storeErr converts repository failures into typed errors. Typed errors pass
// through untouched.
func storeErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	var dup *repository.DuplicateError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.As(err, &dup):
		msg := fmt.Sprintf("%s already exists", dup.Field)
		return &apperr.Error{
			Kind:    apperr.KindConflict,
			Message: msg,
			Fields:  []apperr.FieldError{{Field: dup.Field, Message: msg}},
			Err:     err,
		}
	default:
		return apperr.Internal("store operation failed", err)
	}
}

// releaseAssets deletes uploaded files as a compensating action. Failures are
// logged and never retried.
func releaseAssets(ctx context.Context, assets AssetStore, urls []string) {
	if assets == nil || len(urls) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := assets.Delete(ctx, url); err != nil {
			logger.FromContext(ctx).Warn("Failed to release asset", zap.String("url", url), zap.Error(err))
		}
	}
}
