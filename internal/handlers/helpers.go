package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/logger"
	"TRAVBUD_BACK-END/internal/middleware"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/services"
	"TRAVBUD_BACK-END/internal/storage"
	"TRAVBUD_BACK-END/internal/utils"
)

const (
	// multipart JSON part and file fields
	dataField      = "data"
	userPhotoField = "file"
	tripPhotoField = "photos"

	maxTripPhotos = 10
)

// callerOf returns the identity set by middleware.Guard. Routes that reach a
// handler using it are always guarded.
func callerOf(r *http.Request) models.Caller {
	c, _ := middleware.CallerFrom(r.Context())
	return c
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// readBody decodes either a JSON body or a multipart form whose "data" field
// holds the JSON payload. It returns the files sent under fileField. An
// absent or empty data field decodes as an empty object when optionalData is
// set.
func readBody(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any, fileField string, optionalData bool) ([]*multipart.FileHeader, error) {
	if !isMultipart(r) {
		if optionalData && r.ContentLength == 0 {
			return nil, utils.Validate(dst)
		}
		return nil, utils.ReadJSON(w, r, dst)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, apperr.Validation("Upload is too large")
		}
		return nil, apperr.Validation("Malformed multipart form")
	}

	data := strings.TrimSpace(r.FormValue(dataField))
	switch {
	case data != "":
		if err := utils.DecodeJSON(strings.NewReader(data), dst); err != nil {
			return nil, err
		}
	case optionalData:
		if err := utils.Validate(dst); err != nil {
			return nil, err
		}
	default:
		return nil, apperr.Validation("Request data is required",
			apperr.FieldError{Field: dataField, Message: "This field is required"})
	}
	return r.MultipartForm.File[fileField], nil
}

// uploadPhotos stores every file and returns their URLs in order. Photos
// already stored are removed again when a later upload fails.
func uploadPhotos(ctx context.Context, assets services.AssetStore, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := uploadOne(ctx, assets, fh)
		if err != nil {
			for _, u := range urls {
				if derr := assets.Delete(ctx, u); derr != nil {
					logger.FromContext(ctx).Warn("Failed to release photo", zap.String("url", u), zap.Error(derr))
				}
			}
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func uploadOne(ctx context.Context, assets services.AssetStore, fh *multipart.FileHeader) (string, error) {
	if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", apperr.Validation("Only image uploads are allowed",
			apperr.FieldError{Field: fh.Filename, Message: "must be an image"})
	}
	f, err := fh.Open()
	if err != nil {
		return "", apperr.Internal("open upload", err)
	}
	defer f.Close()

	url, err := assets.Upload(ctx, fh.Filename, f)
	if errors.Is(err, storage.ErrNotConfigured) {
		return "", apperr.Validation("Photo uploads are not available")
	}
	if err != nil {
		return "", apperr.Internal("upload photo", err)
	}
	return url, nil
}

// firstPhoto uploads at most one file and returns its URL, or "" when none
// was sent.
func firstPhoto(ctx context.Context, assets services.AssetStore, files []*multipart.FileHeader) (string, error) {
	if len(files) == 0 {
		return "", nil
	}
	return uploadOne(ctx, assets, files[0])
}

// pageFromQuery reads page, limit, sortBy and sortOrder.
func pageFromQuery(r *http.Request) (models.Page, error) {
	page, err := utils.QueryInt(r, "page")
	if err != nil {
		return models.Page{}, err
	}
	limit, err := utils.QueryInt(r, "limit")
	if err != nil {
		return models.Page{}, err
	}
	q := r.URL.Query()
	return models.Page{Page: page, Limit: limit, SortBy: q.Get("sortBy"), SortOrder: q.Get("sortOrder")}, nil
}
