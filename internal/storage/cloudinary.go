// Package storage uploads photos to Cloudinary and removes them by URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"TRAVBUD_BACK-END/internal/config"
)

// ErrNotConfigured is returned when no Cloudinary credentials are set.
var ErrNotConfigured = errors.New("cloudinary is not configured")

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cfg config.CloudinaryConfig) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: cfg.Folder}, nil
}

// Upload stores r under the configured folder and returns its HTTPS URL.
func (c *Cloudinary) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	publicID := uuid.NewString()
	if base := strings.TrimSuffix(path.Base(name), path.Ext(name)); base != "" && base != "." && base != "/" {
		publicID = slug(base) + "-" + publicID[:8]
	}
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   c.folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// Delete destroys the asset behind rawURL. URLs that do not point at
// Cloudinary are ignored.
func (c *Cloudinary) Delete(ctx context.Context, rawURL string) error {
	publicID, ok := PublicIDFromURL(rawURL)
	if !ok {
		return nil
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, res.Error.Message)
	}
	return nil
}

// PublicIDFromURL extracts the public id from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/v1702222222/travbud/photo.png
// which yields "travbud/photo".
func PublicIDFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.HasSuffix(u.Host, "cloudinary.com") {
		return "", false
	}
	_, rest, found := strings.Cut(u.Path, "/upload/")
	if !found || rest == "" {
		return "", false
	}
	parts := strings.Split(rest, "/")
	// transformations precede the version segment
	for i, p := range parts[:len(parts)-1] {
		if isVersion(p) {
			parts = parts[i+1:]
			break
		}
	}
	id := strings.Join(parts, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	return id, id != ""
}

func isVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > 40 {
		out = out[:40]
	}
	if out == "" {
		return "photo"
	}
	return out
}

// Nop is used when Cloudinary is not configured: uploads fail and deletes
// succeed.
type Nop struct{}

func (Nop) Upload(context.Context, string, io.Reader) (string, error) { return "", ErrNotConfigured }
func (Nop) Delete(context.Context, string) error                       { return nil }
