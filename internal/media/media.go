// Package media stores images attached to product and category forms and
// returns the public URL the API record should point at.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/storefront-console/internal/config"
)

// Uploader stores one file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// New builds the uploader selected by cfg.Provider. It returns nil when
// uploads are disabled.
func New(ctx context.Context, cfg config.MediaConfig) (Uploader, error) {
	switch cfg.Provider {
	case config.MediaCloudinary:
		return NewCloudinary(cfg.CloudinaryURL, cfg.Folder)
	case config.MediaS3:
		return NewS3(ctx, cfg.S3, cfg.Folder)
	case config.MediaNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownMedia, cfg.Provider)
}

// objectKey names an upload uniquely while keeping the original extension.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}
