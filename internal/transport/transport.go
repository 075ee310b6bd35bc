package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/craftops/plugsync/internal/config"
)

const dialTimeout = 10 * time.Second

// Uploader pushes a local artifact to the configured server plugin
// directory. Implementations return errors instead of logging so the
// orchestrator decides what a failed transfer means.
type Uploader interface {
	Upload(ctx context.Context, localPath string) error
	Method() string
}

// ForMethod resolves the configured upload method to a concrete transport.
// Resolution happens once at startup; an unknown method is an error the
// caller is expected to log rather than die on.
func ForMethod(cfg *config.Config) (Uploader, error) {
	switch cfg.UploadMethod {
	case config.MethodFTP:
		return NewFTP(cfg), nil
	case config.MethodSFTP:
		return NewSFTP(cfg), nil
	default:
		return nil, fmt.Errorf("invalid upload method %q: use %q or %q", cfg.UploadMethod, config.MethodFTP, config.MethodSFTP)
	}
}
