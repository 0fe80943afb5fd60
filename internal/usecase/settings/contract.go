package settings

import (
	"context"

	domset "github.com/kailas-cloud/searchsync/internal/domain/settings"
)

// Writer applies index settings.
type Writer interface {
	SetSettings(ctx context.Context, index string, s domset.Settings) error
}
