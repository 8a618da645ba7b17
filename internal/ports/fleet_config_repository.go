package ports

import (
	"context"

	"github.com/bnema/droidfleet/internal/domain"
)

type FleetConfig struct {
	LogPath   string
	Selection domain.FleetSelection
}

type FleetConfigRepository interface {
	Load(ctx context.Context) (FleetConfig, error)
	Save(ctx context.Context, config FleetConfig) error
}
