package forge

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// local is the provider for runs outside any hosting platform. Platform side
// effects are skipped, not failed.
type local struct {
	logger *zap.Logger
}

func (l *local) Name() string { return "local" }

func (l *local) Release(_ context.Context) (string, string, error) {
	return "", "", errors.New("local provider has no releases")
}

func (l *local) CreateReleaseAssets(_ context.Context, letterPath, _ string) error {
	l.logger.Debug("local provider, skipping release assets", zap.String("letter", letterPath))
	return nil
}

func (l *local) CreateComment(_ context.Context, _ string) error {
	l.logger.Debug("local provider, skipping comment")
	return nil
}
