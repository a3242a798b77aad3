package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/nest/internal/config"
	"github.com/MrSnakeDoc/nest/internal/logger"
	"github.com/MrSnakeDoc/nest/internal/sources/homepage"
)

// ErrVolatileDriver is returned when importing into a store that does not
// outlive the command.
var ErrVolatileDriver = errors.New("data driver does not persist imports")

// Import loads a Homepage file and writes it for the account of email.
func Import(ctx context.Context, cfg *config.Config, log logger.Logger, email, file string, format homepage.Format) (homepage.Result, error) {
	if cfg.DataDriver == config.DriverMemory {
		return homepage.Result{}, fmt.Errorf("%w: %s, use %s or %s",
			ErrVolatileDriver, cfg.DataDriver, config.DriverRedis, config.DriverPostgres)
	}

	imp, err := homepage.NewLoader(file).Load(format, homepage.NewMapper())
	if err != nil {
		return homepage.Result{}, err
	}
	log.Info("homepage file parsed",
		logger.String("file", file),
		logger.Int("folders", len(imp.Folders)),
		logger.Int("bookmarks", len(imp.Bookmarks)),
		logger.Int("skipped", imp.Skipped))

	backends, err := OpenBackends(ctx, cfg, log)
	if err != nil {
		return homepage.Result{}, err
	}
	defer func() {
		if err := backends.Close(); err != nil {
			log.Warn("failed to close backends", logger.Error(err))
		}
	}()

	return homepage.NewImporter(backends.Redis, backends.Data, log).Import(ctx, email, imp)
}
