package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/leca/showroom-gallery/internal/auth"
	"github.com/leca/showroom-gallery/internal/catalog"
	"github.com/leca/showroom-gallery/internal/config"
	"github.com/leca/showroom-gallery/internal/handler"
	"github.com/leca/showroom-gallery/internal/metadata"
	"github.com/leca/showroom-gallery/internal/router"
	"github.com/leca/showroom-gallery/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	cat, cleanup, err := buildCatalog(cfg)
	if err != nil {
		slog.Error("failed to initialise catalog", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	h := &handler.Handler{
		Catalog: cat,
		Auth:    auth.NewCredentials(cfg.AdminUser, cfg.AdminPassword, cfg.AdminPasswordHash),
	}

	srv := router.New(h, cfg)

	slog.Info("starting server", "addr", cfg.ListenAddr, "storage", cfg.StorageMode)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// buildCatalog wires the catalog generation selected by configuration.
func buildCatalog(cfg *config.Config) (catalog.Catalog, func(), error) {
	if cfg.StorageMode == config.StorageRemote {
		media, err := storage.NewMinio(context.Background(), storage.MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Root:      cfg.MinioRootFolder,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewRemote(media, cfg.MinioRootFolder, cfg.MaxUploadBytes), func() {}, nil
	}

	var (
		meta metadata.Store
		err  error
	)
	switch cfg.MetadataBackend {
	case config.MetadataSQLite:
		meta, err = metadata.NewSQLite(cfg.MetadataPath)
	default:
		meta, err = metadata.NewJSONFile(cfg.MetadataPath)
	}
	if err != nil {
		return nil, nil, err
	}

	blobs := storage.NewFileSystem(cfg.UploadsPath)
	cleanup := func() {
		if err := meta.Close(); err != nil {
			slog.Error("failed to close metadata store", "error", err)
		}
	}
	return catalog.NewLocal(meta, blobs, cfg.MaxUploadBytes), cleanup, nil
}
