package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"rentkenya/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client — хранилище изображений объектов.
type Client interface {
	// UploadPropertyImage сохраняет изображение и возвращает публичный URL.
	UploadPropertyImage(ctx context.Context, propertyID uuid.UUID, filename string, r io.Reader, size int64, contentType string) (string, error)
	// RemovePropertyImage удаляет ранее загруженный objectName.
	RemovePropertyImage(ctx context.Context, objectName string) error
	IsEnabled() bool
}

type client struct {
	mc       *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
	log      *slog.Logger
}

// New создаёт клиента хранилища; при выключенном minio возвращается заглушка.
func New(ctx context.Context, cfg config.MinioConfig, log *slog.Logger) (Client, error) {
	const op = "minio.New"

	if !cfg.Enabled {
		return &noopClient{log: log}, nil
	}

	mc, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioRootUser, cfg.MinioRootPassword, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := mc.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &client{
		mc:       mc,
		bucket:   cfg.BucketName,
		endpoint: cfg.MinioEndpoint,
		useSSL:   cfg.MinioUseSSL,
		log:      log,
	}, nil
}

func (c *client) UploadPropertyImage(ctx context.Context, propertyID uuid.UUID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	const op = "minio.Client.UploadPropertyImage"

	// Имя объекта: <property_id>/<uuid><ext>, чтобы избегать коллизий имён файлов
	objectName := fmt.Sprintf("%s/%s%s", propertyID, uuid.New(), path.Ext(filename))

	_, err := c.mc.PutObject(ctx, c.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	scheme := "http"
	if c.useSSL {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, c.endpoint, c.bucket, objectName)

	c.log.Info("property image uploaded",
		slog.String("property_id", propertyID.String()),
		slog.String("object", objectName),
	)

	return url, nil
}

func (c *client) RemovePropertyImage(ctx context.Context, objectName string) error {
	const op = "minio.Client.RemovePropertyImage"

	if err := c.mc.RemoveObject(ctx, c.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *client) IsEnabled() bool {
	return true
}

// noopClient — заглушка для случая, когда minio отключен.
type noopClient struct {
	log *slog.Logger
}

func (c *noopClient) UploadPropertyImage(ctx context.Context, propertyID uuid.UUID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	c.log.Debug("minio is disabled, image not stored")
	return "", nil
}

func (c *noopClient) RemovePropertyImage(ctx context.Context, objectName string) error {
	return nil
}

func (c *noopClient) IsEnabled() bool {
	return false
}
