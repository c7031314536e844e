package repository

import (
	"context"

	"greia/internal/domain/entity"
)

type FileMetadataRepository interface {
	Create(ctx context.Context, metadata *entity.FileMetadata) error
	GetByID(ctx context.Context, id string) (*entity.FileMetadata, error)
	ListByUploader(ctx context.Context, userID string, limit int) ([]*entity.FileMetadata, error)
}
