package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
)

type firestoreFileMetadataRepository struct {
	client *firestore.Client
}

func NewFirestoreFileMetadataRepository(client *firestore.Client) repository.FileMetadataRepository {
	return &firestoreFileMetadataRepository{
		client: client,
	}
}

func (r *firestoreFileMetadataRepository) Create(ctx context.Context, metadata *entity.FileMetadata) error {
	_, err := r.client.Collection(fileMetadataCollection).Doc(metadata.ID).Set(ctx, metadata)
	if err != nil {
		return errors.Internal("Failed to create file metadata", err)
	}
	return nil
}

func (r *firestoreFileMetadataRepository) GetByID(ctx context.Context, id string) (*entity.FileMetadata, error) {
	doc, err := r.client.Collection(fileMetadataCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "File metadata", "get file metadata")
	}

	metadata, err := decodeOne[entity.FileMetadata](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse file metadata", err)
	}
	return metadata, nil
}

func (r *firestoreFileMetadataRepository) ListByUploader(ctx context.Context, userID string, limit int) ([]*entity.FileMetadata, error) {
	query := r.client.Collection(fileMetadataCollection).
		Where("uploadedBy", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	metadataList, err := decodeAll[entity.FileMetadata](query.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to iterate file metadata", err)
	}
	return metadataList, nil
}
