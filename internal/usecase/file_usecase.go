package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

var allowedUploadTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"video/mp4",
	"video/webm",
	"video/quicktime",
	"application/pdf",
}

type FileUseCase struct {
	storage          FileStorage
	fileMetadataRepo repository.FileMetadataRepository
	maxBytes         int64
	now              Clock
}

func NewFileUseCase(storage FileStorage, fileMetadataRepo repository.FileMetadataRepository, maxBytes int64, now Clock) *FileUseCase {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	if now == nil {
		now = time.Now
	}
	return &FileUseCase{
		storage:          storage,
		fileMetadataRepo: fileMetadataRepo,
		maxBytes:         maxBytes,
		now:              now,
	}
}

type UploadInput struct {
	Folder   entity.UploadFolder
	Filename string
	Content  io.Reader
}

// Upload sniffs the content type from the bytes themselves; the client's
// declared type and extension are ignored.
func (uc *FileUseCase) Upload(ctx context.Context, userID string, input UploadInput) (*entity.FileMetadata, error) {
	if !input.Folder.Valid() {
		return nil, errors.Validation("Invalid upload folder")
	}
	if uc.storage == nil {
		return nil, errors.New("SERVICE_UNAVAILABLE", "File storage is not configured", 503, nil)
	}

	data, err := io.ReadAll(io.LimitReader(input.Content, uc.maxBytes+1))
	if err != nil {
		return nil, errors.BadRequest("Unable to read file", err)
	}
	if int64(len(data)) > uc.maxBytes {
		return nil, errors.Validation(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", uc.maxBytes>>20))
	}
	if len(data) == 0 {
		return nil, errors.Validation("File is empty")
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedUploadTypes...) {
		return nil, errors.Validation("File type not supported: " + mtype.String())
	}

	public := input.Folder.Public()
	visibility := "public"
	if !public {
		visibility = "private"
	}
	objectName := path.Join(visibility, string(input.Folder), userID, uuid.New().String()+mtype.Extension())

	url, err := uc.storage.Upload(ctx, objectName, bytes.NewReader(data), mtype.String(), public)
	if err != nil {
		logger.Error("UploadFile Error: object=%s: %v", objectName, err)
		return nil, errors.Internal("Failed to upload file", err)
	}

	metadata := &entity.FileMetadata{
		ID:         uuid.New().String(),
		URL:        url,
		ObjectName: objectName,
		Folder:     input.Folder,
		UploadedBy: userID,
		Filename:   path.Base(strings.ReplaceAll(input.Filename, "\\", "/")),
		FileType:   mtype.String(),
		FileSize:   int64(len(data)),
		IsPublic:   public,
		CreatedAt:  uc.now(),
	}
	if err := uc.fileMetadataRepo.Create(ctx, metadata); err != nil {
		// The object is stored; losing the metadata row only affects listings of uploads.
		logger.Error("UploadFile Error: metadata for %s: %v", objectName, err)
	}
	return metadata, nil
}

func (uc *FileUseCase) ListMine(ctx context.Context, userID string, limit int) ([]*entity.FileMetadata, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.fileMetadataRepo.ListByUploader(ctx, userID, limit)
}
