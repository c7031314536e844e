package memory

import (
	"context"
	"time"

	"greia/internal/domain/entity"
	"greia/pkg/errors"
)

type fileRepo struct{ s *Store }

func (r *fileRepo) Create(ctx context.Context, metadata *entity.FileMetadata) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.files[metadata.ID] = clone(metadata)
	return nil
}

func (r *fileRepo) GetByID(ctx context.Context, id string) (*entity.FileMetadata, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.files[id]
	if !ok {
		return nil, errors.NotFound("File", nil)
	}
	return clone(f), nil
}

func (r *fileRepo) ListByUploader(ctx context.Context, userID string, limit int) ([]*entity.FileMetadata, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.FileMetadata
	for _, f := range r.s.files {
		if f.UploadedBy == userID {
			out = append(out, clone(f))
		}
	}
	newestFirst(out, func(f *entity.FileMetadata) time.Time { return f.CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
