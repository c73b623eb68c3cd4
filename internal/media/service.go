// Package media implements the gateway core: namespace routing for uploads,
// fetches, and deletes against the object store, and the HTTP handlers that
// gate them behind token authorization.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/gennyproject/media-proxy/internal/storage"
)

// File is one uploaded file as submitted by the client.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
	Size        int64
}

// UploadedFile pairs an original filename with the identifier assigned at
// store time.
type UploadedFile struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

// Service performs storage operations within a caller-resolved namespace.
// Authorization has already happened by the time a Service method runs; the
// namespace argument is derived from the route and the validated token, never
// from caller-supplied input.
type Service struct {
	store storage.ObjectStore
}

// NewService creates a media Service on top of the given object store.
func NewService(store storage.ObjectStore) *Service {
	return &Service{store: store}
}

// Upload stores each file under a freshly generated identifier in ns and
// returns the name/identifier pairs in submission order. Identifiers are
// random, never derived from filename or content, so attacker-chosen names
// cannot collide and retrieval stays anonymous.
//
// Files are stored independently: a failure partway through leaves earlier
// files in place (no rollback). An empty batch succeeds with an empty list.
func (s *Service) Upload(ctx context.Context, ns storage.Namespace, files []File) ([]UploadedFile, error) {
	uploaded := make([]UploadedFile, 0, len(files))
	for _, f := range files {
		id := uuid.New()
		if err := s.store.Put(ctx, ns, id, f.Content, f.Size, f.ContentType); err != nil {
			return nil, fmt.Errorf("store file %q: %w", f.Name, err)
		}
		uploaded = append(uploaded, UploadedFile{Name: f.Name, UUID: id.String()})
	}
	return uploaded, nil
}

// Fetch returns the object stored under (ns, id). A missing identifier and a
// zero-length stored object both return storage.ErrNotFound: the storage
// contract cannot tell them apart, a known limitation. Backend failures pass
// through unchanged so the handler can report them as a gateway error
// instead of a miss.
func (s *Service) Fetch(ctx context.Context, ns storage.Namespace, id uuid.UUID) (*storage.Object, error) {
	obj, err := s.store.Get(ctx, ns, id)
	if err != nil {
		return nil, err
	}
	if obj.Size == 0 {
		_ = obj.Content.Close()
		return nil, storage.ErrNotFound
	}
	return obj, nil
}

// Delete removes the object stored under (ns, id). Deleting an identifier
// that does not exist is not an error.
func (s *Service) Delete(ctx context.Context, ns storage.Namespace, id uuid.UUID) error {
	if err := s.store.Delete(ctx, ns, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// IsNotFound reports whether the error indicates an absent object.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
