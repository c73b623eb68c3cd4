// Package storage defines the object-store contract the gateway talks to.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no object exists under the requested
// key. It is deliberately distinct from backend failures: a store that cannot
// be reached must never masquerade as an empty namespace.
var ErrNotFound = errors.New("object not found")

// Namespace is a logical partition of the store: the shared public tree or a
// single user's private subtree. The zero value is the public namespace.
type Namespace struct {
	owner uuid.UUID
}

// Public returns the shared namespace readable and deletable without a token.
func Public() Namespace {
	return Namespace{}
}

// User returns the private namespace owned by the given caller identity.
func User(owner uuid.UUID) Namespace {
	return Namespace{owner: owner}
}

// IsPublic reports whether the namespace is the shared public tree.
func (n Namespace) IsPublic() bool {
	return n.owner == uuid.Nil
}

// Key builds the object key for a file identifier within the namespace:
// "public/<id>" or "user/<owner>/<id>".
func (n Namespace) Key(id uuid.UUID) string {
	if n.IsPublic() {
		return "public/" + id.String()
	}
	return "user/" + n.owner.String() + "/" + id.String()
}

// Object is a stored file's content stream plus the metadata the gateway
// serves back to clients.
type Object struct {
	Content     io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectStore is the interface for putting, getting, and deleting binary
// objects addressed by (Namespace, id).
type ObjectStore interface {
	// Put streams data into the store under the namespace and identifier.
	// size must be the exact byte count of reader.
	Put(ctx context.Context, ns Namespace, id uuid.UUID, reader io.Reader, size int64, contentType string) error

	// Get returns the object under the namespace and identifier, or
	// ErrNotFound when no such object exists. The caller owns closing
	// Object.Content.
	Get(ctx context.Context, ns Namespace, id uuid.UUID) (*Object, error)

	// Delete removes the object. Deleting an identifier that was never
	// stored (or already deleted) is not an error.
	Delete(ctx context.Context, ns Namespace, id uuid.UUID) error
}
