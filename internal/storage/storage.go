// Package storage contains object storage abstractions for S3-compatible
// backends. Implementations hold the durable published documents and the
// remote temporary area swept by the cleanup job.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectExists is returned by Upload when the destination key is
// already taken. Published keys are expected to be unique per case and a
// collision is surfaced, never silently replaced.
var ErrObjectExists = errors.New("object already exists")

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage is a reusable, S3-compatible object storage client interface.
type Storage interface {
	// Upload writes data under the given key in a single attempt and
	// returns the publicly resolvable URL of the object. It refuses to
	// overwrite an existing object, returning ErrObjectExists instead.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// List returns info for every object under the given key prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}
