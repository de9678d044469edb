package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// BlobStore defines the interface for blob storage operations
type BlobStore interface {
	StoreBlob(ctx context.Context, key string, data []byte) error
	GetBlob(ctx context.Context, key string) (io.ReadCloser, error)
	ReadBlob(ctx context.Context, key string) ([]byte, error)
	BlobExists(ctx context.Context, key string) (bool, error)
	GetBlobMetadata(ctx context.Context, key string) (*BlobMetadata, error)
}

// BlobMetadata represents metadata for stored blobs
type BlobMetadata struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// LocalBlobStore implements BlobStore on a local directory
type LocalBlobStore struct {
	basePath string
}

// NewLocalBlobStore creates a new local blob store
func NewLocalBlobStore(basePath string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &LocalBlobStore{
		basePath: basePath,
	}, nil
}

// BasePath returns the directory blobs live in.
func (lbs *LocalBlobStore) BasePath() string {
	return lbs.basePath
}

// StoreBlob writes data under key. The file is written next to its final
// name and renamed into place so readers never observe a partial blob.
func (lbs *LocalBlobStore) StoreBlob(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	filePath := lbs.keyToPath(key)

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", filePath, err)
	}

	return nil
}

// GetBlob retrieves data from local filesystem
func (lbs *LocalBlobStore) GetBlob(ctx context.Context, key string) (io.ReadCloser, error) {
	filePath := lbs.keyToPath(key)

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob not found: %s: %w", key, err)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}

	return file, nil
}

// ReadBlob reads a whole blob.
func (lbs *LocalBlobStore) ReadBlob(ctx context.Context, key string) ([]byte, error) {
	rc, err := lbs.GetBlob(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// BlobExists checks if a blob exists
func (lbs *LocalBlobStore) BlobExists(ctx context.Context, key string) (bool, error) {
	filePath := lbs.keyToPath(key)

	_, err := os.Stat(filePath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check file existence: %w", err)
}

// GetBlobMetadata returns metadata for a blob
func (lbs *LocalBlobStore) GetBlobMetadata(ctx context.Context, key string) (*BlobMetadata, error) {
	filePath := lbs.keyToPath(key)

	stat, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob not found: %s: %w", key, err)
		}
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	return &BlobMetadata{
		Key:          key,
		Size:         stat.Size(),
		LastModified: stat.ModTime(),
	}, nil
}

// keyToPath converts a slash-separated key to a filesystem path
// e.g. "uploads/0193.xlsx" -> "<base>/uploads/0193.xlsx"
func (lbs *LocalBlobStore) keyToPath(key string) string {
	return filepath.Join(lbs.basePath, filepath.FromSlash(key))
}
