package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trainerhub/app/internal/repository"
	"trainerhub/app/internal/repository/memory"
)

// fakeStorage records presign and delete calls instead of talking to S3.
type fakeStorage struct {
	mu        sync.Mutex
	uploads   []string
	deleted   []string
	deleteErr error
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, key)
	return fmt.Sprintf("https://bucket.test/%s?op=put&type=%s", key, contentType), nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.test/" + key + "?op=get", nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return f.deleteErr
}

func (f *fakeStorage) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func newRepos() repository.Set {
	return memory.NewRepositories()
}
