package local

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/agentloop/core"
)

// fileEntry pairs the file record with its raw bytes. Data is copied on
// upload and download to avoid accidental external mutation of internal
// buffers.
type fileEntry struct {
	file core.File
	data []byte
}

// UploadFile implements core.FileService. The content is read eagerly and
// held in memory.
func (s *Service) UploadFile(_ context.Context, name string, content io.Reader) (*core.File, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("read file content: %w", err)
	}

	file := core.File{
		ID:        "file_" + core.NewID(),
		Name:      name,
		Bytes:     int64(len(data)),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.files[file.ID] = &fileEntry{file: file, data: data}
	s.mu.Unlock()

	s.logger.Debug("local.file.uploaded", "file_id", file.ID, "name", name, "bytes", file.Bytes)

	cp := file
	return &cp, nil
}

// DownloadFile implements core.FileService. The returned slice is a copy.
func (s *Service) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.files[fileID]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", fileID)
	}

	data := make([]byte, len(entry.data))
	copy(data, entry.data)

	return data, nil
}

// DeleteFile implements core.FileService.
func (s *Service) DeleteFile(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[fileID]; !ok {
		return fmt.Errorf("file not found: %s", fileID)
	}
	delete(s.files, fileID)

	return nil
}

// CreateVectorStore implements core.VectorStoreService. Ingestion is
// synchronous in process, so the store comes back completed immediately.
// Every referenced file must exist.
func (s *Service) CreateVectorStore(_ context.Context, name string, fileIDs []string) (*core.VectorStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, fileID := range fileIDs {
		if _, ok := s.files[fileID]; !ok {
			return nil, fmt.Errorf("file not found: %s", fileID)
		}
	}

	store := &core.VectorStore{
		ID:        "vs_" + core.NewID(),
		Name:      name,
		Status:    "completed",
		CreatedAt: time.Now(),
	}
	s.stores[store.ID] = store

	s.logger.Debug("local.vector_store.created", "vector_store_id", store.ID, "files", len(fileIDs))

	cp := *store
	return &cp, nil
}

// DeleteVectorStore implements core.VectorStoreService. The files it indexed
// are not deleted.
func (s *Service) DeleteVectorStore(_ context.Context, vectorStoreID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[vectorStoreID]; !ok {
		return fmt.Errorf("vector store not found: %s", vectorStoreID)
	}
	delete(s.stores, vectorStoreID)

	return nil
}
