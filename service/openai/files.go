package openai

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/openai/openai-go"

	"github.com/hupe1980/agentloop/core"
)

// vectorStorePollInterval paces readiness polling after vector store creation.
const vectorStorePollInterval = 500 * time.Millisecond

// UploadFile stores content under the given filename with the assistants
// purpose, making it attachable to code interpreter sessions and vector
// stores.
func (s *Service) UploadFile(ctx context.Context, name string, content io.Reader) (*core.File, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	file, err := s.client.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(content, name, "application/octet-stream"),
		Purpose: openai.FilePurposeAssistants,
	})
	if err != nil {
		return nil, fmt.Errorf("upload file %s: %w", name, err)
	}

	s.logger.Debug("openai.file.uploaded", "file_id", file.ID, "name", file.Filename, "bytes", file.Bytes)

	return &core.File{
		ID:        file.ID,
		Name:      file.Filename,
		Bytes:     file.Bytes,
		CreatedAt: time.Unix(file.CreatedAt, 0),
	}, nil
}

// DownloadFile fetches the raw bytes of a hosted file, e.g. an image rendered
// by the code interpreter.
func (s *Service) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	res, err := s.client.Files.Content(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read file %s content: %w", fileID, err)
	}

	return data, nil
}

// DeleteFile removes a hosted file.
func (s *Service) DeleteFile(ctx context.Context, fileID string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	if _, err := s.client.Files.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("delete file %s: %w", fileID, err)
	}

	s.logger.Debug("openai.file.deleted", "file_id", fileID)

	return nil
}

// CreateVectorStore builds a vector store over the given files and blocks
// until ingestion finishes, so a returned store is immediately searchable. A
// store that ends in any state other than completed is an error.
func (s *Service) CreateVectorStore(ctx context.Context, name string, fileIDs []string) (*core.VectorStore, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	params := openai.VectorStoreNewParams{
		FileIDs: fileIDs,
	}

	if name != "" {
		params.Name = openai.String(name)
	}

	store, err := s.client.VectorStores.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create vector store: %w", err)
	}

	id := store.ID

	for store.Status == openai.VectorStoreStatusInProgress {
		if err := sleepCtx(ctx, vectorStorePollInterval); err != nil {
			return nil, err
		}

		if err := s.wait(ctx); err != nil {
			return nil, err
		}

		store, err = s.client.VectorStores.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get vector store %s: %w", id, err)
		}
	}

	if store.Status != openai.VectorStoreStatusCompleted {
		return nil, fmt.Errorf("vector store %s ended %s", id, store.Status)
	}

	s.logger.Debug("openai.vector_store.ready", "vector_store_id", id, "files", len(fileIDs))

	return &core.VectorStore{
		ID:        store.ID,
		Name:      store.Name,
		Status:    string(store.Status),
		CreatedAt: time.Unix(store.CreatedAt, 0),
	}, nil
}

// DeleteVectorStore removes a vector store. The files it indexed are not
// deleted.
func (s *Service) DeleteVectorStore(ctx context.Context, vectorStoreID string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	if _, err := s.client.VectorStores.Delete(ctx, vectorStoreID); err != nil {
		return fmt.Errorf("delete vector store %s: %w", vectorStoreID, err)
	}

	s.logger.Debug("openai.vector_store.deleted", "vector_store_id", vectorStoreID)

	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
