package core

import (
	"context"
	"io"
	"time"
)

// Service is the boundary behind which every hosted or emulated agent backend
// sits. Implementations must be safe for concurrent use; all methods honor
// context cancellation. ListMessages returns messages newest first.
type Service interface {
	// CreateAgent registers a new agent and returns it with its assigned id.
	CreateAgent(ctx context.Context, params NewAgentParams) (*Agent, error)
	// DeleteAgent removes an agent. Deleting an unknown id is an error.
	DeleteAgent(ctx context.Context, agentID string) error
	// CreateThread starts a new empty thread.
	CreateThread(ctx context.Context) (*Thread, error)
	// DeleteThread removes a thread and its messages.
	DeleteThread(ctx context.Context, threadID string) error
	// CreateMessage appends a text message to a thread.
	CreateMessage(ctx context.Context, threadID string, role Role, text string) (*Message, error)
	// ListMessages returns the thread's messages, newest first.
	ListMessages(ctx context.Context, threadID string) ([]Message, error)
	// CreateRun starts executing an agent against a thread.
	CreateRun(ctx context.Context, threadID, agentID string) (*Run, error)
	// GetRun returns a fresh snapshot of a run.
	GetRun(ctx context.Context, threadID, runID string) (*Run, error)
	// SubmitToolOutputs resumes a requires_action run. Every pending tool
	// call must receive exactly one output; unknown or duplicate call ids
	// are rejected.
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (*Run, error)
}

// File describes an uploaded file held by the backend.
type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// FileService is an optional Service extension for backends that support
// file upload and retrieval (code interpreter outputs, knowledge files).
// Callers discover it via type assertion on a Service value.
type FileService interface {
	// UploadFile stores content under the given filename for agent use.
	UploadFile(ctx context.Context, name string, content io.Reader) (*File, error)
	// DownloadFile fetches the raw bytes of a hosted file.
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
	// DeleteFile removes a hosted file.
	DeleteFile(ctx context.Context, fileID string) error
}

// VectorStore describes a searchable document index backing file_search.
type VectorStore struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// VectorStoreService is an optional Service extension for backends that
// support vector stores. CreateVectorStore blocks until the store has
// ingested the given files and is ready for search.
type VectorStoreService interface {
	CreateVectorStore(ctx context.Context, name string, fileIDs []string) (*VectorStore, error)
	DeleteVectorStore(ctx context.Context, vectorStoreID string) error
}
