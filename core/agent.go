package core

import "time"

// Agent represents a hosted conversational agent: a model bound to
// instructions and a tool manifest. Agents are created remotely via
// Service.CreateAgent and addressed by ID afterwards.
type Agent struct {
	ID           string           `json:"id"`
	Name         string           `json:"name,omitempty"`
	Model        string           `json:"model"`
	Instructions string           `json:"instructions,omitempty"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewAgentParams carries the inputs for Service.CreateAgent.
type NewAgentParams struct {
	Model         string           `json:"model"`
	Name          string           `json:"name,omitempty"`
	Instructions  string           `json:"instructions,omitempty"`
	Tools         []ToolDefinition `json:"tools,omitempty"`
	ToolResources *ToolResources   `json:"tool_resources,omitempty"`
}

// ToolType discriminates the closed set of tool definition kinds an agent can
// carry: locally executed functions plus the hosted code_interpreter and
// file_search tools.
type ToolType string

const (
	// ToolTypeFunction marks a function tool executed by the caller.
	ToolTypeFunction ToolType = "function"
	// ToolTypeCodeInterpreter marks the hosted code interpreter tool.
	ToolTypeCodeInterpreter ToolType = "code_interpreter"
	// ToolTypeFileSearch marks the hosted file search (retrieval) tool.
	ToolTypeFileSearch ToolType = "file_search"
)

// ToolDefinition is one entry of an agent's tool manifest. Function is set
// only when Type == ToolTypeFunction; the hosted tool kinds carry no payload.
type ToolDefinition struct {
	Type     ToolType            `json:"type"`
	Function *FunctionDefinition `json:"function,omitempty"`
}

// FunctionDefinition describes a callable function tool: its name, a
// human/model readable description and a JSON schema for the arguments.
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// NewFunctionToolDefinition builds a function tool manifest entry.
func NewFunctionToolDefinition(name, description string, parameters map[string]any) ToolDefinition {
	return ToolDefinition{
		Type: ToolTypeFunction,
		Function: &FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// NewCodeInterpreterToolDefinition builds a hosted code interpreter manifest entry.
func NewCodeInterpreterToolDefinition() ToolDefinition {
	return ToolDefinition{Type: ToolTypeCodeInterpreter}
}

// NewFileSearchToolDefinition builds a hosted file search manifest entry.
func NewFileSearchToolDefinition() ToolDefinition {
	return ToolDefinition{Type: ToolTypeFileSearch}
}

// ToolResources binds hosted tools to their backing resources (vector stores
// for file_search, uploaded files for code_interpreter).
type ToolResources struct {
	CodeInterpreter *CodeInterpreterResources `json:"code_interpreter,omitempty"`
	FileSearch      *FileSearchResources      `json:"file_search,omitempty"`
}

// CodeInterpreterResources lists file ids available to the code interpreter.
type CodeInterpreterResources struct {
	FileIDs []string `json:"file_ids,omitempty"`
}

// FileSearchResources lists vector store ids searched by file_search.
type FileSearchResources struct {
	VectorStoreIDs []string `json:"vector_store_ids,omitempty"`
}
