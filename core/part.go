package core

// Part represents a polymorphic segment of message content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment. Annotations carry citation /
// file-path markers referencing spans inside Text (populated by retrieval
// backed agents).
type TextPart struct {
	Text        string       // Plain UTF-8 text
	Annotations []Annotation // Optional citation / file-path markers
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// ImageFilePart references an image produced during a run (e.g. a chart
// rendered by the code interpreter) by its hosted file id.
type ImageFilePart struct {
	FileID string // Hosted file id of the image
}

// isPart implements the Part interface for ImageFilePart.
func (ImageFilePart) isPart() {}

// FilePart references a non-image file attachment by its hosted file id.
type FilePart struct {
	FileID string // Hosted file id
	Name   string // Original filename hint (may be empty)
}

// isPart implements the Part interface for FilePart.
func (FilePart) isPart() {}

// Annotation marks a span of a TextPart that cites or links a hosted file.
// Type is the backend's annotation kind (e.g. "file_citation", "file_path").
type Annotation struct {
	Type       string `json:"type"`
	Text       string `json:"text"`    // The placeholder text inside the span
	FileID     string `json:"file_id"` // Cited / linked file
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}
