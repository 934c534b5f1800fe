package types

type DocumentSourceType string

const (
	DocumentSourcePDF DocumentSourceType = "pdf"
	DocumentSourceURL DocumentSourceType = "url"
)

type Document struct {
	ID         int                `json:"id"`
	Filename   string             `json:"filename"`
	SourceType DocumentSourceType `json:"source_type,omitempty"`
	UploadedAt Timestamp          `json:"uploaded_at,omitempty"`
	ChunkCount int                `json:"chunk_count"`
}
