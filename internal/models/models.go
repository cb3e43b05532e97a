package models

import "time"

type Document struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// IngestJob is the queue payload. Bucket and FileName are the only fields a
// consumer may rely on.
type IngestJob struct {
	JobID      string     `json:"job_id,omitempty"`
	Bucket     string     `json:"bucket"`
	FileName   string     `json:"file_name"`
	EnqueuedAt *time.Time `json:"enqueued_at,omitempty"`
}

// Page is one page of extracted text. Number is 1-based, matching the page
// labels a reader sees, and Chunk.Page carries the same value.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

type Chunk struct {
	ChunkID    string `json:"chunk_id"`
	Source     string `json:"source"`
	Page       int    `json:"page"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}

type IndexEntry struct {
	Chunk
	Vector         []float32 `json:"-"`
	EmbeddingModel string    `json:"embedding_model"`
}

type SearchHit struct {
	Chunk
	Score float64 `json:"score"`
}

type Answer struct {
	Answer  string   `json:"answer"`
	Context []string `json:"context"`
}
