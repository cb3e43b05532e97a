package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"querybot/internal/models"
)

var ErrMalformedJob = errors.New("malformed ingestion job")

type Enqueuer interface {
	Enqueue(ctx context.Context, job models.IngestJob) error
}

// Dequeuer blocks for at most its poll timeout. ok is false when nothing
// arrived in that window.
type Dequeuer interface {
	Dequeue(ctx context.Context) (job models.IngestJob, ok bool, err error)
}

func NewJob(bucket, fileName string) models.IngestJob {
	now := time.Now().UTC()
	return models.IngestJob{
		JobID:      uuid.NewString(),
		Bucket:     bucket,
		FileName:   fileName,
		EnqueuedAt: &now,
	}
}

func EncodeJob(job models.IngestJob) ([]byte, error) {
	b, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}
	return b, nil
}

// DecodeJob accepts the minimal {"bucket","file_name"} form as well as jobs
// carrying an id and enqueue time.
func DecodeJob(raw []byte) (models.IngestJob, error) {
	var job models.IngestJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return models.IngestJob{}, fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	if strings.TrimSpace(job.Bucket) == "" || strings.TrimSpace(job.FileName) == "" {
		return models.IngestJob{}, fmt.Errorf("%w: bucket and file_name are required", ErrMalformedJob)
	}
	return job, nil
}
