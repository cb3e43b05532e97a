package queue

import (
	"context"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"querybot/internal/models"
)

// IngestWorkflowName is the registered name of the ingestion workflow. It is
// referenced by name so this package does not import the workflow code.
const IngestWorkflowName = "IngestDocumentWorkflow"

// TemporalQueue starts one ingestion workflow per job instead of pushing to a
// list. Retries and history are Temporal's.
type TemporalQueue struct {
	client    client.Client
	taskQueue string
}

func NewTemporalQueue(c client.Client, taskQueue string) *TemporalQueue {
	return &TemporalQueue{client: c, taskQueue: taskQueue}
}

func WorkflowID(job models.IngestJob) string {
	if job.JobID != "" {
		return "ingest-" + job.JobID
	}
	return "ingest-" + job.Bucket + "-" + job.FileName
}

func (q *TemporalQueue) Enqueue(ctx context.Context, job models.IngestJob) error {
	opts := client.StartWorkflowOptions{
		ID:                    WorkflowID(job),
		TaskQueue:             q.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}
	if _, err := q.client.ExecuteWorkflow(ctx, opts, IngestWorkflowName, job); err != nil {
		return fmt.Errorf("start ingestion workflow for %s: %w", job.FileName, err)
	}
	return nil
}
