package workflows

import (
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"querybot/internal/queue"
)

func Register(w worker.Worker) {
	w.RegisterWorkflowWithOptions(IngestDocumentWorkflow, workflow.RegisterOptions{Name: queue.IngestWorkflowName})
}
