package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"querybot/internal/activities"
	"querybot/internal/models"
)

const stagingRoot = "_ingest"

type IngestResult struct {
	Pages  int `json:"pages"`
	Chunks int `json:"chunks"`
}

// IngestDocumentWorkflow runs the ingestion steps for one uploaded document.
// Steps hand data to each other through the staging area in the document's
// bucket. Indexing is the only step that writes to the index, and it runs
// last. Staged objects are removed whatever the outcome.
func IngestDocumentWorkflow(ctx workflow.Context, job models.IngestJob) (IngestResult, error) {
	logger := workflow.GetLogger(ctx)
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	staging := activities.Staging{
		Bucket: job.Bucket,
		Prefix: stagingRoot + "/" + workflow.GetInfo(ctx).WorkflowExecution.ID,
	}
	defer func() {
		cctx, _ := workflow.NewDisconnectedContext(ctx)
		cctx = workflow.WithActivityOptions(cctx, workflow.ActivityOptions{
			StartToCloseTimeout: time.Minute,
			RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 3},
		})
		if cerr := workflow.ExecuteActivity(cctx, activities.CleanupStagingName, activities.CleanupStagingInput{Staging: staging}).Get(cctx, nil); cerr != nil {
			logger.Warn("staging cleanup failed", "prefix", staging.Prefix, "error", cerr)
		}
	}()

	var fetched activities.FetchPagesOutput
	if err := workflow.ExecuteActivity(ctx, activities.FetchPagesName, activities.FetchPagesInput{
		Bucket:   job.Bucket,
		FileName: job.FileName,
		Staging:  staging,
	}).Get(ctx, &fetched); err != nil {
		return IngestResult{}, err
	}

	var chunked activities.ChunkPagesOutput
	if err := workflow.ExecuteActivity(ctx, activities.ChunkPagesName, activities.ChunkPagesInput{
		Source:  job.FileName,
		Staging: staging,
	}).Get(ctx, &chunked); err != nil {
		return IngestResult{}, err
	}
	if chunked.Chunks == 0 {
		logger.Info("document has no extractable text", "file", job.FileName)
	}

	var embedded activities.EmbedChunksOutput
	if err := workflow.ExecuteActivity(ctx, activities.EmbedChunksName, activities.EmbedChunksInput{
		Staging: staging,
	}).Get(ctx, &embedded); err != nil {
		return IngestResult{}, err
	}

	var indexed activities.IndexChunksOutput
	if err := workflow.ExecuteActivity(ctx, activities.IndexChunksName, activities.IndexChunksInput{
		Source:  job.FileName,
		Staging: staging,
	}).Get(ctx, &indexed); err != nil {
		return IngestResult{}, err
	}

	logger.Info("document indexed", "file", job.FileName, "pages", fetched.Pages, "chunks", indexed.Indexed, "model", embedded.Model)
	return IngestResult{Pages: fetched.Pages, Chunks: indexed.Indexed}, nil
}
