package activities

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
)

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivityWithOptions(a.FetchPagesActivity, activity.RegisterOptions{Name: FetchPagesName})
	w.RegisterActivityWithOptions(a.ChunkPagesActivity, activity.RegisterOptions{Name: ChunkPagesName})
	w.RegisterActivityWithOptions(a.EmbedChunksActivity, activity.RegisterOptions{Name: EmbedChunksName})
	w.RegisterActivityWithOptions(a.IndexChunksActivity, activity.RegisterOptions{Name: IndexChunksName})
	w.RegisterActivityWithOptions(a.CleanupStagingActivity, activity.RegisterOptions{Name: CleanupStagingName})
}
