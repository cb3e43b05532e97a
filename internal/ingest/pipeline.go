package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"querybot/internal/metrics"
	"querybot/internal/models"
	"querybot/internal/objectstore"
	"querybot/internal/providers"
	"querybot/internal/util"
	"querybot/internal/vector"
)

type ExtractFunc func(data []byte) ([]models.Page, error)

type Options struct {
	Collection   string
	ChunkSize    int
	ChunkOverlap int
	// Extract defaults to ExtractPDFPages.
	Extract ExtractFunc
	Metrics *metrics.Metrics
	Logger  *log.Logger
}

// Pipeline turns one stored document into index entries. Each step is
// exported so the Temporal activities can run them separately.
type Pipeline struct {
	store      objectstore.Store
	index      vector.Index
	embedder   providers.EmbeddingProvider
	splitter   *util.TextSplitter
	collection string
	extract    ExtractFunc
	metrics    *metrics.Metrics
	logger     *log.Logger
}

type Result struct {
	Pages  int
	Chunks int
}

func NewPipeline(store objectstore.Store, index vector.Index, embedder providers.EmbeddingProvider, opts Options) *Pipeline {
	if opts.Extract == nil {
		opts.Extract = ExtractPDFPages
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[WORKER] ", log.LstdFlags)
	}
	if opts.Collection == "" {
		opts.Collection = "documents"
	}
	return &Pipeline{
		store:      store,
		index:      index,
		embedder:   embedder,
		splitter:   util.NewTextSplitter(opts.ChunkSize, opts.ChunkOverlap),
		collection: opts.Collection,
		extract:    opts.Extract,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}
}

func (p *Pipeline) FetchPages(ctx context.Context, bucket, name string) ([]models.Page, error) {
	data, err := p.store.Get(ctx, bucket, name)
	if err != nil {
		return nil, err
	}
	pages, err := p.extract(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return pages, nil
}

// ChunkPages splits every page on its own so a chunk never spans pages.
// chunk_index restarts at 0 on each page.
func (p *Pipeline) ChunkPages(source string, pages []models.Page) []models.Chunk {
	chunks := make([]models.Chunk, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		for i, text := range p.splitter.Split(page.Text) {
			chunks = append(chunks, models.Chunk{
				ChunkID:    util.ChunkID(p.collection, source, page.Number, i, text),
				Source:     source,
				Page:       page.Number,
				ChunkIndex: i,
				Text:       text,
			})
		}
	}
	return chunks
}

// EmbedChunks embeds all chunks in one provider call.
func (p *Pipeline) EmbedChunks(ctx context.Context, chunks []models.Chunk) ([]models.IndexEntry, error) {
	if len(chunks) == 0 {
		return []models.IndexEntry{}, nil
	}
	inputs := make([]string, 0, len(chunks))
	for _, c := range chunks {
		inputs = append(inputs, c.Text)
	}
	vectors, info, err := p.embedder.Embed(ctx, providers.EmbedRequest{Operation: "ingest", Inputs: inputs})
	if err != nil {
		p.metrics.ProviderError("embed", err)
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}
	entries := make([]models.IndexEntry, 0, len(chunks))
	for i, c := range chunks {
		entries = append(entries, models.IndexEntry{Chunk: c, Vector: vectors[i], EmbeddingModel: info.Model})
	}
	return entries, nil
}

// IndexChunks replaces whatever the index held for source.
func (p *Pipeline) IndexChunks(ctx context.Context, source string, entries []models.IndexEntry) error {
	if err := p.index.Replace(ctx, p.collection, source, entries); err != nil {
		return fmt.Errorf("index chunks of %s: %w", source, err)
	}
	p.metrics.ChunksIndexed(len(entries))
	return nil
}

// Process runs the whole pipeline for one job. Nothing is written unless
// every step before indexing succeeded.
func (p *Pipeline) Process(ctx context.Context, job models.IngestJob) (Result, error) {
	pages, err := p.FetchPages(ctx, job.Bucket, job.FileName)
	if err != nil {
		return Result{}, err
	}
	chunks := p.ChunkPages(job.FileName, pages)
	if len(chunks) == 0 {
		p.logger.Printf("job %s: %s: %v", jobRef(job), job.FileName, util.ErrNoExtractableText)
	}
	entries, err := p.EmbedChunks(ctx, chunks)
	if err != nil {
		return Result{Pages: len(pages)}, err
	}
	if err := p.IndexChunks(ctx, job.FileName, entries); err != nil {
		return Result{Pages: len(pages)}, err
	}
	return Result{Pages: len(pages), Chunks: len(entries)}, nil
}

func jobRef(job models.IngestJob) string {
	if job.JobID != "" {
		return job.JobID
	}
	return "-"
}
