package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.temporal.io/sdk/client"

	"querybot/internal/config"
	"querybot/internal/ingest"
	"querybot/internal/metrics"
	"querybot/internal/objectstore"
	"querybot/internal/providers"
	"querybot/internal/queue"
	"querybot/internal/storage"
	"querybot/internal/vector"
)

const connectTimeout = 10 * time.Second

// Clients is built once at startup and passed to whatever needs it. A client
// that failed to initialize stays nil.
type Clients struct {
	Config   config.Config
	Store    objectstore.Store
	Enqueuer queue.Enqueuer
	Dequeuer queue.Dequeuer
	Temporal client.Client
	Index    vector.Index
	Embedder providers.EmbeddingProvider
	LLM      providers.LLMProvider
	Metrics  *metrics.Metrics

	closers []func()
}

// Connect builds every client the configuration asks for. Failures are logged
// and never returned.
func Connect(ctx context.Context, cfg config.Config, logger *log.Logger) *Clients {
	c := &Clients{Config: cfg, Metrics: metrics.New()}

	if store, err := openStore(ctx, cfg); err != nil {
		logger.Printf("object store: failed: %v", err)
	} else {
		c.Store = store
		logger.Printf("object store: connected to %s (bucket %s)", cfg.MinioEndpoint, cfg.Bucket)
	}

	if err := c.openQueue(ctx, cfg); err != nil {
		logger.Printf("queue: failed: %v", err)
	} else {
		logger.Printf("queue: %s backend ready", cfg.QueueBackend)
	}

	if err := c.openIndex(ctx, cfg); err != nil {
		logger.Printf("vector index: failed: %v", err)
	} else {
		logger.Printf("vector index: %s backend ready (collection %s)", cfg.VectorBackend, cfg.Collection)
	}

	if emb, err := providers.NewEmbedder(cfg); err != nil {
		logger.Printf("embedder: failed: %v", err)
	} else {
		c.Embedder = emb
		logger.Printf("embedder: %s/%s", cfg.EmbedProvider, cfg.EmbedModel)
	}

	if llm, err := providers.NewLLM(cfg); err != nil {
		logger.Printf("llm: failed: %v", err)
	} else {
		c.LLM = llm
		logger.Printf("llm: %s/%s", cfg.LLMProvider, cfg.LLMModel)
	}
	return c
}

// Status reports which clients are available, keyed by name.
func (c *Clients) Status() map[string]bool {
	return map[string]bool{
		"object_store": c.Store != nil,
		"queue":        c.Enqueuer != nil,
		"vector_index": c.Index != nil,
		"embedder":     c.Embedder != nil,
		"llm":          c.LLM != nil,
	}
}

func (c *Clients) Ready() bool {
	for _, ok := range c.Status() {
		if !ok {
			return false
		}
	}
	return true
}

// SingleProcess reports whether ingestion has to run inside the API process.
// A memory index is private to the process that built it, so a separate
// worker would index into a map the API never searches.
func (c *Clients) SingleProcess() bool {
	return c.Config.VectorBackend == "memory"
}

// NewPipeline builds the ingestion pipeline over these clients. A nil
// extract means PDF extraction.
func (c *Clients) NewPipeline(extract ingest.ExtractFunc, logger *log.Logger) *ingest.Pipeline {
	return ingest.NewPipeline(c.Store, c.Index, c.Embedder, ingest.Options{
		Collection:   c.Config.Collection,
		ChunkSize:    c.Config.ChunkSize,
		ChunkOverlap: c.Config.ChunkOverlap,
		Extract:      extract,
		Metrics:      c.Metrics,
		Logger:       logger,
	})
}

// IngestRunner returns a queue consumer over these clients, or an error
// naming what is missing.
func (c *Clients) IngestRunner(extract ingest.ExtractFunc, logger *log.Logger) (*ingest.Runner, error) {
	var missing []string
	if c.Store == nil {
		missing = append(missing, "object_store")
	}
	if c.Dequeuer == nil {
		missing = append(missing, "queue")
	}
	if c.Index == nil {
		missing = append(missing, "vector_index")
	}
	if c.Embedder == nil {
		missing = append(missing, "embedder")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("ingestion needs %v", missing)
	}
	return ingest.NewRunner(c.Dequeuer, c.NewPipeline(extract, logger), c.Metrics, logger), nil
}

func (c *Clients) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func openStore(ctx context.Context, cfg config.Config) (*objectstore.MinioStore, error) {
	store, err := objectstore.NewMinioStore(objectstore.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := store.EnsureBucket(ctx, cfg.Bucket); err != nil {
		return nil, err
	}
	return store, nil
}

func (c *Clients) openQueue(ctx context.Context, cfg config.Config) error {
	switch cfg.QueueBackend {
	case "temporal":
		tc, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
		if err != nil {
			return fmt.Errorf("dial temporal %s: %w", cfg.TemporalAddress, err)
		}
		c.Temporal = tc
		c.Enqueuer = queue.NewTemporalQueue(tc, cfg.TemporalTaskQueue)
		c.closers = append(c.closers, tc.Close)
		return nil
	default:
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		rc, err := queue.NewRedisClient(ctx, queue.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		q := queue.NewRedisQueue(rc, cfg.QueueKey, cfg.QueuePollTimeout)
		c.Enqueuer = q
		c.Dequeuer = q
		c.closers = append(c.closers, func() { _ = rc.Close() })
		return nil
	}
}

func (c *Clients) openIndex(ctx context.Context, cfg config.Config) error {
	switch cfg.VectorBackend {
	case "memory":
		c.Index = vector.NewMemoryIndex()
		return nil
	default:
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := storage.Migrate(ctx, cfg.PostgresURL, "up", 0); err != nil {
			return err
		}
		db, err := storage.NewDB(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		c.Index = vector.NewPGIndex(db)
		c.closers = append(c.closers, db.Close)
		return nil
	}
}
