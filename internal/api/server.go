package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"querybot/internal/bootstrap"
	"querybot/internal/queue"
	"querybot/internal/rag"
	"querybot/internal/util"
)

const (
	msgServicesDown   = "Services not initialized"
	msgAIServicesDown = "AI Services not initialized"
)

type Server struct {
	e       *echo.Echo
	clients *bootstrap.Clients
	rag     *rag.Service
	logger  *log.Logger
}

func NewServer(c *bootstrap.Clients, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stdout, "[API] ", log.LstdFlags)
	}
	s := &Server{clients: c, logger: logger}
	if c.Index != nil && c.Embedder != nil && c.LLM != nil {
		s.rag = rag.NewService(c.Index, c.Embedder, c.LLM, rag.Options{
			Collection:     c.Config.Collection,
			TopK:           c.Config.TopK,
			PromptTemplate: c.Config.PromptTemplate,
			Metrics:        c.Metrics,
		})
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = errorHandler(log.New(logger.Writer(), "[HTTP] ", log.LstdFlags))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	e.GET("/", s.handleRoot)
	e.GET("/healthz", s.handleHealthz)
	e.GET("/metrics", echo.WrapHandler(c.Metrics.Handler()))
	limit := c.Config.MaxUploadSize
	if limit == "" {
		limit = "64M"
	}
	e.POST("/upload", s.handleUpload, middleware.BodyLimit(limit))
	e.POST("/query", s.handleQuery)
	s.e = e
	return s
}

func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Start(addr string) error {
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// errorHandler renders every error as {"detail": msg}.
func errorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if c.Response().Committed {
			return
		}
		if req.Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, map[string]string{"detail": msg})
	}
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "QueryBot API is running properly."})
}

func (s *Server) handleHealthz(c echo.Context) error {
	status := "ready"
	if !s.clients.Ready() {
		status = "degraded"
	}
	return c.JSON(http.StatusOK, map[string]any{"status": status, "clients": s.clients.Status()})
}

func (s *Server) handleUpload(c echo.Context) error {
	if s.clients.Store == nil || s.clients.Enqueuer == nil {
		s.clients.Metrics.Upload("unavailable")
		return echo.NewHTTPError(http.StatusServiceUnavailable, msgServicesDown)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		s.clients.Metrics.Upload("rejected")
		return echo.NewHTTPError(http.StatusBadRequest, "file is required").SetInternal(err)
	}
	name := util.ObjectName(fh.Filename)
	if name == "" {
		s.clients.Metrics.Upload("rejected")
		return echo.NewHTTPError(http.StatusBadRequest, "filename is required")
	}
	f, err := fh.Open()
	if err != nil {
		s.clients.Metrics.Upload("error")
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	ctx := c.Request().Context()
	bucket := s.clients.Config.Bucket
	if err := s.clients.Store.Put(ctx, bucket, name, f, fh.Size, fh.Header.Get(echo.HeaderContentType)); err != nil {
		s.clients.Metrics.Upload("error")
		return err
	}
	job := queue.NewJob(bucket, name)
	if err := s.clients.Enqueuer.Enqueue(ctx, job); err != nil {
		s.clients.Metrics.Upload("error")
		return err
	}
	s.logger.Printf("stored %s/%s (%d bytes), queued job %s", bucket, name, fh.Size, job.JobID)
	s.clients.Metrics.Upload("accepted")
	return c.String(http.StatusAccepted, fmt.Sprintf("File %s uploaded and queued.", name))
}

type queryRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleQuery(c echo.Context) error {
	if s.rag == nil {
		s.clients.Metrics.Query("unavailable", 0)
		return echo.NewHTTPError(http.StatusServiceUnavailable, msgAIServicesDown)
	}
	var req queryRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		s.clients.Metrics.Query("rejected", 0)
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
	}
	ans, err := s.rag.Answer(c.Request().Context(), req.Question)
	if err != nil {
		if errors.Is(err, rag.ErrNoDocuments) || errors.Is(err, rag.ErrEmptyQuestion) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, ans)
}
