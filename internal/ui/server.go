package ui

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"querybot/internal/client"
	"querybot/internal/models"
)

// Banners is the feedback shown under one form.
type Banners struct {
	Success string
	Info    string
	Warning string
	Errors  []string
}

type page struct {
	Upload   *Banners
	Ask      *Banners
	Question string
	Answer   *models.Answer
}

type renderer struct {
	tmpl *template.Template
}

func (r *renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

type Server struct {
	e      *echo.Echo
	api    *client.Client
	logger *log.Logger
}

func NewServer(api *client.Client, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stdout, "[UI] ", log.LstdFlags)
	}
	s := &Server{api: api, logger: logger}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Renderer = &renderer{tmpl: template.Must(template.New("index").Parse(indexHTML))}

	e.GET("/", s.handleIndex)
	e.POST("/upload", s.handleUpload)
	e.POST("/ask", s.handleAsk)
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

func (s *Server) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index", page{})
}

func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		return c.Render(http.StatusOK, "index", page{Upload: &Banners{Warning: "Please select a PDF file first."}})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Render(http.StatusOK, "index", page{Upload: &Banners{Errors: []string{fmt.Sprintf("Error: %v", err)}}})
	}
	defer f.Close()

	if _, err := s.api.Upload(c.Request().Context(), fh.Filename, f); err != nil {
		s.logger.Printf("upload %s: %v", fh.Filename, err)
		return c.Render(http.StatusOK, "index", page{Upload: s.failure(err)})
	}
	return c.Render(http.StatusOK, "index", page{Upload: &Banners{
		Success: "File successfully uploaded and processed!",
		Info:    "You can now ask questions about the document below.",
	}})
}

func (s *Server) handleAsk(c echo.Context) error {
	question := c.FormValue("question")
	if strings.TrimSpace(question) == "" {
		return c.Render(http.StatusOK, "index", page{Ask: &Banners{Warning: "Please enter a question first."}})
	}
	ans, err := s.api.Query(c.Request().Context(), question)
	if err != nil {
		s.logger.Printf("query: %v", err)
		return c.Render(http.StatusOK, "index", page{Question: question, Ask: s.failure(err)})
	}
	if ans.Answer == "" {
		ans.Answer = "No answer found."
	}
	return c.Render(http.StatusOK, "index", page{Question: question, Answer: &ans})
}

func (s *Server) failure(err error) *Banners {
	var se *client.StatusError
	if errors.As(err, &se) {
		return &Banners{Errors: []string{"Error: " + se.Error()}}
	}
	return &Banners{Errors: []string{
		fmt.Sprintf("Connection Error: Could not connect to the backend at %s.", s.api.BaseURL()),
		"Please ensure the backend service is running.",
	}}
}
