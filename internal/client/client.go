package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"querybot/internal/models"
)

// StatusError is a non-success reply from the API. Body is the raw response
// text.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d - %s", e.Code, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Upload sends r as the multipart "file" field and returns the API's
// confirmation text.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	body, err := c.do(req, http.StatusOK, http.StatusAccepted)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) Query(ctx context.Context, question string) (models.Answer, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return models.Answer{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(payload))
	if err != nil {
		return models.Answer{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	body, err := c.do(req, http.StatusOK)
	if err != nil {
		return models.Answer{}, err
	}
	var ans models.Answer
	if err := json.Unmarshal(body, &ans); err != nil {
		return models.Answer{}, fmt.Errorf("decode answer: %w", err)
	}
	return ans, nil
}

func (c *Client) do(req *http.Request, ok ...int) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	for _, code := range ok {
		if resp.StatusCode == code {
			return body, nil
		}
	}
	return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
}
