package content

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bencao/herbquiz/internal/logger"
)

// ErrVersionConflict is returned when a write carries a stale version token.
// The caller must re-read the file and retry with the fresh token.
var ErrVersionConflict = errors.New("content: version token is stale")

// Client talks to a GitHub-style contents API: read a file with its version
// token (sha), write it back under optimistic concurrency, and upload binary
// assets. Authentication is a bearer credential.
type Client struct {
	httpClient *http.Client
	base       string
	repo       string
	branch     string
	token      string
	log        *logger.Logger
}

type Config struct {
	APIBase string
	Repo    string // "owner/name"
	Branch  string
	Token   string
}

func New(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		base:       strings.TrimRight(cfg.APIBase, "/"),
		repo:       cfg.Repo,
		branch:     cfg.Branch,
		token:      cfg.Token,
		log:        logger.Default().WithPrefix("content"),
	}
}

// Document is one remote JSON file plus the version token a later write
// must present.
type Document struct {
	Path    string          `json:"path"`
	Content json.RawMessage `json:"content"`
	Version string          `json:"version"`
}

type contentsResp struct {
	Content     string `json:"content"`
	SHA         string `json:"sha"`
	DownloadURL string `json:"download_url"`
}

type writeResp struct {
	Content contentsResp `json:"content"`
}

// ReadJSON fetches a JSON file and its current version token.
func (c *Client) ReadJSON(ctx context.Context, path string) (*Document, error) {
	log := logger.FromContext(ctx).WithPrefix("content").WithField("path", path)
	url := fmt.Sprintf("%s/%s/contents/%s?ref=%s", c.base, c.repo, path, c.branch)

	log.Debug("reading remote file")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to read remote file: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("read response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("read request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("read %s: status %d: %s", path, resp.StatusCode, string(body))
	}

	var out contentsResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode read response: %v", err)
		return nil, err
	}

	// The API base64-encodes file bodies, with line breaks inserted.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(out.Content, "\n", ""))
	if err != nil {
		log.Error("failed to decode file content: %v", err)
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("read %s: remote file is not valid JSON", path)
	}

	log.Info("read remote file: %d bytes, version=%s", len(raw), shortToken(out.SHA))
	return &Document{Path: path, Content: raw, Version: out.SHA}, nil
}

// WriteJSON replaces a JSON file, presenting the version token obtained from
// the last read. A stale token fails with ErrVersionConflict and writes
// nothing. The new version token is returned on success.
func (c *Client) WriteJSON(ctx context.Context, path string, content []byte, version, message string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("content").WithField("path", path)

	if !json.Valid(content) {
		return "", fmt.Errorf("write %s: payload is not valid JSON", path)
	}

	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"sha":     version,
		"branch":  c.branch,
	}

	resp, err := c.put(ctx, path, body)
	if err != nil {
		log.Error("failed to write remote file: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	// The API reports a stale sha as a conflict (409) or an unprocessable
	// entity (422) depending on how the file changed underneath us.
	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
		log.Warn("write rejected: stale version token %s", shortToken(version))
		return "", ErrVersionConflict
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("write request failed: status=%d, body=%s", resp.StatusCode, string(b))
		return "", fmt.Errorf("write %s: status %d: %s", path, resp.StatusCode, string(b))
	}

	var out writeResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode write response: %v", err)
		return "", err
	}
	log.Info("wrote remote file: version=%s", shortToken(out.Content.SHA))
	return out.Content.SHA, nil
}

// UploadImage stores a binary asset under dir and returns its download URL.
// Names are expected to be unique (the service timestamps them), so no
// version token is sent.
func (c *Client) UploadImage(ctx context.Context, dir, name string, data []byte) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("content").WithField("name", name)

	path := strings.Trim(dir, "/") + "/" + name
	body := map[string]string{
		"message": "Upload image: " + name,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  c.branch,
	}

	resp, err := c.put(ctx, path, body)
	if err != nil {
		log.Error("failed to upload image: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("upload request failed: status=%d, body=%s", resp.StatusCode, string(b))
		return "", fmt.Errorf("upload %s: status %d: %s", path, resp.StatusCode, string(b))
	}

	var out writeResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode upload response: %v", err)
		return "", err
	}
	log.Info("image uploaded: %s", out.Content.DownloadURL)
	return out.Content.DownloadURL, nil
}

func (c *Client) put(ctx context.Context, path string, body map[string]string) (*http.Response, error) {
	url := fmt.Sprintf("%s/%s/contents/%s", c.base, c.repo, path)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	return c.httpClient.Do(req)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func shortToken(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
