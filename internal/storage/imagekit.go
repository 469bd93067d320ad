package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrUploadsDisabled signals that image hosting is disabled via configuration.
var ErrUploadsDisabled = errors.New("storage: uploads disabled")

const defaultUploadEndpoint = "https://upload.imagekit.io/api/v1/files/upload"

// UploadResult describes a hosted file.
type UploadResult struct {
	FileID string `json:"fileId"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

// Uploader stores raw image bytes and returns their hosted location.
type Uploader interface {
	Upload(ctx context.Context, fileName string, data io.Reader) (*UploadResult, error)
}

// Settings capture the runtime configuration for the ImageKit client.
type Settings struct {
	Enabled    bool          `mapstructure:"enabled"`
	PrivateKey string        `mapstructure:"private_key"`
	Folder     string        `mapstructure:"folder"`
	Endpoint   string        `mapstructure:"endpoint"` // defaults to the ImageKit upload API
	Timeout    time.Duration `mapstructure:"timeout"`
}

type imageKitClient struct {
	cfg    Settings
	client *http.Client
}

// NewImageKitClient builds an Uploader backed by the ImageKit upload API.
func NewImageKitClient(cfg Settings) (Uploader, error) {
	if cfg.Enabled && cfg.PrivateKey == "" {
		return nil, errors.New("storage: private key is required when enabled")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultUploadEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &imageKitClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *imageKitClient) Upload(ctx context.Context, fileName string, data io.Reader) (*UploadResult, error) {
	if !c.cfg.Enabled {
		return nil, ErrUploadsDisabled
	}
	if fileName == "" {
		return nil, errors.New("storage: file name is required")
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		part, err := form.CreateFormFile("file", fileName)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, data); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := form.WriteField("fileName", fileName); err != nil {
			pw.CloseWithError(err)
			return
		}
		if c.cfg.Folder != "" {
			if err := form.WriteField("folder", c.cfg.Folder); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(form.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, pr)
	if err != nil {
		return nil, fmt.Errorf("storage: build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.SetBasicAuth(c.cfg.PrivateKey, "")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("storage: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("storage: upload failed with status %d: %s", resp.StatusCode, body)
	}

	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("storage: decode response: %w", err)
	}
	if result.URL == "" {
		return nil, errors.New("storage: response missing file url")
	}

	return &result, nil
}
