// Package guard is the HTTP client for the external guard service, the
// system of record for script payloads in delegated mode.
package guard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/config"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/models"
)

// Client talks to the guard service. The shared secret is attached to
// every call; responses outside 2xx surface as *StatusError.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secret     string
	log        *logrus.Entry
}

// StatusError is a non-2xx guard response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("guard service returned status %d", e.Code)
}

type loggingTransport struct {
	log *logrus.Entry
}

func NewClient(logger *logrus.Logger, cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.GuardTimeout,
			Transport: &loggingTransport{log: logger.WithField("component", "guard_transport")},
		},
		baseURL: strings.TrimRight(cfg.GuardBaseURL, "/"),
		secret:  cfg.GuardSecret,
		log:     logger.WithField("component", "guard_client"),
	}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := t.log.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.Redacted(),
	})

	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		log.WithError(err).Error("HTTP request failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration":    time.Since(start),
	}).Debug("HTTP request completed")
	return resp, nil
}

type uploadRequest struct {
	ScriptName string `json:"scriptName"`
	ScriptCode string `json:"scriptCode"`
	Secret     string `json:"secret"`
}

type uploadResponse struct {
	Success bool           `json:"success"`
	Script  *models.Script `json:"script"`
	Data    *models.Script `json:"data"`
}

type listResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Scripts []models.Script `json:"scripts"`
}

// Upload pushes a script payload. The guard service owns the final id
// assignment; whatever identity it returns is propagated verbatim. A
// guard response carrying no script record falls back to the submitted
// fields so callers always see a complete record.
func (c *Client) Upload(ctx context.Context, name, code string) (*models.Script, error) {
	body, err := json.Marshal(uploadRequest{ScriptName: name, ScriptCode: code, Secret: c.secret})
	if err != nil {
		return nil, fmt.Errorf("encode upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "InfinityBodyGuardDashboard/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("name", name).Error("Upload request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp)
	}

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	remote := ur.Script
	if remote == nil {
		remote = ur.Data
	}
	if remote == nil {
		now := time.Now()
		remote = &models.Script{
			ID:        name,
			Name:      name,
			Code:      code,
			CreatedAt: now,
			UpdatedAt: now,
			Status:    models.StatusActive,
		}
		remote.Measure()
	}
	return remote, nil
}

// List fetches all scripts the guard service holds.
func (c *Client) List(ctx context.Context) ([]models.Script, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/scripts?secret="+url.QueryEscape(c.secret), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "InfinityBodyGuardDashboard/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).Error("List request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp)
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return lr.Scripts, nil
}

// Delete removes a script by name.
func (c *Client) Delete(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/api/script/"+url.PathEscape(name)+"?secret="+url.QueryEscape(c.secret), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "InfinityBodyGuardDashboard/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("name", name).Error("Delete request failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.log.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"url":         resp.Request.URL.Redacted(),
	}).Warn("Guard service returned non-2xx response")
	return &StatusError{Code: resp.StatusCode, Body: string(body)}
}
