package inbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"medreview/pkg/model"
)

// DefaultTimeout bounds a single request to the report store.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps response reads (4MB).
const maxBodySize = 4 * 1024 * 1024

// Client talks to the remote report store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	classify   PriorityClassifier
}

// NewClient creates a store client for the given base URL, e.g.
// "https://reports.example.com". A zero timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		classify:   DefaultPriorityClassifier,
	}
}

// SetPriorityClassifier overrides the default priority assignment.
func (c *Client) SetPriorityClassifier(classify PriorityClassifier) {
	if classify != nil {
		c.classify = classify
	}
}

// FetchInbox retrieves and normalizes the full report inbox for a clinician.
// A response with success=false, a non-2xx status or a non-JSON body all
// surface as errors; the caller keeps its last-good collection in that case.
func (c *Client) FetchInbox(ctx context.Context, userID string) ([]model.Report, error) {
	url := fmt.Sprintf("%s/api/doctor/inbox/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build inbox request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch inbox: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read inbox response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report store returned status: %s", resp.Status)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("report store returned malformed JSON")
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.Get("success").Bool() {
		msg := parsed.Get("error").String()
		if msg == "" {
			msg = "unknown store error"
		}
		return nil, fmt.Errorf("report store refused inbox fetch: %s", msg)
	}

	now := time.Now()
	var reports []model.Report
	parsed.Get("reports").ForEach(func(_, record gjson.Result) bool {
		reports = append(reports, NormalizeRecord(record, c.classify, now))
		return true
	})
	return reports, nil
}

// PatchReport sends a partial update for one report. The acknowledgement
// body is not interpreted beyond the HTTP status; the optimistic local merge
// has already happened by the time this is called.
func (c *Client) PatchReport(ctx context.Context, userID, reportID string, p Patch) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	url := fmt.Sprintf("%s/api/doctor/inbox/%s/%s", c.baseURL, userID, reportID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build patch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("patch report %s: %w", reportID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("report store rejected patch for %s: %s", reportID, resp.Status)
	}
	return nil
}
