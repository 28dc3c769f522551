package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/resilience"
)

// backendRequest is the wire body of the compare function.
type backendRequest struct {
	Query   string   `json:"query"`
	Type    string   `json:"type"`
	Action  string   `json:"action,omitempty"`
	Context string   `json:"context,omitempty"`
	Reviews []string `json:"reviews,omitempty"`
}

// Actions accepted by the compare function.
const (
	actionCompare        = "compare"
	actionBarcodeLookup  = "barcode-lookup"
	actionNameLookup     = "name-lookup"
	actionChat           = "chat"
	actionSummarize      = "summarize"
	actionAnalyzeReviews = "analyze-reviews"
)

const comparePath = "/functions/v1/compare"

// backendClient posts requests to the compare function and decodes the
// envelope. Failure envelopes from the backend are values, not errors; errors
// are reserved for transport-level problems.
type backendClient struct {
	baseURL string
	http    *http.Client
}

func newBackendClient(baseURL string, httpClient *http.Client) *backendClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &backendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *backendClient) compare(ctx context.Context, req backendRequest) (*model.CompareResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "search: failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+comparePath, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "search: failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "search: failed to send request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "search: failed to read response")
	}

	var result model.CompareResult
	if err := json.Unmarshal(body, &result); err != nil {
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(
				eris.Errorf("search: backend returned status %d", resp.StatusCode), resp.StatusCode)
		}
		return nil, eris.Wrapf(err, "search: failed to unmarshal response (status %d)", resp.StatusCode)
	}
	return &result, nil
}
