package llamacloud

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"agreements-backend/internal/agreements"
)

const defaultAPIURL = "https://api.cloud.llamaindex.ai/api/v1/extraction/run"

// Client implements agreements.ExtractionBackend against the LlamaCloud
// extraction API.
type Client struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewClient constructs a LlamaCloud client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("LLAMA_PARSE_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("EXTRACT_MODEL is required")
	}
	timeout := 180 * time.Second
	if raw := strings.TrimSpace(os.Getenv("LLAMA_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		apiURL: defaultAPIURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type extractConfig struct {
	ExtractionMode     string `json:"extraction_mode"`
	ExtractModel       string `json:"extract_model"`
	HighResOCR         bool   `json:"high_res_ocr"`
	HighResolutionMode bool   `json:"high_resolution_mode"`
	UseReasoning       bool   `json:"use_reasoning"`
	PageRange          string `json:"page_range"`
}

type extractRequest struct {
	DataSchema map[string]any `json:"data_schema"`
	Config     extractConfig  `json:"config"`
	File       string         `json:"file"`
	FileType   string         `json:"file_type"`
}

type extractResponse struct {
	Data  map[string]any `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Extract runs one schema-guided extraction over the given page range.
func (c *Client) Extract(ctx context.Context, shape agreements.FieldShape, pageRange string, document []byte) (map[string]any, error) {
	reqBody := extractRequest{
		DataSchema: shape.JSONSchema(),
		Config: extractConfig{
			// Premium mode is required for checkbox detection.
			ExtractionMode:     "PREMIUM",
			ExtractModel:       c.model,
			HighResOCR:         true,
			HighResolutionMode: true,
			UseReasoning:       true,
			PageRange:          pageRange,
		},
		File:     base64.StdEncoding.EncodeToString(document),
		FileType: "application/pdf",
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("llamacloud request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llamacloud status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed extractResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("llamacloud response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("llamacloud error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if parsed.Data == nil {
		return nil, fmt.Errorf("llamacloud response missing data")
	}
	return parsed.Data, nil
}

var _ agreements.ExtractionBackend = (*Client)(nil)
