// Package ollama implements llm.Provider against a locally running Ollama
// server's generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/verseflow/internal/types"
	"github.com/user/verseflow/pkg/llm"
)

const (
	defaultTimeout = 120 * time.Second // first request may wait on model load
	probeTimeout   = 2 * time.Second

	generatePath = "/api/generate"
	tagsPath     = "/api/tags"
)

// verifyPrompt is the fixed diagnostic prompt for VerifyIdentity.
const verifyPrompt = "In one short sentence, state exactly which model is responding to this message."

// Client implements the llm.Provider interface for Ollama.
type Client struct {
	config *llm.Config

	// httpClient bounds blocking calls with a hard timeout; streamClient has
	// none, because streams are bounded by their context.
	httpClient   *http.Client
	streamClient *http.Client
	probeClient  *http.Client
}

// New creates an Ollama client with the given configuration.
func New(config *llm.Config) *Client {
	timeout := defaultTimeout
	if config.TimeoutSeconds > 0 {
		timeout = time.Duration(config.TimeoutSeconds) * time.Second
	}
	return &Client{
		config:       config,
		httpClient:   &http.Client{Timeout: timeout},
		streamClient: &http.Client{},
		probeClient:  &http.Client{Timeout: probeTimeout},
	}
}

// generateRequest is the Ollama generate API request body.
type generateRequest struct {
	Model   string      `json:"model"`
	Prompt  string      `json:"prompt"`
	Stream  bool        `json:"stream"`
	Options *genOptions `json:"options,omitempty"`
}

// genOptions carries the generation parameters.
type genOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	TopK        int     `json:"top_k,omitempty"`
}

// generateResponse is the non-streaming generate API response body.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

func (c *Client) newGenerateRequest(ctx context.Context, prompt string, stream bool) (*http.Request, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: stream,
		Options: &genOptions{
			Temperature: c.config.Temperature,
			TopP:        c.config.TopP,
			TopK:        c.config.TopK,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// classifyTransport maps a failed round trip onto the error taxonomy:
// timeouts are generic request failures, everything else at the transport
// level means the local server isn't there.
func (c *Client) classifyTransport(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return &types.ModelRequestError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &types.ModelRequestError{Err: err}
	}
	return &types.ModelUnreachableError{BaseURL: c.config.BaseURL, Err: err}
}

// classifyStatus maps a non-OK HTTP status onto the error taxonomy. A 404
// from the generate endpoint means the model isn't pulled on this server.
func (c *Client) classifyStatus(status int, body []byte) error {
	if status == http.StatusNotFound {
		return &types.ModelNotConfiguredError{Model: c.config.Model}
	}
	return &types.ModelRequestError{
		Err: fmt.Errorf("server returned status %d: %s", status, bytes.TrimSpace(body)),
	}
}

// Generate sends a blocking generation request and returns the full text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req, err := c.newGenerateRequest(ctx, prompt, false)
	if err != nil {
		return "", &types.ModelRequestError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &types.ModelRequestError{Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.classifyStatus(resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", &types.ModelRequestError{Err: fmt.Errorf("parsing response: %w", err)}
	}
	if genResp.Error != "" {
		return "", &types.ModelRequestError{Err: errors.New(genResp.Error)}
	}

	return genResp.Response, nil
}

// GenerateStream sends a streaming generation request. Fragments are
// delivered to onChunk synchronously, in arrival order, with no batching.
// Consumption stops at the first record with done set, even if bytes remain
// buffered: the server may close the stream abruptly after the final record,
// so trailing bytes are ignored rather than treated as an error. Cancelling
// ctx discards any accumulated text and returns types.ErrGenerationAborted.
func (c *Client) GenerateStream(ctx context.Context, prompt string, onChunk func(string)) (string, error) {
	req, err := c.newGenerateRequest(ctx, prompt, true)
	if err != nil {
		return "", &types.ModelRequestError{Err: err}
	}

	resp, err := c.streamClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", types.ErrGenerationAborted
		}
		return "", c.classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", c.classifyStatus(resp.StatusCode, body)
	}

	var (
		parser lineParser
		full   strings.Builder
		buf    = make([]byte, 4096)
	)
	for {
		// Observe cancellation between reads; chunks arriving afterwards are
		// never delivered.
		if ctx.Err() != nil {
			return "", types.ErrGenerationAborted
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			records, perr := parser.Feed(buf[:n])
			if perr != nil {
				return "", &types.ModelRequestError{Err: perr}
			}
			for _, rec := range records {
				if rec.Error != "" {
					return "", &types.ModelRequestError{Err: errors.New(rec.Error)}
				}
				if rec.Response != "" {
					onChunk(rec.Response)
					full.WriteString(rec.Response)
				}
				if rec.Done {
					return full.String(), nil
				}
			}
		}
		if readErr != nil {
			if ctx.Err() != nil {
				return "", types.ErrGenerationAborted
			}
			if errors.Is(readErr, io.EOF) {
				return "", &types.ModelRequestError{Err: errors.New("stream ended before completion record")}
			}
			return "", &types.ModelRequestError{Err: readErr}
		}
	}
}

// TestConnection probes the server's model-listing endpoint. Advisory only:
// every failure mode is reported as false, never an error.
func (c *Client) TestConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+tagsPath, nil)
	if err != nil {
		return false
	}
	resp, err := c.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// VerifyIdentity sends the fixed confirmation prompt and returns the raw
// reply, so an operator can confirm the expected model is answering.
func (c *Client) VerifyIdentity(ctx context.Context) (string, error) {
	return c.Generate(ctx, verifyPrompt)
}

var _ llm.Provider = (*Client)(nil)
