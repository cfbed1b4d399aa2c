package enrichment

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

	pkgerrors "github.com/worldoflottery/archive-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://generativelanguage.googleapis.com/v1beta"
	defaultAnalyzeModel        = "gemini-3-flash-preview"
	defaultResearchModel       = "gemini-3-pro-preview"
	errorBodyReadLimit   int64 = 1024
)

var errAPIKeyRequired = errors.New("gemini api key is required")

// analyzePrompt instructs the model to return only the JSON fields the entry
// form can prefill. Unreadable fields must be omitted, not guessed.
const analyzePrompt = `Analisa esta imagem de um bilhete de lotaria de coleção. ` +
	`Extrai os campos visíveis e responde apenas com JSON com as chaves: ` +
	`country, entity, type, extractionNo, drawDate (YYYY-MM-DD), value, dimensions, state, notes. ` +
	`Omite qualquer chave que não consigas ler com confiança.`

// Client wraps the Gemini generateContent API used for ticket enrichment.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	analyzeModel  string
	researchModel string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Gemini base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithModels overrides the models used for analysis and research calls.
func WithModels(analyzeModel, researchModel string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(analyzeModel); trimmed != "" {
			c.analyzeModel = trimmed
		}
		if trimmed := strings.TrimSpace(researchModel); trimmed != "" {
			c.researchModel = trimmed
		}
	}
}

// NewClient builds the Gemini client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:        trimmedKey,
		baseURL:       defaultBaseURL,
		analyzeModel:  defaultAnalyzeModel,
		researchModel: defaultResearchModel,
		httpClient:    &http.Client{Timeout: 45 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 45 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// TicketDetails is the partial record extracted from a ticket scan. Every
// field is optional; the entry form only prefills what came back.
type TicketDetails struct {
	Country      string `json:"country,omitempty"`
	Entity       string `json:"entity,omitempty"`
	Type         string `json:"type,omitempty"`
	ExtractionNo string `json:"extractionNo,omitempty"`
	DrawDate     string `json:"drawDate,omitempty"`
	Value        string `json:"value,omitempty"`
	Dimensions   string `json:"dimensions,omitempty"`
	State        string `json:"state,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ResearchResult carries the grounded write-up about a ticket.
type ResearchResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources,omitempty"`
}

// Source is a web reference backing a research answer.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateRequest struct {
	Contents []struct {
		Parts []generatePart `json:"parts"`
	} `json:"contents"`
	Tools            []map[string]any `json:"tools,omitempty"`
	GenerationConfig *struct {
		ResponseMIMEType string `json:"responseMimeType,omitempty"`
	} `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		GroundingMetadata struct {
			GroundingChunks []struct {
				Web struct {
					Title string `json:"title"`
					URI   string `json:"uri"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// AnalyzeImage extracts ticket fields from a base64-encoded scan.
func (c *Client) AnalyzeImage(ctx context.Context, mimeType, imageBase64 string) (TicketDetails, error) {
	if c == nil {
		return TicketDetails{}, pkgerrors.New(pkgerrors.CodeDependency, "gemini client not configured")
	}
	if strings.TrimSpace(imageBase64) == "" {
		return TicketDetails{}, pkgerrors.New(pkgerrors.CodeValidation, "ticket image is required")
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = "image/jpeg"
	}

	var req generateRequest
	req.Contents = make([]struct {
		Parts []generatePart `json:"parts"`
	}, 1)
	req.Contents[0].Parts = []generatePart{
		{Text: analyzePrompt},
		{InlineData: &inlineData{MIMEType: mimeType, Data: imageBase64}},
	}
	req.GenerationConfig = &struct {
		ResponseMIMEType string `json:"responseMimeType,omitempty"`
	}{ResponseMIMEType: "application/json"}

	apiResp, err := c.generate(ctx, c.analyzeModel, req, "analyze")
	if err != nil {
		return TicketDetails{}, err
	}

	raw := firstCandidateText(apiResp)
	if raw == "" {
		return TicketDetails{}, pkgerrors.New(pkgerrors.CodeDependency, "analyze response carried no content")
	}

	var details TicketDetails
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &details); err != nil {
		return TicketDetails{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode analyze fields")
	}
	return details, nil
}

// Research asks a grounded question about a ticket and returns the answer
// with its web sources.
func (c *Client) Research(ctx context.Context, prompt string) (ResearchResult, error) {
	if c == nil {
		return ResearchResult{}, pkgerrors.New(pkgerrors.CodeDependency, "gemini client not configured")
	}
	if strings.TrimSpace(prompt) == "" {
		return ResearchResult{}, pkgerrors.New(pkgerrors.CodeValidation, "research prompt is required")
	}

	var req generateRequest
	req.Contents = make([]struct {
		Parts []generatePart `json:"parts"`
	}, 1)
	req.Contents[0].Parts = []generatePart{{Text: prompt}}
	req.Tools = []map[string]any{{"google_search": map[string]any{}}}

	apiResp, err := c.generate(ctx, c.researchModel, req, "research")
	if err != nil {
		return ResearchResult{}, err
	}

	text := firstCandidateText(apiResp)
	if text == "" {
		return ResearchResult{}, pkgerrors.New(pkgerrors.CodeDependency, "research response carried no content")
	}

	result := ResearchResult{Text: text}
	if len(apiResp.Candidates) > 0 {
		for _, chunk := range apiResp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web.URI == "" {
				continue
			}
			result.Sources = append(result.Sources, Source{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}
	return result, nil
}

func (c *Client) generate(ctx context.Context, model string, req generateRequest, label string) (generateResponse, error) {
	var apiResp generateResponse

	payload, err := json.Marshal(req)
	if err != nil {
		return apiResp, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("marshal %s request", label))
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.baseURL, "/"), url.PathEscape(model), url.QueryEscape(c.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return apiResp, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("build %s request", label))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apiResp, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("execute %s request", label))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return apiResp, pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			fmt.Sprintf("%s request failed", label))
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return apiResp, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", label))
	}
	return apiResp, nil
}

func firstCandidateText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}

// stripCodeFence removes a surrounding ```json fence when the model wraps
// its JSON despite the response MIME type hint.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
