package enrichment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestClientAnalyzeImage(t *testing.T) {
	const expectedURL = "http://gemini.test/v1beta/models/flash-test:generateContent?key=test-key"
	respBody := `{"candidates":[{"content":{"parts":[{"text":"{\"country\":\"Portugal\",\"extractionNo\":\"27\"}"}]}}]}`

	var capturedURL string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()

		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		if _, ok := payload["contents"]; !ok {
			t.Fatalf("request carries no contents: %v", payload)
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key",
		WithBaseURL("http://gemini.test/v1beta"),
		WithModels("flash-test", "pro-test"),
		WithHTTPClient(&http.Client{Transport: rt}),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	details, err := client.AnalyzeImage(context.Background(), "image/png", "AAAA")
	if err != nil {
		t.Fatalf("analyze image: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if details.Country != "Portugal" || details.ExtractionNo != "27" {
		t.Fatalf("unexpected details %+v", details)
	}
}

func TestClientAnalyzeImageStripsCodeFence(t *testing.T) {
	respBody := `{"candidates":[{"content":{"parts":[{"text":"` + "```json\\n{\\\"country\\\":\\\"Brasil\\\"}\\n```" + `"}]}}]}`

	rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	details, err := client.AnalyzeImage(context.Background(), "", "AAAA")
	if err != nil {
		t.Fatalf("analyze image: %v", err)
	}
	if details.Country != "Brasil" {
		t.Fatalf("unexpected details %+v", details)
	}
}

func TestClientResearchCollectsSources(t *testing.T) {
	respBody := `{"candidates":[{"content":{"parts":[{"text":"A Lotaria Nacional começou em 1783."}]},"groundingMetadata":{"groundingChunks":[{"web":{"title":"Santa Casa","uri":"https://example.test/historia"}},{"web":{"title":"sem uri","uri":""}}]}}]}`

	rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key",
		WithBaseURL("http://gemini.test/v1beta"),
		WithHTTPClient(&http.Client{Transport: rt}),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	result, err := client.Research(context.Background(), "história da lotaria nacional")
	if err != nil {
		t.Fatalf("research: %v", err)
	}
	if !strings.Contains(result.Text, "1783") {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if len(result.Sources) != 1 || result.Sources[0].URI != "https://example.test/historia" {
		t.Fatalf("unexpected sources %+v", result.Sources)
	}
}

func TestClientUpstreamFailure(t *testing.T) {
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"quota"}}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.AnalyzeImage(context.Background(), "", "AAAA"); err == nil {
		t.Fatalf("expected error on upstream failure")
	}
}

func TestClientInputValidation(t *testing.T) {
	client, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.AnalyzeImage(context.Background(), "", " "); err == nil {
		t.Fatalf("expected error for empty image")
	}
	if _, err := client.Research(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
	if _, err := NewClient("  "); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}
