package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Client handles Azure Document Intelligence API operations
type Client struct {
	endpoint   string
	apiKey     string
	apiVersion string
	model      string
	httpClient *http.Client

	// Metrics
	analyzeRequestsTotal     metric.Int64Counter
	analyzeRequestDuration   metric.Float64Histogram
	analyzeRequestErrors     metric.Int64Counter
	apiRequestsTotal         metric.Int64Counter
	apiRequestDuration       metric.Float64Histogram
	apiRequestErrors         metric.Int64Counter
	confidenceScoreHistogram metric.Float64Histogram
}

// NewClient creates a new Document Intelligence client
func NewClient(endpoint, apiKey, apiVersion, model string) *Client {
	meter := otel.Meter("azure_document_intelligence")

	analyzeRequestsTotal, _ := meter.Int64Counter(
		"azure_document_intelligence_analyze_requests_total",
		metric.WithDescription("Total number of document analysis requests"),
		metric.WithUnit("1"),
	)

	analyzeRequestDuration, _ := meter.Float64Histogram(
		"azure_document_intelligence_analyze_duration_seconds",
		metric.WithDescription("Duration of document analysis requests"),
		metric.WithUnit("s"),
	)

	analyzeRequestErrors, _ := meter.Int64Counter(
		"azure_document_intelligence_analyze_errors_total",
		metric.WithDescription("Total number of document analysis errors"),
		metric.WithUnit("1"),
	)

	apiRequestsTotal, _ := meter.Int64Counter(
		"azure_document_intelligence_api_requests_total",
		metric.WithDescription("Total number of API requests to Azure Document Intelligence"),
		metric.WithUnit("1"),
	)

	apiRequestDuration, _ := meter.Float64Histogram(
		"azure_document_intelligence_api_duration_seconds",
		metric.WithDescription("Duration of API requests to Azure Document Intelligence"),
		metric.WithUnit("s"),
	)

	apiRequestErrors, _ := meter.Int64Counter(
		"azure_document_intelligence_api_errors_total",
		metric.WithDescription("Total number of API errors from Azure Document Intelligence"),
		metric.WithUnit("1"),
	)

	confidenceScoreHistogram, _ := meter.Float64Histogram(
		"azure_document_intelligence_confidence_score",
		metric.WithDescription("Confidence scores from Azure Document Intelligence"),
		metric.WithUnit("1"),
	)

	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		apiVersion: apiVersion,
		model:      model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},

		analyzeRequestsTotal:     analyzeRequestsTotal,
		analyzeRequestDuration:   analyzeRequestDuration,
		analyzeRequestErrors:     analyzeRequestErrors,
		apiRequestsTotal:         apiRequestsTotal,
		apiRequestDuration:       apiRequestDuration,
		apiRequestErrors:         apiRequestErrors,
		confidenceScoreHistogram: confidenceScoreHistogram,
	}
}

// Analyze submits the binary content to the configured receipt model and
// blocks until the analysis completes. The decoded result is returned as-is;
// interpreting the field bags is the caller's concern.
func (c *Client) Analyze(ctx context.Context, content []byte, contentType string) (*AnalyzeResult, error) {
	startTime := time.Now()

	attrs := []attribute.KeyValue{
		attribute.String("model", c.model),
		attribute.String("content_type", contentType),
		attribute.Int("content_size_bytes", len(content)),
		attribute.String("operation", "analyze"),
	}
	c.analyzeRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	operationLocation, err := c.startAnalysis(ctx, content, contentType)
	if err != nil {
		errorAttrs := append(attrs,
			attribute.String("error_type", fmt.Sprintf("%T", err)),
			attribute.String("error_stage", "start_analysis"),
		)
		c.analyzeRequestErrors.Add(ctx, 1, metric.WithAttributes(errorAttrs...))
		c.analyzeRequestDuration.Record(ctx, time.Since(startTime).Seconds(), metric.WithAttributes(errorAttrs...))

		return nil, fmt.Errorf("failed to start analysis: %w", err)
	}

	response, err := c.pollForResults(ctx, operationLocation)
	if err != nil {
		errorAttrs := append(attrs,
			attribute.String("error_type", fmt.Sprintf("%T", err)),
			attribute.String("error_stage", "poll_results"),
		)
		c.analyzeRequestErrors.Add(ctx, 1, metric.WithAttributes(errorAttrs...))
		c.analyzeRequestDuration.Record(ctx, time.Since(startTime).Seconds(), metric.WithAttributes(errorAttrs...))

		return nil, fmt.Errorf("failed to get analysis results: %w", err)
	}

	if response.AnalyzeResult == nil {
		errorAttrs := append(attrs, attribute.String("error_stage", "empty_result"))
		c.analyzeRequestErrors.Add(ctx, 1, metric.WithAttributes(errorAttrs...))
		return nil, fmt.Errorf("analysis succeeded but returned no result")
	}

	result := response.AnalyzeResult

	duration := time.Since(startTime)
	successAttrs := append(attrs,
		attribute.String("outcome", "success"),
		attribute.Int("documents", len(result.Documents)),
	)
	c.analyzeRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(successAttrs...))
	if len(result.Documents) > 0 {
		c.confidenceScoreHistogram.Record(ctx, result.Documents[0].Confidence, metric.WithAttributes(successAttrs...))
	}

	return result, nil
}

// ModelID returns the configured analysis model identifier.
func (c *Client) ModelID() string {
	return c.model
}

func (c *Client) startAnalysis(ctx context.Context, content []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, c.model, c.apiVersion)

	body := bytes.NewReader(content)

	req, err := http.NewRequestWithContext(ctx, "POST", url, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	apiStartTime := time.Now()
	apiAttrs := []attribute.KeyValue{
		attribute.String("endpoint", "analyze"),
		attribute.String("method", "POST"),
		attribute.String("model", c.model),
		attribute.String("api_version", c.apiVersion),
	}
	c.apiRequestsTotal.Add(ctx, 1, metric.WithAttributes(apiAttrs...))

	resp, err := c.httpClient.Do(req)
	apiDuration := time.Since(apiStartTime)
	c.apiRequestDuration.Record(ctx, apiDuration.Seconds(), metric.WithAttributes(apiAttrs...))

	if err != nil {
		errorAttrs := append(apiAttrs,
			attribute.String("error_type", fmt.Sprintf("%T", err)),
			attribute.String("error_category", "http_request"),
		)
		c.apiRequestErrors.Add(ctx, 1, metric.WithAttributes(errorAttrs...))

		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		bodyBytes, _ := io.ReadAll(resp.Body)

		errorAttrs := append(apiAttrs,
			attribute.String("error_type", "api_error"),
			attribute.String("error_category", "status_error"),
			attribute.Int("status_code", resp.StatusCode),
		)
		c.apiRequestErrors.Add(ctx, 1, metric.WithAttributes(errorAttrs...))

		return "", fmt.Errorf("analysis request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	operationLocation := resp.Header.Get("Operation-Location")
	if operationLocation == "" {
		return "", fmt.Errorf("operation-location header not found in response")
	}

	return operationLocation, nil
}

func (c *Client) pollForResults(ctx context.Context, operationLocation string) (*analyzeResponse, error) {
	maxAttempts := 30
	pollInterval := 5 * time.Second

	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", operationLocation, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create status request: %w", err)
		}

		req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to check status: %w", err)
		}

		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
		}

		var result analyzeResponse
		if err := json.Unmarshal(bodyBytes, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}

		if result.Error != nil {
			return nil, fmt.Errorf("document intelligence error: %s - %s", result.Error.Code, result.Error.Message)
		}

		switch result.Status {
		case "succeeded":
			return &result, nil
		case "failed":
			return nil, fmt.Errorf("document analysis failed")
		case "running", "notStarted":
		default:
			return nil, fmt.Errorf("unexpected status: %s", result.Status)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}

	return nil, fmt.Errorf("polling timeout exceeded")
}

func (c *Client) ValidateConfiguration() error {
	if c.endpoint == "" {
		return fmt.Errorf("document intelligence endpoint is required")
	}
	if c.apiKey == "" {
		return fmt.Errorf("document intelligence API key is required")
	}
	if c.apiVersion == "" {
		return fmt.Errorf("document intelligence API version is required")
	}
	if c.model == "" {
		return fmt.Errorf("document intelligence model is required")
	}
	return nil
}
