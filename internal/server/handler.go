package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resumate/internal/config"
	appErrors "resumate/internal/errors"
	"resumate/internal/extract"
	"resumate/internal/observability"
	"resumate/internal/pipeline"

	"go.opentelemetry.io/otel/attribute"
)

// createAnalyzeHandler wraps the analyze handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumate.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, err := s.parseAnalyzeRequest(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_bytes", len(req.ResumeData)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("request.resume_format", string(req.ResumeFormat)),
			attribute.String("operation", "analyze"),
		)

		started := time.Now()
		result, err := s.Pipeline.Analyze(ctx, req)
		duration := time.Since(started)

		metrics := om.GetMetrics()
		metrics.RecordAnalysis(ctx, result.ATS.Score, duration, result.Optimization != nil, err == nil)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "pipeline"))
			writeErrorResponse(w, "Analysis failed", err.Error(), statusForError(err))
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("ats.score", result.ATS.Score),
			attribute.String("semantic.method", result.Semantic.Method),
			attribute.Bool("optimized", result.Optimization != nil),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// parseAnalyzeRequest reads the multipart analyze request: a resume
// document part plus job description and optional target role fields.
func (s *Server) parseAnalyzeRequest(r *http.Request) (pipeline.AnalyzeRequest, error) {
	var req pipeline.AnalyzeRequest

	maxMemory := s.MaxRequestSize
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return req, fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return req, fmt.Errorf("expected multipart form data: %w", err)
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		return req, fmt.Errorf("resume file is required: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil && s.Logger != nil {
			s.Logger.Warn("Failed to close uploaded file", "error", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return req, fmt.Errorf("failed to read resume upload: %w", err)
	}
	if len(data) == 0 {
		return req, fmt.Errorf("resume file is empty")
	}

	format, contentTypeIgnored, err := extract.DetectFormat(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		return req, err
	}
	if contentTypeIgnored && s.Logger != nil {
		s.Logger.Warn("Unrecognized resume content type, using file extension",
			"filename", header.Filename,
			"content_type", header.Header.Get("Content-Type"))
	}

	jdText := r.FormValue("job_description")
	if strings.TrimSpace(jdText) == "" {
		return req, fmt.Errorf("job_description field is required")
	}

	req = pipeline.AnalyzeRequest{
		ResumeData:     data,
		ResumeFormat:   format,
		JobDescription: jdText,
		TargetRole:     r.FormValue("target_role"),
	}

	weights, err := parseWeightOverrides(r)
	if err != nil {
		return req, err
	}
	req.Weights = weights

	return req, nil
}

// parseWeightOverrides reads the optional per-request scoring weights.
// All four fields must be provided together.
func parseWeightOverrides(r *http.Request) (*config.WeightsConfig, error) {
	fields := []string{"weight_semantic", "weight_keyword", "weight_structure", "weight_action"}

	present := 0
	values := make([]float64, len(fields))
	for i, field := range fields {
		raw := r.FormValue(field)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", field, raw)
		}
		values[i] = value
		present++
	}

	if present == 0 {
		return nil, nil
	}
	if present != len(fields) {
		return nil, fmt.Errorf("scoring weights must be provided together: %s", strings.Join(fields, ", "))
	}

	return &config.WeightsConfig{
		Semantic:  values[0],
		Keyword:   values[1],
		Structure: values[2],
		Action:    values[3],
	}, nil
}

// statusForError maps classified pipeline errors to HTTP status codes
func statusForError(err error) int {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case appErrors.ErrorTypeValidation, appErrors.ErrorTypeParse:
			return http.StatusBadRequest
		case appErrors.ErrorTypeAI, appErrors.ErrorTypeNetwork, appErrors.ErrorTypeEmbedding:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := originalMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			limited(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				om.GetMetrics().RecordRateLimitHit(r.Context(),
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
