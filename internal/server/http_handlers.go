package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"resumate/internal/ai"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	timeout := s.AppConfig.Observability.HealthCheck.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return timeout
}

// healthHandler provides a health check endpoint including AI model status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "resumate",
		"version": s.Version,
	}

	// Check AI model availability for both operations
	aiStatus := s.checkAIModelsHealth()
	response["ai_models"] = aiStatus

	// Check circuit breaker status
	response["circuit_breakers"] = s.checkCircuitBreakerHealth()

	// Embedding availability only degrades matching quality, report it
	// without failing the health check
	response["embedding"] = map[string]any{
		"available": s.Embedder != nil && s.Embedder.Available(),
	}

	// An unavailable AI model degrades the service but scoring still works
	for _, modelStatus := range aiStatus {
		if modelInfo, ok := modelStatus.(map[string]any); ok {
			if available, ok := modelInfo["available"].(bool); ok && !available {
				response["status"] = "degraded"
				w.WriteHeader(http.StatusServiceUnavailable)
				break
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkAIModelsHealth checks the models behind the optimize and extract services
func (s *Server) checkAIModelsHealth() map[string]any {
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	aiStatus := make(map[string]any)
	aiStatus["optimize"] = s.modelStatus(ctx, s.OptimizeAI)
	aiStatus["extract"] = s.modelStatus(ctx, s.ExtractAI)
	return aiStatus
}

func (s *Server) modelStatus(ctx context.Context, service *ai.Service) map[string]any {
	if service == nil {
		return map[string]any{
			"available": false,
			"error":     "service not configured (missing API key)",
		}
	}

	info := service.GetModelInfo(ctx)
	if info == nil {
		return map[string]any{"available": false}
	}
	return map[string]any{
		"available":    info.Available,
		"name":         info.Name,
		"display_name": info.DisplayName,
		"error":        info.Error,
	}
}

// checkCircuitBreakerHealth reports breaker state for both AI services
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	status := make(map[string]any)

	if s.OptimizeAI != nil {
		status["optimize"] = s.OptimizeAI.CircuitBreakerStats()
	} else {
		status["optimize"] = map[string]any{"available": false}
	}
	if s.ExtractAI != nil {
		status["extract"] = s.ExtractAI.CircuitBreakerStats()
	} else {
		status["extract"] = map[string]any{"available": false}
	}

	return status
}

// statsHandler provides server statistics including rate limiting and cache info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumate",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.Pipeline != nil {
		response["analyses_recorded"] = s.Pipeline.History().Len()
	}

	if s.Embedder != nil {
		stats := s.Embedder.Stats()
		response["embedding_cache"] = map[string]any{
			"hits":   stats.Hits,
			"misses": stats.Misses,
		}
	}

	if s.Scorer != nil {
		hits, misses := s.Scorer.CacheStats()
		response["score_cache"] = map[string]any{
			"hits":   hits,
			"misses": misses,
		}
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
