package pipeline

import (
	"sync"
	"time"

	"resumate/internal/types"
)

// AnalysisRecord is one completed analysis with its timestamp
type AnalysisRecord struct {
	Timestamp time.Time            `json:"timestamp"`
	Result    types.AnalysisResult `json:"result"`
}

// History is an append-only in-memory record of completed analyses.
// It lives for the process lifetime and is never persisted.
type History struct {
	mu      sync.RWMutex
	records []AnalysisRecord
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{}
}

// Append records a completed analysis
func (h *History) Append(result types.AnalysisResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, AnalysisRecord{
		Timestamp: time.Now().UTC(),
		Result:    result,
	})
}

// Records returns a copy of all recorded analyses in order
func (h *History) Records() []AnalysisRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]AnalysisRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len reports the number of recorded analyses
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
