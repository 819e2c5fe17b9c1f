package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"resumate/internal/config"
)

func testLimiter(requestsPerMin, burst int) *LimiterManager {
	return NewLimiterManager(&config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: requestsPerMin,
		BurstCapacity:  burst,
		ByIP:           true,
	}, nil)
}

func TestLimiterAllowRespectsBurst(t *testing.T) {
	m := testLimiter(1, 2)
	defer m.Close()

	if !m.Allow("ip:10.0.0.1") {
		t.Error("First request should be allowed")
	}
	if !m.Allow("ip:10.0.0.1") {
		t.Error("Second request should fit in the burst")
	}
	if m.Allow("ip:10.0.0.1") {
		t.Error("Third request should exhaust the bucket")
	}
	if !m.Allow("ip:10.0.0.2") {
		t.Error("A different key gets its own bucket")
	}
}

func TestLimiterEvictsIdleKeys(t *testing.T) {
	m := testLimiter(60, 10)
	defer m.Close()

	m.Allow("ip:10.0.0.1")
	m.Allow("ip:10.0.0.2")

	m.mu.Lock()
	m.lastSeen["ip:10.0.0.1"] = time.Now().Add(-time.Hour)
	m.mu.Unlock()

	m.evictIdle(limiterIdleEviction)

	stats := m.GetStats()
	if got := stats["active_limiters"].(int); got != 1 {
		t.Errorf("Expected 1 limiter after eviction, got %d", got)
	}
}

func TestRateLimitKeyPrecedence(t *testing.T) {
	r := httptest.NewRequest("POST", "/analyze", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-API-Key", "abc123")

	if key := rateLimitKey(r, true, true); key != "api:abc123" {
		t.Errorf("Expected API key to win, got %q", key)
	}
	if key := rateLimitKey(r, false, true); key != "ip:10.0.0.1" {
		t.Errorf("Expected IP key, got %q", key)
	}
	if key := rateLimitKey(r, false, false); key != "" {
		t.Errorf("Expected empty key when both modes are off, got %q", key)
	}
}

func TestGetClientIPFromForwardedHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/health", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	if ip := getClientIP(r); ip != "10.0.0.1" {
		t.Errorf("Expected RemoteAddr host, got %q", ip)
	}

	r.Header.Set("X-Forwarded-For", "not-an-ip, 203.0.113.7")
	if ip := getClientIP(r); ip != "203.0.113.7" {
		t.Errorf("Expected first valid forwarded IP, got %q", ip)
	}
}
