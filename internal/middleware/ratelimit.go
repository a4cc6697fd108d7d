package middleware

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

// tokenBucket refills to capacity once per second. No queueing: past the
// budget the request is dropped with 429. The BAN behind us is rate-limited,
// so shedding early is cheaper than timing out downstream.
type tokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	mu       sync.Mutex
}

func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := time.Now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit wraps next with a per-client-IP per-second limit when
// RATE_LIMIT_ENABLED=true (RATE_LIMIT_QPS, default 30). Buckets are kept per
// remote IP; stale buckets are dropped opportunistically past 10k entries.
func RateLimit(next http.Handler) http.Handler {
	if os.Getenv("RATE_LIMIT_ENABLED") != "true" {
		return next
	}
	qps := 30
	if s := os.Getenv("RATE_LIMIT_QPS"); s != "" {
		if n, e := strconv.Atoi(s); e == nil && n > 0 {
			qps = n
		}
	}
	var mu sync.Mutex
	buckets := map[string]*tokenBucket{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		mu.Lock()
		tb, ok := buckets[ip]
		if !ok {
			if len(buckets) > 10000 {
				now := time.Now().Unix()
				for k, b := range buckets {
					if now-b.lastSec > 60 {
						delete(buckets, k)
					}
				}
			}
			tb = &tokenBucket{capacity: qps, tokens: qps, lastSec: time.Now().Unix()}
			buckets[ip] = tb
		}
		mu.Unlock()
		if !tb.allow() {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
