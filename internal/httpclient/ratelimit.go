package httpclient

import (
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// rateLimitedTransport enforces a token-bucket limit per destination host,
// so a slow or flaky outlet can't starve requests to every other feed.
type rateLimitedTransport struct {
	next  http.RoundTripper
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newRateLimitedTransport(next http.RoundTripper, requestsPerSecond float64, burst int) *rateLimitedTransport {
	return &rateLimitedTransport{
		next:     next,
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	limiter := t.limiterFor(req.URL)
	if err := limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

func (t *rateLimitedTransport) limiterFor(u *url.URL) *rate.Limiter {
	host := u.Hostname()

	t.mu.Lock()
	defer t.mu.Unlock()
	limiter, ok := t.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(t.rps, t.burst)
		t.limiters[host] = limiter
	}
	return limiter
}
