package handlers

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map. Past it the map starts over.
const maxTrackedClients = 10000

// ipLimiter rate-limits form posts per client IP.
type ipLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		m: make(map[string]*rate.Limiter),
		r: r,
		b: burst,
	}
}

func (l *ipLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.m[ip]; ok {
		return lim
	}
	if len(l.m) >= maxTrackedClients {
		l.m = make(map[string]*rate.Limiter)
	}
	lim := rate.NewLimiter(l.r, l.b)
	l.m[ip] = lim
	return lim
}

func (l *ipLimiter) allow(ip string) bool {
	return l.limiterFor(ip).Allow()
}

// clientIP strips the port RemoteAddr carries when no proxy header set it.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
