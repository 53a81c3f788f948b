package mockserver

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// faultHeader marks responses produced by an injected fault.
const faultHeader = "X-Langconv-Fault"

// FaultConfig describes a failure injected for a path.
type FaultConfig struct {
	// Path is the request path the fault covers, including everything below
	// it. It may be a glob such as /api/*/15 or /api/**.
	Path string `json:"path"`
	// Method restricts the fault to one HTTP method. Empty means any.
	Method string `json:"method,omitempty"`
	// StatusCode is the status returned instead of the real response.
	StatusCode int `json:"statusCode"`
	// Body replaces the default JSON error body.
	Body string `json:"body,omitempty"`
	// Delay is slept before responding.
	Delay time.Duration `json:"delay,omitempty"`
	// Rate is the probability (0.0-1.0) that the fault triggers. Zero means always.
	Rate float64 `json:"rate,omitempty"`
}

// FaultRegistry manages injected faults.
type FaultRegistry struct {
	mu     sync.RWMutex
	faults map[string]FaultConfig
}

// NewFaultRegistry creates an empty registry.
func NewFaultRegistry() *FaultRegistry {
	return &FaultRegistry{faults: make(map[string]FaultConfig)}
}

// Set registers fault, replacing any fault on the same path.
func (fr *FaultRegistry) Set(fault FaultConfig) {
	fault.Path = normalizePath(fault.Path)
	fault.Method = strings.ToUpper(fault.Method)
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.faults[fault.Path] = fault
}

// Remove deletes the fault for path. Returns true if it existed.
func (fr *FaultRegistry) Remove(path string) bool {
	path = normalizePath(path)
	fr.mu.Lock()
	defer fr.mu.Unlock()
	_, existed := fr.faults[path]
	delete(fr.faults, path)
	return existed
}

// Check returns the most specific fault covering method and path, or nil.
func (fr *FaultRegistry) Check(method, path string) *FaultConfig {
	path = normalizePath(path)
	fr.mu.RLock()
	defer fr.mu.RUnlock()

	var best *FaultConfig
	for p, f := range fr.faults {
		if !covers(p, path) {
			continue
		}
		if f.Method != "" && f.Method != method {
			continue
		}
		if best == nil || len(p) > len(best.Path) {
			best = &f
		}
	}
	if best == nil {
		return nil
	}
	if best.Rate > 0 && best.Rate < 1.0 && rand.Float64() >= best.Rate {
		return nil
	}
	return best
}

// All returns every registered fault.
func (fr *FaultRegistry) All() []FaultConfig {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	out := make([]FaultConfig, 0, len(fr.faults))
	for _, f := range fr.faults {
		out = append(out, f)
	}
	return out
}

// Reset removes every fault.
func (fr *FaultRegistry) Reset() {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.faults = make(map[string]FaultConfig)
}

// inject answers with the matching fault instead of calling next.
func (fr *FaultRegistry) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fault := fr.Check(r.Method, r.URL.Path)
		if fault == nil || fault.StatusCode == 0 {
			next.ServeHTTP(w, r)
			return
		}
		if fault.Delay > 0 {
			select {
			case <-time.After(fault.Delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(faultHeader, "injected")
		w.WriteHeader(fault.StatusCode)
		if fault.Body != "" {
			fmt.Fprint(w, fault.Body)
		} else {
			fmt.Fprintf(w, `{"error":"injected_fault","message":"injected fault","statusCode":%d}`, fault.StatusCode)
		}
	})
}

// covers reports whether the fault pattern p applies to path.
func covers(p, path string) bool {
	if path == p || strings.HasPrefix(path, p+"/") || p == "/" {
		return true
	}
	if !strings.ContainsAny(p, "*?[{") {
		return false
	}
	ok, err := doublestar.Match(p, path)
	return err == nil && ok
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
