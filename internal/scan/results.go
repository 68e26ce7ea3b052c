package scan

import "sync"

// Results holds finished scan candidates keyed by scan ID so the API can
// serve them once the background job completes.
type Results struct {
	mu   sync.RWMutex
	byID map[string]*Candidate
	errs map[string]string
}

func NewResults() *Results {
	return &Results{
		byID: make(map[string]*Candidate),
		errs: make(map[string]string),
	}
}

// Put records a successful scan.
func (r *Results) Put(scanID string, c *Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[scanID] = c
	delete(r.errs, scanID)
}

// Fail records a scan that could not produce a candidate.
func (r *Results) Fail(scanID, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[scanID] = reason
}

// Get returns the candidate for a scan, or the failure reason if the
// scan errored. ok is false while the scan is still pending.
func (r *Results) Get(scanID string) (c *Candidate, errMsg string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, found := r.byID[scanID]; found {
		return c, "", true
	}
	if msg, found := r.errs[scanID]; found {
		return nil, msg, true
	}
	return nil, "", false
}
