package sdk

import "sync"

// RedirectRecorder is a Navigator that remembers the last requested navigation so the
// HTTP layer can turn it into a redirect response.
type RedirectRecorder struct {
	mu    sync.Mutex
	url   string
	count int
}

func (r *RedirectRecorder) Navigate(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.url = url
	r.count++
}

// Location returns the last navigation target and whether one was requested.
func (r *RedirectRecorder) Location() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.url, r.count > 0
}

// Count returns how many navigations were requested.
func (r *RedirectRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
