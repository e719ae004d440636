package scan

import "sync"

// digestSet records chart digests seen during one scan so that copies of
// the same chart count once.
type digestSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newDigestSet() *digestSet {
	return &digestSet{seen: make(map[string]struct{})}
}

// seenAndRecord atomically checks whether digest was seen and records it
// if not. Returns true if digest was already seen.
func (d *digestSet) seenAndRecord(digest string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[digest]; ok {
		return true
	}
	d.seen[digest] = struct{}{}
	return false
}
