package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// idFilter answers "definitely unused" for playlist ids without a database
// round trip. Deleted ids stay in the filter; a false positive only costs a query.
type idFilter struct {
	mutex sync.RWMutex
	bloom *bloom.BloomFilter
}

func newIDFilter(expectedIDs uint, falsePositiveRate float64) *idFilter {
	return &idFilter{bloom: bloom.NewWithEstimates(expectedIDs, falsePositiveRate)}
}

// MayContain reports whether id might already be taken.
func (f *idFilter) MayContain(id string) bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.bloom.TestString(id)
}

func (f *idFilter) Add(id string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.bloom.AddString(id)
}
