// Package bloom deduplicates article URLs across a batch run. A Bloom
// filter keeps the memory cost flat no matter how many sitemap URLs a
// site yields, at the price of occasionally skipping a URL that was
// never actually processed.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter tracks which URLs a batch run has already accepted.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter sizes a filter for n expected URLs at the given false
// positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seen records the URL and reports whether it was already present.
// The first call for a URL returns false; later calls return true.
// False positives are possible, false negatives are not.
func (f *Filter) Seen(url string) bool {
	return f.f.TestAndAddString(url)
}

// Add records a URL without testing it.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test reports whether the URL may have been recorded.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// EstimatedCount approximates the number of distinct URLs recorded.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
