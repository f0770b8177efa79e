package chart

import (
	"slices"
	"sort"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/samber/lo"
)

// MaxSeries is the number of distinct series slots (colours) a chart can show at once.
const MaxSeries = 15

// KeySet is the ordered list of metric keys selected for display.
// Order decides series colour; only content matters for equality.
type KeySet []string

// Toggle returns a new set with key removed if present, or appended if not.
// Appending past MaxSeries is ignored.
func (k KeySet) Toggle(key string) KeySet {
	if i := slices.Index(k, key); i >= 0 {
		return slices.Delete(slices.Clone(k), i, i+1)
	}
	if len(k) >= MaxSeries {
		return k
	}
	return append(slices.Clone(k), key)
}

// Contains reports whether key is active.
func (k KeySet) Contains(key string) bool {
	return slices.Contains(k, key)
}

// SeriesIndex returns the colour slot for key, or -1 when inactive.
func (k KeySet) SeriesIndex(key string) int {
	return slices.Index(k, key)
}

// Equal compares content regardless of order.
func (k KeySet) Equal(other KeySet) bool {
	if len(k) != len(other) {
		return false
	}
	a, b := k.sorted(), other.sorted()
	return slices.Equal(a, b)
}

// Fingerprint returns an order-independent hash of the set. Two sets with
// the same keys in a different order share a fingerprint.
func (k KeySet) Fingerprint() uint64 {
	return fingerprint(k.sorted(), nil)
}

// Only returns the keys in k that exist in available, preserving order.
func (k KeySet) Only(available []string) KeySet {
	return lo.Filter(k, func(key string, _ int) bool {
		return slices.Contains(available, key)
	})
}

func (k KeySet) sorted() []string {
	s := lo.Uniq(k)
	sort.Strings(s)
	return s
}

// cacheKey identifies what a segment was drawn for.
type cacheKey struct {
	Keys []string
	Zoom *TimeRange
}

func fingerprint(sortedKeys []string, zoom *TimeRange) uint64 {
	h, err := hashstructure.Hash(cacheKey{Keys: sortedKeys, Zoom: zoom}, hashstructure.FormatV2, nil)
	if err != nil {
		// cacheKey only holds strings and floats, which always hash.
		return 0
	}
	return h
}
