package catalog

import (
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// RankKey is the slice of a provider row that ordering needs.
type RankKey struct {
	ID        int64
	Featured  bool
	CreatedAt time.Time
}

// SeedHash is the seeded sort key: xxhash64 over the seed followed by the
// decimal provider id.
func SeedHash(seed string, id int64) uint64 {
	return xxhash.Sum64String(seed + strconv.FormatInt(id, 10))
}

// SortSeeded orders keys featured first, then by SeedHash ascending, ties by id.
func SortSeeded(keys []RankKey, seed string) {
	hashes := make(map[int64]uint64, len(keys))
	for _, k := range keys {
		hashes[k.ID] = SeedHash(seed, k.ID)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		if ha, hb := hashes[a.ID], hashes[b.ID]; ha != hb {
			return ha < hb
		}
		return a.ID < b.ID
	})
}

// SortRecent orders keys featured first, then newest first, ties by id. It
// mirrors the ORDER BY the Postgres catalog uses for unseeded pages.
func SortRecent(keys []RankKey) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Window returns the half-open range [start, end) of a page over total items.
// limit 0 means no limit.
func Window(total, limit, skip int) (start, end int) {
	if skip >= total {
		return total, total
	}
	start = skip
	end = total
	if limit > 0 && limit < total-skip {
		end = skip + limit
	}
	return start, end
}

// HasMore reports whether items remain after the page.
func HasMore(total int64, limit, skip int) bool {
	return limit > 0 && int64(limit) < total-int64(skip)
}
