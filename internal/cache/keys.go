package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RecommendationKey caches per user and per library content, so adding a
// game to the library naturally misses the old entry.
func RecommendationKey(userID int, ownedIDs []int) string {
	ids := append([]int(nil), ownedIDs...)
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("rec:user:%d:lib:%s", userID, digest(strings.Join(parts, ",")))
}

// CatalogKey builds the key of a cached catalog call. Genre order does not
// matter.
func CatalogKey(op string, args ...string) string {
	sorted := append([]string(nil), args...)
	sort.Strings(sorted)
	return fmt.Sprintf("catalog:%s:%s", op, digest(strings.Join(sorted, "\x1f")))
}

func digest(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:8])
}
