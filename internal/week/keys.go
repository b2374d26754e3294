package week

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	keyPrefix   = "week_"
	labelPrefix = "Week "
)

// Key returns the data key of week n, e.g. "week_3".
func Key(n int) string {
	return fmt.Sprintf("%s%d", keyPrefix, n)
}

// ParseKey extracts the week number from a "week_<n>" key.
func ParseKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, keyPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Label returns the display label of week n, e.g. "Week 3".
func Label(n int) string {
	return fmt.Sprintf("%s%d", labelPrefix, n)
}

// ParseLabel extracts the week number from a "Week <n>" label.
func ParseLabel(label string) (int, bool) {
	fields := strings.Fields(label)
	if len(fields) != 2 || fields[0] != strings.TrimSpace(labelPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortKeys returns the distinct keys ordered by week number. Keys that don't parse go last.
func SortKeys(keys []string) []string {
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, func(a, b string) int {
		na, okA := ParseKey(a)
		nb, okB := ParseKey(b)
		switch {
		case okA && okB:
			return cmp.Or(cmp.Compare(na, nb), cmp.Compare(a, b))
		case okA:
			return -1
		case okB:
			return 1
		}
		return cmp.Compare(a, b)
	})
	return slices.Compact(sorted)
}

// LatestKey returns the key with the highest week number.
func LatestKey(keys []string) (string, bool) {
	var numbers []int
	byNumber := map[int]string{}
	for _, key := range keys {
		if n, ok := ParseKey(key); ok {
			numbers = append(numbers, n)
			byNumber[n] = key
		}
	}
	n, ok := Latest(numbers)
	if !ok {
		return "", false
	}
	return byNumber[n], true
}
