package domain

import (
	"strconv"
	"strings"
	"time"
)

// CompareIDs orders decimal ids numerically without parsing them, ids are compared
// by length first so "105" > "99". Returns -1, 0 or 1.
func CompareIDs(a, b string) int {
	a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return strings.Compare(a, b)
}

// MaxID returns the largest id of the items, empty for an empty slice
func MaxID[T interface{ GetID() string }](items []T) string {
	res := ""
	for _, it := range items {
		if id := it.GetID(); res == "" || CompareIDs(id, res) > 0 {
			res = id
		}
	}
	return res
}

// GetID returns the item id
func (i Item) GetID() string { return i.ID }

// snowflakeEpoch is the platform epoch of time-ordered ids, in milliseconds
const snowflakeEpoch = 1288834974657

// IDTime extracts the creation time embedded in a time-ordered id, zero for ids it can't decode
func IDTime(id string) time.Time {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n>>22 == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(n>>22) + snowflakeEpoch).UTC()
}
