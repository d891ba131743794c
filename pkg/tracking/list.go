// Package tracking decides which accounts the following feed syncs. Accounts come from a hand-edited
// include list and from approved follow candidates, an exclude list always wins.
package tracking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Entry is one account of a tracking list
type Entry struct {
	ID     string `json:"id"`
	Handle string `json:"handle,omitempty"`
}

// LoadList reads a list file. The file is JSON with comments and trailing commas allowed, each
// element is either an account id string or an {"id": ..., "handle": ...} object.
// A missing file or an empty path is an empty list.
func LoadList(path string) ([]Entry, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read list %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return parseList(data)
}

func parseList(data []byte) ([]Entry, error) {
	ast, err := hujson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse list: %w", err)
	}
	ast.Standardize()

	var raw []json.RawMessage
	if err := json.Unmarshal(ast.Pack(), &raw); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}

	res := make([]Entry, 0, len(raw))
	for i, r := range raw {
		var e Entry
		switch {
		case len(r) > 0 && r[0] == '"':
			if err := json.Unmarshal(r, &e.ID); err != nil {
				return nil, fmt.Errorf("decode list element %d: %w", i, err)
			}
		default:
			if err := json.Unmarshal(r, &e); err != nil {
				return nil, fmt.Errorf("decode list element %d: %w", i, err)
			}
		}
		if e.ID == "" {
			return nil, fmt.Errorf("list element %d has no id", i)
		}
		res = append(res, e)
	}
	return res, nil
}
