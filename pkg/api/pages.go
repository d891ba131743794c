package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/umputun/postsync/pkg/domain"
)

// Page is one response of a cursor-paginated endpoint
type Page[T any] struct {
	Data     []T      `json:"data"`
	Includes Includes `json:"includes"`
	Meta     Meta     `json:"meta"`
}

// EachPage walks a paginated endpoint, passing every page to fn. Iteration stops when fn returns
// false, fn fails, or the API returns no next token.
func EachPage[T any](ctx context.Context, c *Client, path string, params url.Values, fn func(Page[T]) (bool, error)) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	for {
		var page Page[T]
		if err := c.Get(ctx, path, q, &page); err != nil {
			return err
		}
		more, err := fn(page)
		if err != nil {
			return err
		}
		if !more || page.Meta.NextToken == "" {
			return nil
		}
		q.Set("pagination_token", page.Meta.NextToken)
	}
}

// AllPages is the accumulated result of GetAllPages
type AllPages[T any] struct {
	Data     []T
	Includes domain.Includes
	Pages    int
}

// GetAllPages fetches every page of path and merges their includes
func GetAllPages[T any](ctx context.Context, c *Client, path string, params url.Values, pageSize int) (AllPages[T], error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	if pageSize > 0 {
		q.Set("max_results", strconv.Itoa(pageSize))
	}

	res := AllPages[T]{Includes: domain.NewIncludes()}
	err := EachPage(ctx, c, path, q, func(p Page[T]) (bool, error) {
		res.Data = append(res.Data, p.Data...)
		res.Includes.Merge(p.Includes.Domain())
		res.Pages++
		return true, nil
	})
	if err != nil {
		return AllPages[T]{}, err
	}
	return res, nil
}
