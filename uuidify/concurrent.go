package uuidify

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// GenerateBatch issues one request per entry concurrently, at most the
// configured concurrency at a time. Results are returned in input order.
// The first failure cancels the remaining requests and is returned.
func (c *Client) GenerateBatch(ctx context.Context, requests []Request) ([]Result, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	results := make([]Result, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, req := range requests {
		g.Go(func() error {
			result, err := c.Generate(ctx, req.Kind, req.Count)
			if err != nil {
				return fmt.Errorf("request %d (%s x%d): %w", i, req.Kind, req.Count, err)
			}
			// Each goroutine owns its own slot
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("requests", len(requests)).Msg("Completed uuidify batch")
	return results, nil
}
