package retrieve

import (
	"context"
	"log/slog"

	"github.com/buildlens/buildlens/internal/store"
)

// discoverStreams lists every stream in the group whose name starts with the
// build's stream prefix, following the pagination token until the store
// reports no more pages. The result set is unordered; it is only used as a
// filter list for the merge query. Transport errors abort the retrieval.
func discoverStreams(ctx context.Context, client store.Client, group, prefix string) ([]string, error) {
	var names []string

	token := ""
	for {
		page, err := client.DescribeStreams(ctx, group, prefix, token)
		if err != nil {
			return nil, err
		}

		for _, stream := range page.Streams {
			names = append(names, stream.Name)
		}

		// An intermediate page may be empty yet still carry a token
		if page.NextToken == nil || *page.NextToken == "" {
			break
		}
		token = *page.NextToken
	}

	slog.Debug("Discovered log streams", "group", group, "prefix", prefix, "count", len(names))
	return names, nil
}
