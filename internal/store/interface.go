package store

import "context"

// Client is the log vault API client. Both operations are paginated: callers
// loop until the returned page carries no next token. Retry policy for
// transient transport failures lives inside the client; callers treat any
// returned error as fatal for the current operation.
type Client interface {
	// DescribeStreams lists log streams in a group whose name starts with prefix.
	DescribeStreams(ctx context.Context, group, prefix, nextToken string) (*StreamPage, error)

	// FilterEvents runs a filtered event query against a group.
	// Returns a not-found error (see IsNotFound) when the group, or every
	// stream named in the query, does not exist.
	FilterEvents(ctx context.Context, group string, query FilterQuery) (*EventPage, error)
}
