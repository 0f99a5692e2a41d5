package store

// Stream describes a log stream discovered inside a log group.
// Stream names follow the `<buildBase>@<suffix>` convention, one stream per
// writer (e.g. "jobs/pipeline/42@master", "jobs/pipeline/42@agent-1").
type Stream struct {
	Name string `json:"name"`
}

// Event is a single remote log record as returned by the vault.
// Timestamp is the store-assigned write time in epoch milliseconds; it is
// monotonic per stream but not guaranteed globally ordered across streams.
// Message carries the structured JSON payload written by the build side.
type Event struct {
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
}

// StreamPage is one page of a stream-listing response
type StreamPage struct {
	Streams   []Stream `json:"streams"`
	NextToken *string  `json:"nextToken"`
}

// EventPage is one page of a filtered event query response
type EventPage struct {
	Events    []Event `json:"events"`
	NextToken *string `json:"nextToken"`
}

// FilterQuery describes a filtered event query against a log group.
// Pattern is the vault's JSON-path-like predicate string, e.g.
// {$.build = "42"} or {$.build = "42" && $.node = "3"} - the wire contract
// with the store's filter language, preserved verbatim.
type FilterQuery struct {
	StreamNames []string `json:"streamNames,omitempty"`
	Interleaved bool     `json:"interleaved"`
	Pattern     string   `json:"filterPattern"`
	StartTime   *int64   `json:"startTime,omitempty"`
	Limit       *int     `json:"limit,omitempty"`
	NextToken   string   `json:"nextToken,omitempty"`
}

// ErrorResponse is the vault's error body shape
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
