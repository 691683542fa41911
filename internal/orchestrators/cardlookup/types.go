package cardlookup

// LookupInput defines the request for a card lookup
type LookupInput struct {
	// Query is the text between [[ and ]], several lookups joined by ]] [[
	Query string
}

// LookupOutput defines the response for a card lookup
type LookupOutput struct {
	RequestID string
	// Lines is the rendered reply, or the single too-many-results line
	Lines   []string
	Matched int
	TooMany bool
}
