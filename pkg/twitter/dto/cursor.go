package dto

import jsoniter "github.com/json-iterator/go"

// SearchResultsDTO is the body of search/tweets. Statuses stays raw and is
// restored through the bridge as tweets.
type SearchResultsDTO struct {
	Statuses       jsoniter.RawMessage `json:"statuses"`
	SearchMetadata *SearchMetadataDTO  `json:"search_metadata"`
}

type SearchMetadataDTO struct {
	MaxID       int64   `json:"max_id"`
	SinceID     int64   `json:"since_id"`
	Query       string  `json:"query"`
	Count       int     `json:"count"`
	CompletedIn float64 `json:"completed_in"`
	NextResults string  `json:"next_results,omitempty"`
	RefreshURL  string  `json:"refresh_url,omitempty"`
}

// UsersCursorDTO is one page of a cursored user listing.
type UsersCursorDTO struct {
	Users          jsoniter.RawMessage `json:"users"`
	NextCursor     int64               `json:"next_cursor"`
	PreviousCursor int64               `json:"previous_cursor"`
}

// IDsCursorDTO is one page of a cursored id listing.
type IDsCursorDTO struct {
	IDs            []int64 `json:"ids"`
	NextCursor     int64   `json:"next_cursor"`
	PreviousCursor int64   `json:"previous_cursor"`
}
