package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NethermindEth/tweetbridge/pkg/twitter/dto"
)

type SearchAPI struct {
	client *TwitterClient
}

func (a *SearchAPI) ListSavedSearches(ctx context.Context) ([]SavedSearch, error) {
	return execute[[]SavedSearch](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/saved_searches/list.json"),
	})
}

func (a *SearchAPI) CreateSavedSearch(ctx context.Context, query string) (SavedSearch, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidParameters)
	}

	values := url.Values{}
	values.Set("query", query)

	return execute[SavedSearch](ctx, a.client, &request{
		method: http.MethodPost,
		url:    a.client.endpoint("/saved_searches/create.json"),
		query:  values,
	})
}

func (a *SearchAPI) DestroySavedSearch(ctx context.Context, id int64) (SavedSearch, error) {
	return execute[SavedSearch](ctx, a.client, &request{
		method: http.MethodPost,
		url:    a.client.endpoint(fmt.Sprintf("/saved_searches/destroy/%d.json", id)),
	})
}

type SearchResultType string

const (
	SearchResultMixed   SearchResultType = "mixed"
	SearchResultRecent  SearchResultType = "recent"
	SearchResultPopular SearchResultType = "popular"
)

type SearchTweetsParameters struct {
	Query      string
	Count      int
	ResultType SearchResultType
	Lang       string
	SinceID    int64
	MaxID      int64
}

// SearchResults is one page of a tweet search.
type SearchResults struct {
	Tweets   []Tweet
	Metadata *dto.SearchMetadataDTO
}

func (a *SearchAPI) SearchTweets(ctx context.Context, params *SearchTweetsParameters) (*SearchResults, error) {
	if params == nil || params.Query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidParameters)
	}

	query := url.Values{}
	query.Set("q", params.Query)
	query.Set("tweet_mode", "extended")
	if params.Count > 0 {
		query.Set("count", strconv.Itoa(params.Count))
	}
	if params.ResultType != "" {
		query.Set("result_type", string(params.ResultType))
	}
	if params.Lang != "" {
		query.Set("lang", params.Lang)
	}
	if params.SinceID != 0 {
		query.Set("since_id", strconv.FormatInt(params.SinceID, 10))
	}
	if params.MaxID != 0 {
		query.Set("max_id", strconv.FormatInt(params.MaxID, 10))
	}

	resp, err := execute[*dto.SearchResultsDTO](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/search/tweets.json"),
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return &SearchResults{}, nil
	}

	tweets, err := restoreModels[Tweet](a.client, resp.Statuses)
	if err != nil {
		return nil, err
	}
	return &SearchResults{Tweets: tweets, Metadata: resp.SearchMetadata}, nil
}

// SearchUsers returns one page of users matching query. Pages start at 1.
func (a *SearchAPI) SearchUsers(ctx context.Context, query string, page, count int) ([]User, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidParameters)
	}

	values := url.Values{}
	values.Set("q", query)
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if count > 0 {
		values.Set("count", strconv.Itoa(count))
	}

	return execute[[]User](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/users/search.json"),
		query:  values,
	})
}
