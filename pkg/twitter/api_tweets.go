package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type TweetsAPI struct {
	client *TwitterClient
}

// PublishTweetParameters describes a new status.
type PublishTweetParameters struct {
	Text             string
	InReplyToTweetID int64
	// MediaIDs must have been uploaded beforehand.
	MediaIDs []int64
}

func (a *TweetsAPI) GetTweet(ctx context.Context, id int64) (Tweet, error) {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(id, 10))
	query.Set("tweet_mode", "extended")

	return execute[Tweet](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/statuses/show.json"),
		query:  query,
	})
}

func (a *TweetsAPI) PublishTweet(ctx context.Context, params *PublishTweetParameters) (Tweet, error) {
	if params == nil || params.Text == "" {
		return nil, fmt.Errorf("%w: tweet text is required", ErrInvalidParameters)
	}

	query := url.Values{}
	query.Set("status", params.Text)
	query.Set("tweet_mode", "extended")
	if params.InReplyToTweetID != 0 {
		query.Set("in_reply_to_status_id", strconv.FormatInt(params.InReplyToTweetID, 10))
		query.Set("auto_populate_reply_metadata", "true")
	}
	if len(params.MediaIDs) > 0 {
		query.Set("media_ids", joinIDs(params.MediaIDs))
	}

	return execute[Tweet](ctx, a.client, &request{
		method: http.MethodPost,
		url:    a.client.endpoint("/statuses/update.json"),
		query:  query,
	})
}

// DestroyTweet deletes a tweet and returns its last state.
func (a *TweetsAPI) DestroyTweet(ctx context.Context, id int64) (Tweet, error) {
	return execute[Tweet](ctx, a.client, &request{
		method: http.MethodPost,
		url:    a.client.endpoint(fmt.Sprintf("/statuses/destroy/%d.json", id)),
	})
}

func (a *TweetsAPI) GetHomeTimeline(ctx context.Context, count int) ([]Tweet, error) {
	query := url.Values{}
	query.Set("tweet_mode", "extended")
	if count > 0 {
		query.Set("count", strconv.Itoa(count))
	}

	return execute[[]Tweet](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/statuses/home_timeline.json"),
		query:  query,
	})
}

// GetMentionsTimeline returns the latest tweets mentioning the authenticated user.
func (a *TweetsAPI) GetMentionsTimeline(ctx context.Context, count int) ([]Tweet, error) {
	query := url.Values{}
	query.Set("tweet_mode", "extended")
	if count > 0 {
		query.Set("count", strconv.Itoa(count))
	}

	return execute[[]Tweet](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/statuses/mentions_timeline.json"),
		query:  query,
	})
}

func (a *TweetsAPI) GetUserTimeline(ctx context.Context, screenName string, count int) ([]Tweet, error) {
	if screenName == "" {
		return nil, fmt.Errorf("%w: screen name is required", ErrInvalidParameters)
	}

	query := url.Values{}
	query.Set("screen_name", screenName)
	query.Set("tweet_mode", "extended")
	if count > 0 {
		query.Set("count", strconv.Itoa(count))
	}

	return execute[[]Tweet](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/statuses/user_timeline.json"),
		query:  query,
	})
}

// GetOEmbedTweet fetches the embeddable HTML for a tweet from the publish API.
func (a *TweetsAPI) GetOEmbedTweet(ctx context.Context, id int64) (OEmbedTweet, error) {
	query := url.Values{}
	query.Set("url", fmt.Sprintf("https://twitter.com/i/status/%d", id))
	query.Set("omit_script", "true")

	return execute[OEmbedTweet](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.config.PublishURL + "/oembed",
		query:  query,
	})
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
