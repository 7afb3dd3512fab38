package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AccountAPI acts on other users on behalf of the authenticated user.
type AccountAPI struct {
	client *TwitterClient
}

func (a *AccountAPI) BlockUser(ctx context.Context, screenName string) (User, error) {
	return a.actOn(ctx, "/blocks/create.json", screenName)
}

func (a *AccountAPI) UnblockUser(ctx context.Context, screenName string) (User, error) {
	return a.actOn(ctx, "/blocks/destroy.json", screenName)
}

// ReportUserForSpam reports and blocks the user.
func (a *AccountAPI) ReportUserForSpam(ctx context.Context, screenName string) (User, error) {
	return a.actOn(ctx, "/users/report_spam.json", screenName)
}

func (a *AccountAPI) FollowUser(ctx context.Context, screenName string) (User, error) {
	return a.actOn(ctx, "/friendships/create.json", screenName)
}

func (a *AccountAPI) UnfollowUser(ctx context.Context, screenName string) (User, error) {
	return a.actOn(ctx, "/friendships/destroy.json", screenName)
}

func (a *AccountAPI) MuteUser(ctx context.Context, screenName string) (User, error) {
	return a.actOn(ctx, "/mutes/users/create.json", screenName)
}

func (a *AccountAPI) UnmuteUser(ctx context.Context, screenName string) (User, error) {
	return a.actOn(ctx, "/mutes/users/destroy.json", screenName)
}

// GetBlockedUserIDs returns up to limit blocked user ids, all of them when limit
// is not positive.
func (a *AccountAPI) GetBlockedUserIDs(ctx context.Context, limit int) ([]int64, error) {
	return collectIDs(ctx, a.client, "/blocks/ids.json", nil, limit)
}

func (a *AccountAPI) GetMutedUserIDs(ctx context.Context, limit int) ([]int64, error) {
	return collectIDs(ctx, a.client, "/mutes/users/ids.json", nil, limit)
}

// GetUserIDsWhoseRetweetsAreMuted returns the users whose retweets the
// authenticated user has turned off.
func (a *AccountAPI) GetUserIDsWhoseRetweetsAreMuted(ctx context.Context) ([]int64, error) {
	return execute[[]int64](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/friendships/no_retweets/ids.json"),
	})
}

func (a *AccountAPI) actOn(ctx context.Context, path, screenName string) (User, error) {
	if screenName == "" {
		return nil, fmt.Errorf("%w: screen name is required", ErrInvalidParameters)
	}

	query := url.Values{}
	query.Set("screen_name", screenName)

	return execute[User](ctx, a.client, &request{
		method: http.MethodPost,
		url:    a.client.endpoint(path),
		query:  query,
	})
}
