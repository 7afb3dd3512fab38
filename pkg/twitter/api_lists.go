package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type ListMode string

const (
	ListModePublic  ListMode = "public"
	ListModePrivate ListMode = "private"
)

type ListsAPI struct {
	client *TwitterClient
}

func (a *ListsAPI) CreateList(ctx context.Context, name string, mode ListMode, description string) (TwitterList, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: list name is required", ErrInvalidParameters)
	}
	if mode == "" {
		mode = ListModePublic
	}

	query := url.Values{}
	query.Set("name", name)
	query.Set("mode", string(mode))
	if description != "" {
		query.Set("description", description)
	}

	return execute[TwitterList](ctx, a.client, &request{
		method: http.MethodPost,
		url:    a.client.endpoint("/lists/create.json"),
		query:  query,
	})
}

func (a *ListsAPI) GetList(ctx context.Context, id int64) (TwitterList, error) {
	query := url.Values{}
	query.Set("list_id", strconv.FormatInt(id, 10))

	return execute[TwitterList](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/lists/show.json"),
		query:  query,
	})
}

func (a *ListsAPI) DestroyList(ctx context.Context, id int64) (TwitterList, error) {
	query := url.Values{}
	query.Set("list_id", strconv.FormatInt(id, 10))

	return execute[TwitterList](ctx, a.client, &request{
		method: http.MethodPost,
		url:    a.client.endpoint("/lists/destroy.json"),
		query:  query,
	})
}

const maxListMembersPage = 5000

// GetListMembers returns up to limit members of a list, all of them when limit is
// not positive.
func (a *ListsAPI) GetListMembers(ctx context.Context, id int64, limit int) ([]User, error) {
	query := url.Values{}
	query.Set("list_id", strconv.FormatInt(id, 10))
	query.Set("skip_status", "true")
	query.Set("count", strconv.Itoa(maxListMembersPage))

	return collectUsers(ctx, a.client, "/lists/members.json", query, limit)
}

func (a *ListsAPI) GetTweetsFromList(ctx context.Context, id int64, count int) ([]Tweet, error) {
	query := url.Values{}
	query.Set("list_id", strconv.FormatInt(id, 10))
	query.Set("tweet_mode", "extended")
	if count > 0 {
		query.Set("count", strconv.Itoa(count))
	}

	return execute[[]Tweet](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/lists/statuses.json"),
		query:  query,
	})
}

// AddMemberToList adds a user to a list owned by the authenticated user and
// returns the updated list.
func (a *ListsAPI) AddMemberToList(ctx context.Context, id int64, screenName string) (TwitterList, error) {
	return a.changeMember(ctx, "/lists/members/create.json", id, screenName)
}

func (a *ListsAPI) RemoveMemberFromList(ctx context.Context, id int64, screenName string) (TwitterList, error) {
	return a.changeMember(ctx, "/lists/members/destroy.json", id, screenName)
}

func (a *ListsAPI) changeMember(ctx context.Context, path string, id int64, screenName string) (TwitterList, error) {
	if screenName == "" {
		return nil, fmt.Errorf("%w: screen name is required", ErrInvalidParameters)
	}

	query := url.Values{}
	query.Set("list_id", strconv.FormatInt(id, 10))
	query.Set("screen_name", screenName)

	return execute[TwitterList](ctx, a.client, &request{
		method: http.MethodPost,
		url:    a.client.endpoint(path),
		query:  query,
	})
}
