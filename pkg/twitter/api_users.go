package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type UsersAPI struct {
	client *TwitterClient
}

func (a *UsersAPI) GetUser(ctx context.Context, screenName string) (User, error) {
	if screenName == "" {
		return nil, fmt.Errorf("%w: screen name is required", ErrInvalidParameters)
	}

	query := url.Values{}
	query.Set("screen_name", screenName)

	return execute[User](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/users/show.json"),
		query:  query,
	})
}

func (a *UsersAPI) GetUserByID(ctx context.Context, id int64) (User, error) {
	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(id, 10))

	return execute[User](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/users/show.json"),
		query:  query,
	})
}

// GetAuthenticatedUser returns the account owning the access token, including
// its email when the app has that permission.
func (a *UsersAPI) GetAuthenticatedUser(ctx context.Context) (AuthenticatedUser, error) {
	query := url.Values{}
	query.Set("include_email", "true")
	query.Set("skip_status", "true")

	return execute[AuthenticatedUser](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/account/verify_credentials.json"),
		query:  query,
	})
}

func (a *UsersAPI) GetRelationshipBetween(ctx context.Context, sourceScreenName, targetScreenName string) (RelationshipDetails, error) {
	if sourceScreenName == "" || targetScreenName == "" {
		return nil, fmt.Errorf("%w: source and target screen names are required", ErrInvalidParameters)
	}

	query := url.Values{}
	query.Set("source_screen_name", sourceScreenName)
	query.Set("target_screen_name", targetScreenName)

	return execute[RelationshipDetails](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/friendships/show.json"),
		query:  query,
	})
}

const maxRelationshipLookup = 100

// GetRelationshipsWith returns the authenticated user's relationship with
// each of up to 100 users.
func (a *UsersAPI) GetRelationshipsWith(ctx context.Context, screenNames ...string) ([]RelationshipState, error) {
	if len(screenNames) == 0 || len(screenNames) > maxRelationshipLookup {
		return nil, fmt.Errorf("%w: between 1 and %d screen names are required", ErrInvalidParameters, maxRelationshipLookup)
	}

	query := url.Values{}
	query.Set("screen_name", strings.Join(screenNames, ","))

	return execute[[]RelationshipState](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/friendships/lookup.json"),
		query:  query,
	})
}
