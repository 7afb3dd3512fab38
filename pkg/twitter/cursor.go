package twitter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NethermindEth/tweetbridge/pkg/twitter/dto"
)

const firstCursor = -1

// collectIDs follows a cursored id listing until its last page, or until limit
// ids were read when limit is positive.
func collectIDs(ctx context.Context, c *TwitterClient, path string, query url.Values, limit int) ([]int64, error) {
	var ids []int64

	err := walkCursor(ctx, c, path, query, func(page *dto.IDsCursorDTO) (int64, bool) {
		ids = append(ids, page.IDs...)
		return page.NextCursor, limit > 0 && len(ids) >= limit
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// collectUsers is collectIDs for listings of user objects.
func collectUsers(ctx context.Context, c *TwitterClient, path string, query url.Values, limit int) ([]User, error) {
	var users []User

	var restoreErr error
	err := walkCursor(ctx, c, path, query, func(page *dto.UsersCursorDTO) (int64, bool) {
		pageUsers, err := restoreModels[User](c, page.Users)
		if err != nil {
			restoreErr = err
			return 0, true
		}
		users = append(users, pageUsers...)
		return page.NextCursor, limit > 0 && len(users) >= limit
	})
	if err != nil {
		return nil, err
	}
	if restoreErr != nil {
		return nil, restoreErr
	}
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// walkCursor requests successive pages of path. visit returns the next cursor
// and whether to stop early.
func walkCursor[P any](ctx context.Context, c *TwitterClient, path string, query url.Values, visit func(page *P) (int64, bool)) error {
	if query == nil {
		query = url.Values{}
	}

	cursor := int64(firstCursor)
	for {
		query.Set("cursor", strconv.FormatInt(cursor, 10))

		page, err := execute[*P](ctx, c, &request{
			method: http.MethodGet,
			url:    c.endpoint(path),
			query:  query,
		})
		if err != nil {
			return err
		}
		if page == nil {
			return nil
		}

		next, done := visit(page)
		if done || next == 0 || next == cursor {
			return nil
		}
		cursor = next
	}
}
