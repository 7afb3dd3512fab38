package twitter

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cast"

	"github.com/NethermindEth/tweetbridge/pkg/twitter/dto"
)

// Tweet is a status posted on Twitter.
type Tweet interface {
	ID() int64
	IDStr() string
	Text() string
	CreatedAt() time.Time
	CreatedBy() User
	InReplyToTweetID() (int64, bool)
	IsRetweet() bool
	RetweetedTweet() Tweet
	QuotedTweet() Tweet
	RetweetCount() int
	FavoriteCount() int
	Hashtags() []string
	URL() string
	Destroy(ctx context.Context) error
	TweetDTO() *dto.TweetDTO
	Client() *TwitterClient
}

// User is a public Twitter account.
type User interface {
	ID() int64
	IDStr() string
	ScreenName() string
	Name() string
	Description() string
	CreatedAt() time.Time
	FollowersCount() int
	FriendsCount() int
	StatusesCount() int
	Protected() bool
	Verified() bool
	ProfileImageURLFullSize() string
	GetUserTimeline(ctx context.Context, count int) ([]Tweet, error)
	UserDTO() *dto.UserDTO
	Client() *TwitterClient
}

// AuthenticatedUser is the account the client's credentials belong to.
type AuthenticatedUser interface {
	User
	Email() string
	GetHomeTimeline(ctx context.Context, count int) ([]Tweet, error)
	GetMentionsTimeline(ctx context.Context, count int) ([]Tweet, error)
}

// Message is a direct message event.
type Message interface {
	ID() int64
	Text() string
	SenderID() int64
	RecipientID() int64
	CreatedAt() time.Time
	App() *dto.AppDTO
	Destroy(ctx context.Context) error
	MessageEventDTO() *dto.MessageEventDTO
	Client() *TwitterClient
}

type TwitterList interface {
	ID() int64
	Name() string
	FullName() string
	Slug() string
	Description() string
	IsPrivate() bool
	MemberCount() int
	SubscriberCount() int
	CreatedAt() time.Time
	Owner() User
	GetMembers(ctx context.Context, limit int) ([]User, error)
	GetTweets(ctx context.Context, count int) ([]Tweet, error)
	AddMember(ctx context.Context, screenName string) error
	Destroy(ctx context.Context) error
	TwitterListDTO() *dto.TwitterListDTO
	Client() *TwitterClient
}

type SavedSearch interface {
	ID() int64
	Name() string
	Query() string
	CreatedAt() time.Time
	Destroy(ctx context.Context) error
	SavedSearchDTO() *dto.SavedSearchDTO
	Client() *TwitterClient
}

// OEmbedTweet is the embeddable HTML rendering of a tweet.
type OEmbedTweet interface {
	AuthorName() string
	AuthorURL() string
	HTML() string
	URL() string
	Text() (string, error)
	OEmbedTweetDTO() *dto.OEmbedTweetDTO
}

// RelationshipDetails describes how a source user relates to a target user.
type RelationshipDetails interface {
	SourceID() int64
	TargetID() int64
	Following() bool
	FollowedBy() bool
	Blocking() bool
	Muting() bool
	CanSendDM() bool
	RelationshipDetailsDTO() *dto.RelationshipDetailsDTO
}

// RelationshipState is the authenticated user's connection to another user.
type RelationshipState interface {
	TargetID() int64
	TargetScreenName() string
	Following() bool
	FollowedBy() bool
	FollowingRequested() bool
	Blocking() bool
	Muting() bool
	RelationshipStateDTO() *dto.RelationshipStateDTO
}

type tweet struct {
	dto    *dto.TweetDTO
	client *TwitterClient
}

func (t *tweet) ID() int64 { return t.dto.ID }
func (t *tweet) IDStr() string { return t.dto.IDStr }

func (t *tweet) Text() string {
	if t.dto.FullText != "" {
		return t.dto.FullText
	}
	return t.dto.Text
}

func (t *tweet) CreatedAt() time.Time { return t.dto.CreatedAt }

func (t *tweet) CreatedBy() User {
	if t.dto.User == nil {
		return nil
	}
	return &user{dto: t.dto.User, client: t.client}
}

func (t *tweet) InReplyToTweetID() (int64, bool) {
	if t.dto.InReplyToStatusID == nil {
		return 0, false
	}
	return *t.dto.InReplyToStatusID, true
}

func (t *tweet) IsRetweet() bool { return t.dto.RetweetedStatus != nil }

func (t *tweet) RetweetedTweet() Tweet {
	if t.dto.RetweetedStatus == nil {
		return nil
	}
	return &tweet{dto: t.dto.RetweetedStatus, client: t.client}
}

func (t *tweet) QuotedTweet() Tweet {
	if t.dto.QuotedStatus == nil {
		return nil
	}
	return &tweet{dto: t.dto.QuotedStatus, client: t.client}
}

func (t *tweet) RetweetCount() int { return t.dto.RetweetCount }
func (t *tweet) FavoriteCount() int { return t.dto.FavoriteCount }

func (t *tweet) Hashtags() []string {
	if t.dto.Entities == nil {
		return nil
	}
	tags := make([]string, 0, len(t.dto.Entities.Hashtags))
	for _, h := range t.dto.Entities.Hashtags {
		tags = append(tags, h.Text)
	}
	return tags
}

func (t *tweet) URL() string {
	screenName := "i/web"
	if t.dto.User != nil && t.dto.User.ScreenName != "" {
		screenName = t.dto.User.ScreenName
	}
	return fmt.Sprintf("https://twitter.com/%s/status/%d", screenName, t.dto.ID)
}

func (t *tweet) Destroy(ctx context.Context) error {
	if t.client == nil {
		return ErrNoClient
	}
	_, err := t.client.Tweets.DestroyTweet(ctx, t.dto.ID)
	return err
}

func (t *tweet) TweetDTO() *dto.TweetDTO { return t.dto }
func (t *tweet) Client() *TwitterClient { return t.client }

type user struct {
	dto    *dto.UserDTO
	client *TwitterClient
}

func (u *user) ID() int64 { return u.dto.ID }
func (u *user) IDStr() string { return u.dto.IDStr }
func (u *user) ScreenName() string { return u.dto.ScreenName }
func (u *user) Name() string { return u.dto.Name }
func (u *user) Description() string { return u.dto.Description }
func (u *user) CreatedAt() time.Time { return u.dto.CreatedAt }
func (u *user) FollowersCount() int { return u.dto.FollowersCount }
func (u *user) FriendsCount() int { return u.dto.FriendsCount }
func (u *user) StatusesCount() int { return u.dto.StatusesCount }
func (u *user) Protected() bool { return u.dto.Protected }
func (u *user) Verified() bool { return u.dto.Verified }
func (u *user) UserDTO() *dto.UserDTO { return u.dto }
func (u *user) Client() *TwitterClient { return u.client }

// ProfileImageURLFullSize strips the "_normal" size suffix Twitter adds to
// profile image urls.
func (u *user) ProfileImageURLFullSize() string {
	return strings.Replace(u.dto.ProfileImageURLHTTPS, "_normal", "", 1)
}

func (u *user) GetUserTimeline(ctx context.Context, count int) ([]Tweet, error) {
	if u.client == nil {
		return nil, ErrNoClient
	}
	return u.client.Tweets.GetUserTimeline(ctx, u.dto.ScreenName, count)
}

type authenticatedUser struct {
	user
}

func (u *authenticatedUser) Email() string { return u.dto.Email }

func (u *authenticatedUser) GetHomeTimeline(ctx context.Context, count int) ([]Tweet, error) {
	if u.client == nil {
		return nil, ErrNoClient
	}
	return u.client.Tweets.GetHomeTimeline(ctx, count)
}

func (u *authenticatedUser) GetMentionsTimeline(ctx context.Context, count int) ([]Tweet, error) {
	if u.client == nil {
		return nil, ErrNoClient
	}
	return u.client.Tweets.GetMentionsTimeline(ctx, count)
}

type message struct {
	dto    *dto.MessageEventDTO
	app    *dto.AppDTO
	client *TwitterClient
}

func (m *message) ID() int64 { return cast.ToInt64(m.dto.ID) }

func (m *message) Text() string {
	if m.dto.MessageCreate == nil {
		return ""
	}
	return m.dto.MessageCreate.MessageData.Text
}

func (m *message) SenderID() int64 {
	if m.dto.MessageCreate == nil {
		return 0
	}
	return cast.ToInt64(m.dto.MessageCreate.SenderID)
}

func (m *message) RecipientID() int64 {
	if m.dto.MessageCreate == nil {
		return 0
	}
	return cast.ToInt64(m.dto.MessageCreate.Target.RecipientID)
}

// CreatedAt converts the millisecond timestamp string of the event.
func (m *message) CreatedAt() time.Time {
	ms := cast.ToInt64(m.dto.CreatedTimestamp)
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func (m *message) App() *dto.AppDTO { return m.app }

func (m *message) Destroy(ctx context.Context) error {
	if m.client == nil {
		return ErrNoClient
	}
	return m.client.Messages.DestroyMessage(ctx, m.ID())
}

func (m *message) MessageEventDTO() *dto.MessageEventDTO { return m.dto }
func (m *message) Client() *TwitterClient { return m.client }

type twitterList struct {
	dto    *dto.TwitterListDTO
	client *TwitterClient
}

func (l *twitterList) ID() int64 { return l.dto.ID }
func (l *twitterList) Name() string { return l.dto.Name }
func (l *twitterList) FullName() string { return l.dto.FullName }
func (l *twitterList) Slug() string { return l.dto.Slug }
func (l *twitterList) Description() string { return l.dto.Description }
func (l *twitterList) IsPrivate() bool { return l.dto.Mode == string(ListModePrivate) }
func (l *twitterList) MemberCount() int { return l.dto.MemberCount }
func (l *twitterList) SubscriberCount() int { return l.dto.SubscriberCount }
func (l *twitterList) CreatedAt() time.Time { return l.dto.CreatedAt }

func (l *twitterList) Owner() User {
	if l.dto.Owner == nil {
		return nil
	}
	return &user{dto: l.dto.Owner, client: l.client}
}

func (l *twitterList) GetMembers(ctx context.Context, limit int) ([]User, error) {
	if l.client == nil {
		return nil, ErrNoClient
	}
	return l.client.Lists.GetListMembers(ctx, l.dto.ID, limit)
}

func (l *twitterList) GetTweets(ctx context.Context, count int) ([]Tweet, error) {
	if l.client == nil {
		return nil, ErrNoClient
	}
	return l.client.Lists.GetTweetsFromList(ctx, l.dto.ID, count)
}

func (l *twitterList) AddMember(ctx context.Context, screenName string) error {
	if l.client == nil {
		return ErrNoClient
	}
	_, err := l.client.Lists.AddMemberToList(ctx, l.dto.ID, screenName)
	return err
}

func (l *twitterList) Destroy(ctx context.Context) error {
	if l.client == nil {
		return ErrNoClient
	}
	_, err := l.client.Lists.DestroyList(ctx, l.dto.ID)
	return err
}

func (l *twitterList) TwitterListDTO() *dto.TwitterListDTO { return l.dto }
func (l *twitterList) Client() *TwitterClient { return l.client }

type savedSearch struct {
	dto    *dto.SavedSearchDTO
	client *TwitterClient
}

func (s *savedSearch) ID() int64 { return s.dto.ID }
func (s *savedSearch) Name() string { return s.dto.Name }
func (s *savedSearch) Query() string { return s.dto.Query }
func (s *savedSearch) CreatedAt() time.Time { return s.dto.CreatedAt }

func (s *savedSearch) Destroy(ctx context.Context) error {
	if s.client == nil {
		return ErrNoClient
	}
	_, err := s.client.Search.DestroySavedSearch(ctx, s.dto.ID)
	return err
}

func (s *savedSearch) SavedSearchDTO() *dto.SavedSearchDTO { return s.dto }
func (s *savedSearch) Client() *TwitterClient { return s.client }

type oembedTweet struct {
	dto *dto.OEmbedTweetDTO
}

func (o *oembedTweet) AuthorName() string { return o.dto.AuthorName }
func (o *oembedTweet) AuthorURL() string { return o.dto.AuthorURL }
func (o *oembedTweet) HTML() string { return o.dto.HTML }
func (o *oembedTweet) URL() string { return o.dto.URL }

// Text returns the tweet body from the first paragraph of the embedded
// blockquote.
func (o *oembedTweet) Text() (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(o.dto.HTML))
	if err != nil {
		return "", fmt.Errorf("parse oembed html: %w", err)
	}
	return strings.TrimSpace(doc.Find("blockquote p").First().Text()), nil
}

func (o *oembedTweet) OEmbedTweetDTO() *dto.OEmbedTweetDTO { return o.dto }

type relationshipDetails struct {
	dto *dto.RelationshipDetailsDTO
}

func (r *relationshipDetails) SourceID() int64 { return r.dto.Relationship.Source.ID }
func (r *relationshipDetails) TargetID() int64 { return r.dto.Relationship.Target.ID }
func (r *relationshipDetails) Following() bool { return r.dto.Relationship.Source.Following }
func (r *relationshipDetails) FollowedBy() bool { return r.dto.Relationship.Source.FollowedBy }
func (r *relationshipDetails) Blocking() bool { return isSet(r.dto.Relationship.Source.Blocking) }
func (r *relationshipDetails) Muting() bool { return isSet(r.dto.Relationship.Source.Muting) }
func (r *relationshipDetails) CanSendDM() bool { return isSet(r.dto.Relationship.Source.CanDM) }

func (r *relationshipDetails) RelationshipDetailsDTO() *dto.RelationshipDetailsDTO { return r.dto }

type relationshipState struct {
	dto *dto.RelationshipStateDTO
}

func (r *relationshipState) TargetID() int64 { return r.dto.ID }
func (r *relationshipState) TargetScreenName() string { return r.dto.ScreenName }
func (r *relationshipState) Following() bool { return r.hasConnection("following") }
func (r *relationshipState) FollowedBy() bool { return r.hasConnection("followed_by") }
func (r *relationshipState) FollowingRequested() bool { return r.hasConnection("following_requested") }
func (r *relationshipState) Blocking() bool { return r.hasConnection("blocking") }
func (r *relationshipState) Muting() bool { return r.hasConnection("muting") }

func (r *relationshipState) hasConnection(name string) bool {
	return slices.Contains(r.dto.Connections, name)
}

func (r *relationshipState) RelationshipStateDTO() *dto.RelationshipStateDTO { return r.dto }

func isSet(b *bool) bool {
	return b != nil && *b
}
