// Package dto holds the wire representation of Twitter v1.1 objects. The
// types here carry data only; behaviour lives on the models in package twitter.
package dto

import "time"

// CreatedAtLayout is the timestamp format used by every v1.1 "created_at" field.
const CreatedAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

type TweetDTO struct {
	ID                  int64        `json:"id"`
	IDStr               string       `json:"id_str"`
	CreatedAt           time.Time    `json:"created_at"`
	Text                string       `json:"text,omitempty"`
	FullText            string       `json:"full_text,omitempty"`
	Truncated           bool         `json:"truncated"`
	Source              string       `json:"source,omitempty"`
	InReplyToStatusID   *int64       `json:"in_reply_to_status_id"`
	InReplyToUserID     *int64       `json:"in_reply_to_user_id"`
	InReplyToScreenName string       `json:"in_reply_to_screen_name,omitempty"`
	User                *UserDTO     `json:"user,omitempty"`
	RetweetedStatus     *TweetDTO    `json:"retweeted_status,omitempty"`
	QuotedStatus        *TweetDTO    `json:"quoted_status,omitempty"`
	QuotedStatusID      *int64       `json:"quoted_status_id,omitempty"`
	RetweetCount        int          `json:"retweet_count"`
	FavoriteCount       int          `json:"favorite_count"`
	Favorited           bool         `json:"favorited"`
	Retweeted           bool         `json:"retweeted"`
	Lang                string       `json:"lang,omitempty"`
	PossiblySensitive   bool         `json:"possibly_sensitive,omitempty"`
	Entities            *EntitiesDTO `json:"entities,omitempty"`
	DisplayTextRange    []int        `json:"display_text_range,omitempty"`
	IsQuoteStatus       bool         `json:"is_quote_status"`
	WithheldInCountries []string     `json:"withheld_in_countries,omitempty"`
	ConversationMuted   bool         `json:"conversation_muted,omitempty"`
	FilterLevel         string       `json:"filter_level,omitempty"`
}

type EntitiesDTO struct {
	Hashtags     []HashtagEntityDTO     `json:"hashtags,omitempty"`
	URLs         []URLEntityDTO         `json:"urls,omitempty"`
	UserMentions []UserMentionEntityDTO `json:"user_mentions,omitempty"`
	Symbols      []HashtagEntityDTO     `json:"symbols,omitempty"`
}

type HashtagEntityDTO struct {
	Text    string `json:"text"`
	Indices []int  `json:"indices"`
}

type URLEntityDTO struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
	DisplayURL  string `json:"display_url"`
	Indices     []int  `json:"indices"`
}

type UserMentionEntityDTO struct {
	ID         int64  `json:"id"`
	IDStr      string `json:"id_str"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
	Indices    []int  `json:"indices"`
}

// OEmbedTweetDTO is the response of statuses/oembed.
type OEmbedTweetDTO struct {
	URL          string `json:"url"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	HTML         string `json:"html"`
	Width        *int   `json:"width"`
	Height       *int   `json:"height"`
	Type         string `json:"type"`
	CacheAge     string `json:"cache_age"`
	ProviderName string `json:"provider_name"`
	ProviderURL  string `json:"provider_url"`
	Version      string `json:"version"`
}
