package dto

import "time"

type UserDTO struct {
	ID                   int64     `json:"id"`
	IDStr                string    `json:"id_str"`
	Name                 string    `json:"name"`
	ScreenName           string    `json:"screen_name"`
	Location             string    `json:"location,omitempty"`
	Description          string    `json:"description,omitempty"`
	URL                  *string   `json:"url"`
	Protected            bool      `json:"protected"`
	Verified             bool      `json:"verified"`
	FollowersCount       int       `json:"followers_count"`
	FriendsCount         int       `json:"friends_count"`
	ListedCount          int       `json:"listed_count"`
	FavouritesCount      int       `json:"favourites_count"`
	StatusesCount        int       `json:"statuses_count"`
	CreatedAt            time.Time `json:"created_at"`
	ProfileImageURLHTTPS string    `json:"profile_image_url_https,omitempty"`
	ProfileBannerURL     string    `json:"profile_banner_url,omitempty"`
	DefaultProfile       bool      `json:"default_profile"`
	DefaultProfileImage  bool      `json:"default_profile_image"`
	Following            *bool     `json:"following,omitempty"`
	Status               *TweetDTO `json:"status,omitempty"`
	WithheldInCountries  []string  `json:"withheld_in_countries,omitempty"`
	// Email is only populated for the authenticated user with the
	// include_email permission.
	Email string `json:"email,omitempty"`
}

// RelationshipDetailsDTO is the response of friendships/show.
type RelationshipDetailsDTO struct {
	Relationship struct {
		Source RelationshipEndpointDTO `json:"source"`
		Target RelationshipEndpointDTO `json:"target"`
	} `json:"relationship"`
}

type RelationshipEndpointDTO struct {
	ID                   int64  `json:"id"`
	IDStr                string `json:"id_str"`
	ScreenName           string `json:"screen_name"`
	Following            bool   `json:"following"`
	FollowedBy           bool   `json:"followed_by"`
	FollowingReceived    *bool  `json:"following_received,omitempty"`
	FollowingRequested   *bool  `json:"following_requested,omitempty"`
	NotificationsEnabled *bool  `json:"notifications_enabled,omitempty"`
	CanDM                *bool  `json:"can_dm,omitempty"`
	Blocking             *bool  `json:"blocking,omitempty"`
	Muting               *bool  `json:"muting,omitempty"`
	WantRetweets         *bool  `json:"want_retweets,omitempty"`
	MarkedSpam           *bool  `json:"marked_spam,omitempty"`
}

// RelationshipStateDTO is one element of the friendships/lookup response.
type RelationshipStateDTO struct {
	ID          int64    `json:"id"`
	IDStr       string   `json:"id_str"`
	Name        string   `json:"name"`
	ScreenName  string   `json:"screen_name"`
	Connections []string `json:"connections"`
}
