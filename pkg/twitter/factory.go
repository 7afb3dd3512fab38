package twitter

import (
	"fmt"

	"github.com/NethermindEth/tweetbridge/pkg/bridge"
	"github.com/NethermindEth/tweetbridge/pkg/twitter/dto"
)

// Factories builds models from DTO JSON or from already decoded DTOs. Models
// are bound to client, which is nil for offline use.
type Factories struct {
	codec  bridge.Codec
	client *TwitterClient
}

func NewFactories(codec bridge.Codec, client *TwitterClient) *Factories {
	return &Factories{codec: codec, client: client}
}

// create decodes json into a D. A JSON null yields the zero model.
func create[D any, M any](f *Factories, json string, build func(*D) M) (M, error) {
	var zero M

	var d *D
	if err := f.codec.Decode(json, &d); err != nil {
		return zero, fmt.Errorf("decode %T: %w", d, err)
	}
	if d == nil {
		return zero, nil
	}
	return build(d), nil
}

func (f *Factories) CreateTweet(json string) (Tweet, error) {
	return create(f, json, f.TweetFromDTO)
}

func (f *Factories) TweetFromDTO(d *dto.TweetDTO) Tweet {
	if d == nil {
		return nil
	}
	return &tweet{dto: d, client: f.client}
}

func (f *Factories) CreateUser(json string) (User, error) {
	return create(f, json, f.UserFromDTO)
}

func (f *Factories) UserFromDTO(d *dto.UserDTO) User {
	if d == nil {
		return nil
	}
	return &user{dto: d, client: f.client}
}

func (f *Factories) CreateAuthenticatedUser(json string) (AuthenticatedUser, error) {
	return create(f, json, f.AuthenticatedUserFromDTO)
}

func (f *Factories) AuthenticatedUserFromDTO(d *dto.UserDTO) AuthenticatedUser {
	if d == nil {
		return nil
	}
	return &authenticatedUser{user: user{dto: d, client: f.client}}
}

// CreateMessage reads the event-with-app form written by the Message mapping.
func (f *Factories) CreateMessage(json string) (Message, error) {
	return create(f, json, func(d *dto.MessageEventWithAppDTO) Message {
		return f.MessageFromDTO(d.MessageEvent, d.App)
	})
}

func (f *Factories) MessageFromDTO(event *dto.MessageEventDTO, app *dto.AppDTO) Message {
	if event == nil {
		return nil
	}
	return &message{dto: event, app: app, client: f.client}
}

func (f *Factories) CreateTwitterList(json string) (TwitterList, error) {
	return create(f, json, f.TwitterListFromDTO)
}

func (f *Factories) TwitterListFromDTO(d *dto.TwitterListDTO) TwitterList {
	if d == nil {
		return nil
	}
	return &twitterList{dto: d, client: f.client}
}

func (f *Factories) CreateSavedSearch(json string) (SavedSearch, error) {
	return create(f, json, f.SavedSearchFromDTO)
}

func (f *Factories) SavedSearchFromDTO(d *dto.SavedSearchDTO) SavedSearch {
	if d == nil {
		return nil
	}
	return &savedSearch{dto: d, client: f.client}
}

func (f *Factories) CreateOEmbedTweet(json string) (OEmbedTweet, error) {
	return create(f, json, f.OEmbedTweetFromDTO)
}

func (f *Factories) OEmbedTweetFromDTO(d *dto.OEmbedTweetDTO) OEmbedTweet {
	if d == nil {
		return nil
	}
	return &oembedTweet{dto: d}
}

func (f *Factories) CreateRelationshipDetails(json string) (RelationshipDetails, error) {
	return create(f, json, f.RelationshipDetailsFromDTO)
}

func (f *Factories) RelationshipDetailsFromDTO(d *dto.RelationshipDetailsDTO) RelationshipDetails {
	if d == nil {
		return nil
	}
	return &relationshipDetails{dto: d}
}

func (f *Factories) CreateRelationshipState(json string) (RelationshipState, error) {
	return create(f, json, f.RelationshipStateFromDTO)
}

func (f *Factories) RelationshipStateFromDTO(d *dto.RelationshipStateDTO) RelationshipState {
	if d == nil {
		return nil
	}
	return &relationshipState{dto: d}
}
