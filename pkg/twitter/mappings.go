package twitter

import (
	"github.com/NethermindEth/tweetbridge/pkg/bridge"
	"github.com/NethermindEth/tweetbridge/pkg/twitter/dto"
	"github.com/NethermindEth/tweetbridge/pkg/utils/metrics"
)

// NewCodec returns the codec every Twitter bridge uses: jsoniter with v1.1
// created_at timestamps.
func NewCodec() *bridge.JSONCodec {
	return bridge.NewJSONCodec(&bridge.TimeFormatExtension{Layout: dto.CreatedAtLayout})
}

// NewBridge returns a bridge with the default model mappings registered.
// Restored models are bound to client, which may be nil.
func NewBridge(client *TwitterClient, collector *metrics.MetricsCollector) (*bridge.Bridge, *Factories) {
	codec := NewCodec()
	factories := NewFactories(codec, client)

	b := bridge.New(&bridge.Config{Codec: codec, Metrics: collector})
	RegisterDefaultMappings(b, factories)

	return b, factories
}

// RegisterDefaultMappings registers every public model against its DTO.
// Order matters for supertype lookups: User precedes AuthenticatedUser, so a
// concrete value implementing both is written as a User.
func RegisterDefaultMappings(b *bridge.Bridge, f *Factories) {
	bridge.Register(b,
		func(t Tweet) (*dto.TweetDTO, error) { return t.TweetDTO(), nil },
		f.CreateTweet,
	)
	bridge.Register(b,
		func(u User) (*dto.UserDTO, error) { return u.UserDTO(), nil },
		f.CreateUser,
	)
	bridge.Register(b,
		func(u AuthenticatedUser) (*dto.UserDTO, error) { return u.UserDTO(), nil },
		f.CreateAuthenticatedUser,
	)
	bridge.Register(b,
		func(m Message) (*dto.MessageEventWithAppDTO, error) {
			return &dto.MessageEventWithAppDTO{MessageEvent: m.MessageEventDTO(), App: m.App()}, nil
		},
		f.CreateMessage,
	)
	bridge.Register(b,
		func(l TwitterList) (*dto.TwitterListDTO, error) { return l.TwitterListDTO(), nil },
		f.CreateTwitterList,
	)
	bridge.Register(b,
		func(s SavedSearch) (*dto.SavedSearchDTO, error) { return s.SavedSearchDTO(), nil },
		f.CreateSavedSearch,
	)
	bridge.Register(b,
		func(o OEmbedTweet) (*dto.OEmbedTweetDTO, error) { return o.OEmbedTweetDTO(), nil },
		f.CreateOEmbedTweet,
	)
	bridge.Register(b,
		func(r RelationshipDetails) (*dto.RelationshipDetailsDTO, error) { return r.RelationshipDetailsDTO(), nil },
		f.CreateRelationshipDetails,
	)
	bridge.Register(b,
		func(r RelationshipState) (*dto.RelationshipStateDTO, error) { return r.RelationshipStateDTO(), nil },
		f.CreateRelationshipState,
	)
}

// ToJSON writes a model, a DTO, or a slice/array of either as JSON using the
// client's bridge.
func ToJSON[T any](c *TwitterClient, v T) (string, error) {
	return bridge.Serialize(c.bridge, v)
}

// FromJSON reads JSON produced by ToJSON (or raw API JSON) back into T.
func FromJSON[T any](c *TwitterClient, json string) (T, error) {
	return bridge.Deserialize[T](c.bridge, json)
}
