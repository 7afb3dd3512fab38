package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NethermindEth/tweetbridge/pkg/bridge"
	"github.com/NethermindEth/tweetbridge/pkg/twitter"
)

type roundTripFunc func(b *bridge.Bridge, json string, many bool) (string, error)

var roundTrips = map[string]roundTripFunc{
	"tweet":                roundTripAs[twitter.Tweet],
	"user":                 roundTripAs[twitter.User],
	"authenticated-user":   roundTripAs[twitter.AuthenticatedUser],
	"message":              roundTripAs[twitter.Message],
	"list":                 roundTripAs[twitter.TwitterList],
	"saved-search":         roundTripAs[twitter.SavedSearch],
	"oembed":               roundTripAs[twitter.OEmbedTweet],
	"relationship-details": roundTripAs[twitter.RelationshipDetails],
	"relationship-state":   roundTripAs[twitter.RelationshipState],
}

func roundTripKinds() []string {
	kinds := make([]string, 0, len(roundTrips))
	for kind := range roundTrips {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// roundTrip restores json as the model named by kind and serializes it back.
// A top-level array is treated as a collection of that model.
func roundTrip(b *bridge.Bridge, kind, json string) (string, error) {
	fn, ok := roundTrips[kind]
	if !ok {
		return "", fmt.Errorf("unknown kind %q, expected one of %s", kind, strings.Join(roundTripKinds(), ", "))
	}
	many := strings.HasPrefix(strings.TrimSpace(json), "[")
	return fn(b, json, many)
}

func roundTripAs[M any](b *bridge.Bridge, json string, many bool) (string, error) {
	if many {
		models, err := bridge.Deserialize[[]M](b, json)
		if err != nil {
			return "", err
		}
		return bridge.Serialize(b, models)
	}

	model, err := bridge.Deserialize[M](b, json)
	if err != nil {
		return "", err
	}
	return bridge.Serialize(b, model)
}
