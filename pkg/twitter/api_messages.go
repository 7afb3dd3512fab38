package twitter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NethermindEth/tweetbridge/pkg/twitter/dto"
)

type MessagesAPI struct {
	client *TwitterClient
}

func (a *MessagesAPI) PublishMessage(ctx context.Context, recipientID int64, text string) (Message, error) {
	if recipientID == 0 || text == "" {
		return nil, fmt.Errorf("%w: recipient and text are required", ErrInvalidParameters)
	}

	msg := &dto.MessageCreateDTO{}
	msg.Target.RecipientID = strconv.FormatInt(recipientID, 10)
	msg.MessageData.Text = text

	body, err := a.client.bridge.Codec().Encode(&dto.CreateMessageEventDTO{
		Event: &dto.MessageEventDTO{Type: "message_create", MessageCreate: msg},
	})
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}

	resp, err := execute[*dto.CreateMessageEventDTO](ctx, a.client, &request{
		method: http.MethodPost,
		url:    a.client.endpoint("/direct_messages/events/new.json"),
		body:   []byte(body),
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Event == nil {
		return nil, errors.New("decode response: missing event")
	}

	return a.client.factories.MessageFromDTO(resp.Event, nil), nil
}

// GetLatestMessages returns direct messages sent and received within the last
// 30 days, newest first, with the sending app attached when reported.
func (a *MessagesAPI) GetLatestMessages(ctx context.Context, count int) ([]Message, error) {
	query := url.Values{}
	if count > 0 {
		query.Set("count", strconv.Itoa(count))
	}

	resp, err := execute[*dto.MessageEventsDTO](ctx, a.client, &request{
		method: http.MethodGet,
		url:    a.client.endpoint("/direct_messages/events/list.json"),
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	messages := make([]Message, 0, len(resp.Events))
	for _, event := range resp.Events {
		if event == nil {
			continue
		}
		var app *dto.AppDTO
		if event.MessageCreate != nil && event.MessageCreate.SourceAppID != "" {
			app = resp.Apps[event.MessageCreate.SourceAppID]
		}
		messages = append(messages, a.client.factories.MessageFromDTO(event, app))
	}
	return messages, nil
}

func (a *MessagesAPI) DestroyMessage(ctx context.Context, id int64) error {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(id, 10))

	_, err := a.client.executor.do(ctx, &request{
		method: http.MethodDelete,
		url:    a.client.endpoint("/direct_messages/events/destroy.json"),
		query:  query,
	})
	return err
}
