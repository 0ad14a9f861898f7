package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/normalize"
)

// Subscriptions lists the viewer's channel subscriptions.
//
// Calls GET /subscriptions/.
func (c *Client) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/subscriptions/", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return normalize.List[models.Subscription](c.normalizer, data, "subscriptions"), nil
}

// Subscribe subscribes the viewer to a channel.
//
// Calls POST /subscriptions/subscribe/ with {channel_id}.
func (c *Client) Subscribe(ctx context.Context, channelID models.ID) error {
	payload := struct {
		ChannelID models.ID `json:"channel_id"`
	}{channelID}
	return c.postJSON(ctx, "/subscriptions/subscribe/", payload, nil)
}

// IsSubscribed reports whether the viewer subscribes to channelID.
//
// Tries GET /subscriptions/check/{id}/ first, then scans GET /subscriptions/ for the channel.
// When both fail the viewer is treated as not subscribed and the error is only logged.
func (c *Client) IsSubscribed(ctx context.Context, channelID models.ID) bool {
	var check struct {
		IsSubscribed bool `json:"is_subscribed"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("/subscriptions/check/%d/", channelID), nil, &check)
	if err == nil {
		return check.IsSubscribed
	}
	c.logger.Debug("subscription check endpoint failed, scanning subscriptions", "channel", channelID, "error", err)

	subs, err := c.Subscriptions(ctx)
	if err != nil {
		c.logger.Warn("subscription check failed", "channel", channelID, "error", err)
		return false
	}
	for _, sub := range subs {
		if sub.Channel.ID == channelID {
			return true
		}
	}
	return false
}
