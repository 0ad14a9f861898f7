package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// SubscriptionList prints the viewer's subscriptions.
func (r *Runner) SubscriptionList(ctx context.Context, cmd *cli.Command) error {
	subs, err := r.client.Subscriptions(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(subs, cmd.Bool("pretty"))
	}

	r.writePlain("Subscriptions: %d\n\n", len(subs))
	for _, s := range subs {
		name := s.Channel.Username
		if name == "" {
			name = "(unknown channel)"
		}
		r.writePlain("%5d  %s\n", s.Channel.ID, name)
	}
	return nil
}

// SubscriptionStatus reports whether the viewer subscribes to a channel.
func (r *Runner) SubscriptionStatus(ctx context.Context, cmd *cli.Command) error {
	channelID, err := idArg(cmd, "channel")
	if err != nil {
		return err
	}
	if err := r.client.Session().Require(); err != nil {
		return err
	}

	if r.subscriptions.Load(ctx, channelID) {
		return r.writePlain("✓ Subscribed to channel %d\n", channelID)
	}
	return r.writePlain("✗ Not subscribed to channel %d\n", channelID)
}

// SubscriptionToggle flips the subscription to a channel.
func (r *Runner) SubscriptionToggle(ctx context.Context, cmd *cli.Command) error {
	channelID, err := idArg(cmd, "channel")
	if err != nil {
		return err
	}
	if err := r.client.Session().Require(); err != nil {
		return err
	}
	if r.client.Session().User().ID == channelID {
		return r.writePlain("This is your channel\n")
	}

	r.subscriptions.Load(ctx, channelID)
	subscribed, err := r.subscriptions.Toggle(ctx, channelID)
	if err != nil {
		return err
	}

	if subscribed {
		return r.writePlain("✓ Subscribed to channel %d\n", channelID)
	}
	return r.writePlain("✓ Unsubscribed from channel %d\n", channelID)
}
