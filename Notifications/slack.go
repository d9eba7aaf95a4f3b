package Notifications

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

// Slack posts notices to a single channel.
// Required bot token scopes: chat:write, chat:write.public
type Slack struct {
	client  *slack.Client
	channel string
}

func NewSlack(token, channel string, options ...slack.Option) *Slack {
	return &Slack{client: slack.New(token, options...), channel: channel}
}

func (s *Slack) Notify(ctx context.Context, n Notice) error {
	text := n.Body
	if n.Title != "" {
		text = fmt.Sprintf("*%s*\n%s", n.Title, n.Body)
	}

	channelID, ts, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("slack post to %s: %w", s.channel, err)
	}

	log.Debug().Str("channel", channelID).Str("ts", ts).Msg("slack message sent")
	return nil
}
