package Notifications

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// multicastLimit is the most tokens FCM accepts in one multicast.
const multicastLimit = 500

type TokenSource interface {
	FCMTokens(ctx context.Context) ([]string, error)
}

// FCM pushes notices to every registered device token.
type FCM struct {
	client *messaging.Client
	tokens TokenSource
}

func NewFCM(ctx context.Context, credentialsFile string, tokens TokenSource) (*FCM, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Messaging client: %w", err)
	}

	return &FCM{client: client, tokens: tokens}, nil
}

func (f *FCM) Notify(ctx context.Context, n Notice) error {
	tokens, err := f.tokens.FCMTokens(ctx)
	if err != nil {
		return fmt.Errorf("load fcm tokens: %w", err)
	}

	for _, batch := range chunk(tokens, multicastLimit) {
		resp, err := f.client.SendEachForMulticast(ctx, multicast(n, batch))
		if err != nil {
			return fmt.Errorf("error sending Firebase message: %w", err)
		}
		if resp.FailureCount > 0 {
			log.Warn().
				Int("failed", resp.FailureCount).
				Int("sent", resp.SuccessCount).
				Msg("some firebase notifications were not delivered")
		}
	}
	return nil
}

func multicast(n Notice, tokens []string) *messaging.MulticastMessage {
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   n.Data,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
	}
}

func chunk(tokens []string, size int) [][]string {
	var out [][]string
	for len(tokens) > size {
		out = append(out, tokens[:size])
		tokens = tokens[size:]
	}
	if len(tokens) > 0 {
		out = append(out, tokens)
	}
	return out
}
