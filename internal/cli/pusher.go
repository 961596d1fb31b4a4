package cli

import (
	"context"

	"vidtycoon/internal/game"
)

// ScorePusher reports the player's score for one logged-in account.
type ScorePusher struct {
	client *Client
	userID string
}

func NewScorePusher(client *Client, userID string) *ScorePusher {
	return &ScorePusher{client: client, userID: userID}
}

func (p *ScorePusher) PushScore(ctx context.Context, score game.Score) error {
	return p.client.UpdateScore(ctx, p.userID, score)
}

var _ game.ScoreSink = (*ScorePusher)(nil)
