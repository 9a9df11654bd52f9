package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Send отправляет текст в канал. Ожидание на 429 делает discordgo; вся
// отправка ограничена SendTimeout.
func (c *Client) Send(ctx context.Context, channelID, content string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.SendTimeout)
	defer cancel()

	if _, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send to %s: %w", channelID, err)
	}
	return nil
}
