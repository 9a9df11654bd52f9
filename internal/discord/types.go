package discord

import "github.com/bwmarrin/discordgo"

// DefaultIntents — сервера, сообщения в каналах и ЛС, текст сообщений.
const DefaultIntents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

type User struct {
	ID       string
	Username string
	Bot      bool
}

// Message — входящее сообщение (MESSAGE_CREATE).
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	Content   string
	Author    User
}

func userFrom(u *discordgo.User) User {
	if u == nil {
		return User{}
	}
	return User{ID: u.ID, Username: u.Username, Bot: u.Bot}
}

func messageFrom(m *discordgo.Message) Message {
	if m == nil {
		return Message{}
	}
	return Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
		Author:    userFrom(m.Author),
	}
}
