// Package discord — обёртка над сессией discordgo: шлюз для приёма
// сообщений и REST для отправки.
//
// Heartbeat, переподключение после обрыва и ожидание на rate limit делает
// discordgo. Обёртка переводит события в свои типы и колбэки:
//   - OnConnected(self) — пришёл READY;
//   - OnMessage(msg) — MESSAGE_CREATE;
//   - OnDisconnected, OnError.
//
// Пример:
//
//	c, err := discord.New(discord.Config{Token: token}, nil, logger)
//	if err != nil { log.Fatal(err) }
//	c.OnMessage = func(m discord.Message) { ... }
//	if err := c.Connect(ctx); err != nil { log.Fatal(err) }
//	defer c.Disconnect()
//
//	_ = c.Send(ctx, channelID, "hello")
package discord
