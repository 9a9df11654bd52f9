package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/EgorLis/stepbot/internal/discord"
	"github.com/EgorLis/stepbot/internal/selector"
	"github.com/EgorLis/stepbot/internal/step"
)

const (
	msgOutOfRange = "Invalid STEP question reference."
	msgNotFound   = "That STEP question could not be found."
	msgExhausted  = "Failed to find a valid STEP question."
	msgBusy       = "Too many requests right now, try again in a moment."
)

// HandleMessage — входящее сообщение из шлюза. Команда обрабатывается в
// отдельной горутине, не больше MaxInFlight одновременно.
func (bot *StepBot) HandleMessage(m discord.Message) {
	if m.Author.Bot || !bot.isCommand(m.Content) {
		return
	}
	bot.log.Info("command", zap.String("user", m.Author.Username), zap.String("channel", m.ChannelID), zap.String("text", m.Content))

	ok := bot.spawn(func(ctx context.Context) {
		if !bot.sem.TryAcquire(1) {
			_ = bot.say(ctx, m.ChannelID, msgBusy)
			return
		}
		defer bot.sem.Release(1)

		if err := bot.HandleCommand(ctx, m.ChannelID, m.Content); err != nil && ctx.Err() == nil {
			bot.log.Warn("command failed", zap.String("text", m.Content), zap.Error(err))
		}
	})
	if !ok {
		bot.log.Debug("bot not running, command dropped", zap.String("text", m.Content))
	}
}

func (bot *StepBot) isCommand(text string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && strings.EqualFold(fields[0], bot.prefix+bot.command)
}

// HandleCommand разбирает "!step ..." и отвечает в channelID. Ошибки
// пользователя (формат, диапазон, не найдено) уходят сообщением в чат,
// возвращаются только ошибки отправки и отмены.
func (bot *StepBot) HandleCommand(ctx context.Context, channelID, text string) error {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.EqualFold(fields[0], bot.prefix+bot.command) {
		return nil
	}
	args := fields[1:]

	switch {
	case len(args) == 0 || strings.EqualFold(args[0], "help"):
		return bot.say(ctx, channelID, bot.helpText())

	case strings.EqualFold(args[0], "random"):
		papers := bot.questions.Config().RandomPapers
		if len(args) > 1 {
			p, err := parsePapers(args[1:])
			if err != nil {
				return bot.say(ctx, channelID, msgOutOfRange)
			}
			papers = p
		}
		q, err := bot.questions.SelectRandom(ctx, papers)
		return bot.reply(ctx, channelID, q, err)

	default:
		q, err := bot.questions.Lookup(ctx, strings.Join(args, " "))
		return bot.reply(ctx, channelID, q, err)
	}
}

func (bot *StepBot) reply(ctx context.Context, channelID string, q selector.Question, err error) error {
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := bot.userMessage(err)
		if msg == "" {
			return err
		}
		return bot.say(ctx, channelID, msg)
	}
	return bot.post(ctx, channelID, q)
}

// post — две строки: подпись, затем URL (Discord развернёт картинку).
func (bot *StepBot) post(ctx context.Context, channelID string, q selector.Question) error {
	if err := bot.say(ctx, channelID, q.Label); err != nil {
		return err
	}
	return bot.say(ctx, channelID, q.URL)
}

func (bot *StepBot) say(ctx context.Context, channelID, text string) error {
	if err := bot.out.Send(ctx, channelID, text); err != nil {
		return fmt.Errorf("send to %s: %w", channelID, err)
	}
	return nil
}

func (bot *StepBot) userMessage(err error) string {
	switch {
	case errors.Is(err, step.ErrMalformedInput):
		return fmt.Sprintf("Invalid format. Use `%s%s XX-SY-QZ` (e.g. `97-S2-Q1`).", bot.prefix, bot.command)
	case errors.Is(err, step.ErrOutOfRange):
		return msgOutOfRange
	case errors.Is(err, selector.ErrNotFound):
		return msgNotFound
	case errors.Is(err, selector.ErrExhaustedRetries):
		return msgExhausted
	}
	return ""
}

func (bot *StepBot) helpText() string {
	cmd := bot.prefix + bot.command
	return strings.Join([]string{
		"**STEP Bot Commands**",
		"",
		fmt.Sprintf("`%s XX-SY-QZ` — show a specific question", cmd),
		fmt.Sprintf("`%s random` — random STEP %s question", cmd, joinPapers(bot.questions.Config().RandomPapers)),
		fmt.Sprintf("`%s random S1 S3` — random question from the given papers", cmd),
		fmt.Sprintf("`%s help` — show this message", cmd),
		"",
		"Examples:",
		fmt.Sprintf("`%s 97-S2-Q1`", cmd),
		fmt.Sprintf("`%s Spec-S1-Q4`", cmd),
	}, "\n")
}

// parsePapers: "S3", "s2", "1" или "all".
func parsePapers(args []string) (step.Papers, error) {
	var out step.Papers
	for _, a := range args {
		if strings.EqualFold(a, "all") {
			return step.AllPapers, nil
		}
		s := strings.TrimPrefix(strings.TrimPrefix(a, "S"), "s")
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("bad paper %q", a)
		}
		if !out.Contains(n) {
			out = append(out, n)
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func joinPapers(p step.Papers) string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	if len(parts) <= 1 {
		return strings.Join(parts, "")
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}
