package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/EgorLis/stepbot/internal/config"
	"github.com/EgorLis/stepbot/internal/selector"
	"github.com/EgorLis/stepbot/internal/store"
)

// DailySchedule — когда и куда постить вопрос дня.
type DailySchedule struct {
	Enabled   bool
	ChannelID string
	Hour      int
	Minute    int
	Loc       *time.Location
}

// ScheduleFromConfig переводит секцию daily конфига в расписание.
func ScheduleFromConfig(d config.DailyConfig) (DailySchedule, error) {
	h, m, err := d.Clock()
	if err != nil {
		return DailySchedule{}, err
	}
	loc, err := d.Location()
	if err != nil {
		return DailySchedule{}, err
	}
	return DailySchedule{Enabled: d.Enabled, ChannelID: d.ChannelID, Hour: h, Minute: m, Loc: loc}, nil
}

// NextRun — ближайший момент HH:MM в loc строго после now.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}

// DayKey — день в таймзоне расписания, ключ истории.
func (d DailySchedule) DayKey(t time.Time) string {
	return t.In(d.Loc).Format(store.DayLayout)
}

// dailyLoop — живёт, пока не отменят ctx.
func (bot *StepBot) dailyLoop(ctx context.Context) error {
	for {
		next := NextRun(bot.now(), bot.daily.Hour, bot.daily.Minute, bot.daily.Loc)
		bot.log.Info("daily: next post", zap.Time("at", next))

		if !bot.wait(ctx, next.Sub(bot.now())) {
			return nil
		}

		q, err := bot.PostDaily(ctx, next)
		switch {
		case errors.Is(err, store.ErrAlreadyPosted):
			bot.log.Info("daily: already posted", zap.String("day", bot.daily.DayKey(next)))
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			bot.log.Warn("daily: post failed", zap.Error(err))
		default:
			bot.log.Info("daily: posted", zap.String("ref", q.Ref.String()), zap.String("url", q.URL))
		}
	}
}

// sleepCtx ждёт d; false — ctx отменили раньше.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// PostDaily выбирает вопрос дня и постит его в канал расписания. День
// считается по at; если за него уже есть запись — store.ErrAlreadyPosted.
func (bot *StepBot) PostDaily(ctx context.Context, at time.Time) (selector.Question, error) {
	if bot.daily.ChannelID == "" {
		return selector.Question{}, errors.New("daily channel id is empty")
	}
	day := bot.daily.DayKey(at)

	if bot.history != nil {
		posted, err := bot.history.Posted(ctx, day)
		if err != nil {
			return selector.Question{}, err
		}
		if posted {
			return selector.Question{}, fmt.Errorf("%s: %w", day, store.ErrAlreadyPosted)
		}
	}

	q, err := bot.questions.RunDailyOnce(ctx)
	if err != nil {
		return selector.Question{}, err
	}
	if err := bot.post(ctx, bot.daily.ChannelID, q); err != nil {
		return selector.Question{}, err
	}

	if bot.history != nil {
		_, err := bot.history.Record(ctx, store.DailyPost{
			Day:       day,
			Ref:       q.Ref.String(),
			Label:     q.Label,
			URL:       q.URL,
			ChannelID: bot.daily.ChannelID,
			PostedAt:  bot.now(),
		})
		if err != nil {
			return q, fmt.Errorf("recording daily post: %w", err)
		}
	}
	return q, nil
}
