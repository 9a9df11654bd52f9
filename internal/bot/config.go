package bot

import (
	"github.com/EgorLis/stepbot/internal/config"
)

// UseConfig применяет секции bot и daily конфига.
func (bot *StepBot) UseConfig(cfg config.Config) error {
	sched, err := ScheduleFromConfig(cfg.Daily)
	if err != nil {
		return err
	}
	bot.SetDaily(sched)

	if cfg.Bot.Prefix != "" && cfg.Bot.Command != "" {
		bot.SetCommand(cfg.Bot.Prefix, cfg.Bot.Command)
	}
	if cfg.Bot.MaxInFlight > 0 {
		bot.SetMaxInFlight(cfg.Bot.MaxInFlight)
	}
	return nil
}
