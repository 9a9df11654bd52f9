// Package bot — “склейка” вокруг selector, discord и store, реализующая
// STEP-бота для Discord. Бот:
//   - слушает сообщения шлюза и отвечает на команду !step;
//   - !step XX-SY-QZ — конкретный вопрос, !step random [S1 S2 S3] — случайный,
//     !step help — справка;
//   - раз в день в заданное время (и таймзоне) постит случайный вопрос в
//     канал и записывает его в историю, чтобы не постить дважды.
//
// Жизненный цикл:
//   - Создать бота через New(selector, sender, logger).
//   - Передать клиентов: SetDiscord(...) (или SetGateway), SetHistory(...).
//   - UseConfig(cfg) — применит префикс команды и расписание.
//   - Запустить Start(ctx) и остановить Stop().
//
// Пример:
//
//	b := bot.New(sel, nil, logger)
//	b.SetDiscord(dc)
//	b.SetHistory(st)
//	_ = b.UseConfig(cfg)
//
//	if err := b.Start(ctx); err != nil { log.Fatal(err) }
//	defer b.Stop()
//	<-ctx.Done()
//
// Ответ на успешный запрос — два сообщения: подпись ("STEP 2 1997,
// Question 1") и URL картинки. На ошибку — одно сообщение с её классом.
package bot
