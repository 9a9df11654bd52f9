// Package step — ядро бота: ссылки на вопросы STEP и их URL.
//
// Ссылка пишется как "<год>-S<статья>-Q<вопрос>", например "97-S2-Q1" или
// "Spec-S1-Q4". Год — двухзначный код (87..99 → 1900-е, 00..18 → 2000-е) или
// Specimen. Статья — 1..3 (набор задаёт Codec), вопрос — 1..16.
//
//	ref, err := step.Parse("97-S2-Q1")
//	if errors.Is(err, step.ErrOutOfRange) { ... }
//	ref.Label()            // "STEP 2 1997, Question 1"
//	loc, _ := step.NewLocator(step.DefaultURLTemplate)
//	loc.BuildURL(ref)      // ".../97-S2-Q1.png?raw=true"
package step
