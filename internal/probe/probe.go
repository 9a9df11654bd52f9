// Package probe проверяет, что картинка вопроса существует (HEAD-запрос).
// Любая ошибка сети, таймаут или статус кроме 200 — это "нет": вызывающему
// всё равно, отсутствует картинка или её не удалось проверить.
package probe

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 5 * time.Second

type Prober struct {
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
}

// New — client создаёт и закрывает вызывающий (один на процесс).
// nil client → свой http.Client; timeout <= 0 → DefaultTimeout.
func New(client *http.Client, timeout time.Duration, log *zap.Logger) *Prober {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Prober{http: client, timeout: timeout, log: log}
}

// Exists — true только на 200 OK (после редиректов). Никогда не паникует
// и не возвращает ошибку.
func (p *Prober) Exists(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		p.log.Debug("probe: bad request", zap.String("url", url), zap.Error(err))
		return false
	}

	resp, err := p.http.Do(req)
	if err != nil {
		p.log.Debug("probe: transport error", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.log.Debug("probe: not found", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return false
	}
	return true
}
