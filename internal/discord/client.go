package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DefaultSendTimeout — предел на одну отправку в REST.
const DefaultSendTimeout = 10 * time.Second

const userAgent = "DiscordBot (https://github.com/EgorLis/stepbot, 1.0)"

type Config struct {
	Token       string        `yaml:"token"`
	Intents     int           `yaml:"intents"`
	SendTimeout time.Duration `yaml:"send_timeout"`
}

type Client struct {
	cfg     Config
	log     *zap.Logger
	session *discordgo.Session

	mu   sync.Mutex // open, stop
	open bool
	stop chan struct{}
	self atomic.Pointer[User]

	OnConnected    func(self User)
	OnMessage      func(Message)
	OnDisconnected func()
	OnError        func(error)
}

// New — httpClient уходит в сессию для REST; nil — клиент discordgo.
func New(cfg Config, httpClient *http.Client, log *zap.Logger) (*Client, error) {
	if cfg.Intents == 0 {
		cfg.Intents = int(DefaultIntents)
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord: session: %w", err)
	}
	s.Identify.Intents = discordgo.Intent(cfg.Intents)
	s.UserAgent = userAgent
	if httpClient != nil {
		s.Client = httpClient
	}

	c := &Client{cfg: cfg, log: log, session: s}
	s.AddHandler(c.onReady)
	s.AddHandler(c.onMessageCreate)
	s.AddHandler(c.onDisconnect)
	s.AddHandler(c.onRateLimit)
	return c, nil
}

// Connect открывает сессию шлюза. Отмена ctx закрывает её; переподключения
// после обрывов делает сама discordgo.
func (c *Client) Connect(ctx context.Context) error {
	if c.cfg.Token == "" {
		return errors.New("discord: empty token")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open {
		return errors.New("discord: already connected")
	}
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("discord: open: %w", err)
	}
	c.open = true
	stop := make(chan struct{})
	c.stop = stop

	go func() {
		select {
		case <-ctx.Done():
			c.Disconnect()
		case <-stop:
		}
	}()
	return nil
}

// Disconnect — повторный вызов безопасен.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return
	}
	c.open = false
	close(c.stop)
	c.mu.Unlock()

	if err := c.session.Close(); err != nil {
		c.emitError(fmt.Errorf("discord: close: %w", err))
	}
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Self — пользователь бота из READY (nil до первого READY).
func (c *Client) Self() *User { return c.self.Load() }

func (c *Client) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	u := userFrom(r.User)
	c.self.Store(&u)
	c.log.Info("gateway: ready", zap.String("user", u.Username), zap.String("session", r.SessionID))
	if c.OnConnected != nil {
		c.OnConnected(u)
	}
}

func (c *Client) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if c.OnMessage != nil {
		c.OnMessage(messageFrom(m.Message))
	}
}

func (c *Client) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	c.log.Info("gateway: disconnected")
	if c.OnDisconnected != nil {
		c.OnDisconnected()
	}
}

func (c *Client) onRateLimit(_ *discordgo.Session, r *discordgo.RateLimit) {
	c.log.Debug("rest: rate limited", zap.String("url", r.URL), zap.Duration("retry_after", r.RetryAfter))
}

func (c *Client) emitError(err error) {
	c.log.Warn("discord", zap.Error(err))
	if c.OnError != nil {
		c.OnError(err)
	}
}
