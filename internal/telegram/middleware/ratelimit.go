package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/futig/medi-assistant/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	inactiveChatTTL = time.Hour
	limiterCleanup  = 10 * time.Minute
	warningInterval = 30 * time.Second
)

// chatLimit is the token bucket of one chat.
type chatLimit struct {
	limiter       *rate.Limiter
	mu            sync.Mutex
	lastWarningAt time.Time
}

// RateLimiterMiddleware drops updates of chats that exceed their per-minute
// budget and warns them at most once per warningInterval. Chats that stay
// quiet for an hour are forgotten.
type RateLimiterMiddleware struct {
	limits *cache.Cache
	mu     sync.Mutex
	limit  rate.Limit
	burst  int
	sender Sender
	now    func() time.Time
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(requestsPerMinute, burst int, sender Sender) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		limits: cache.New(inactiveChatTTL, limiterCleanup),
		limit:  rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:  burst,
		sender: sender,
		now:    time.Now,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(ctx context.Context, update tgbotapi.Update, next HandlerFunc) {
	chatID := ChatID(update)
	if chatID == 0 {
		next(ctx, update)
		return
	}

	allowed, warn := rl.allow(chatID)
	if !allowed {
		ctxzap.Warn(ctx, "rate limit exceeded")
		if warn {
			if _, err := rl.sender.Send(tgbotapi.NewMessage(chatID, render.MsgRateLimited)); err != nil {
				ctxzap.Error(ctx, "failed to send rate limit warning", zap.Error(err))
			}
		}
		return
	}

	next(ctx, update)
}

// allow reports whether the chat may proceed and, if not, whether it should be warned.
func (rl *RateLimiterMiddleware) allow(chatID int64) (bool, bool) {
	limit := rl.chatLimit(chatID)
	now := rl.now()

	limit.mu.Lock()
	defer limit.mu.Unlock()

	if limit.limiter.AllowN(now, 1) {
		return true, false
	}

	if now.Sub(limit.lastWarningAt) > warningInterval {
		limit.lastWarningAt = now
		return false, true
	}

	return false, false
}

func (rl *RateLimiterMiddleware) chatLimit(chatID int64) *chatLimit {
	key := strconv.FormatInt(chatID, 10)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	limit, ok := rl.limits.Get(key)
	if !ok {
		limit = &chatLimit{limiter: rate.NewLimiter(rl.limit, rl.burst)}
	}
	// Re-setting slides the inactivity expiry.
	rl.limits.SetDefault(key, limit)

	return limit.(*chatLimit)
}
