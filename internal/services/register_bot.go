package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"murshop24/internal/db"
)

type BotIdentity struct {
	TgID     int64
	Username string
}

// IdentityResolver узнаёт id и username бота по токену
type IdentityResolver interface {
	Resolve(token string) (BotIdentity, error)
}

// TelegramResolver вызывает getMe Bot API
type TelegramResolver struct {
	// Endpoint в формате tgbotapi.APIEndpoint; пустой - api.telegram.org
	Endpoint string
	Client   *http.Client
}

func (r TelegramResolver) Resolve(token string) (BotIdentity, error) {
	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return BotIdentity{}, fmt.Errorf("telegram getMe: %w", err)
	}
	return BotIdentity{TgID: api.Self.ID, Username: api.Self.UserName}, nil
}

type BotCreator interface {
	CreateBot(ctx context.Context, b *db.TgBot) error
}

type RegisterBotParams struct {
	Token            string
	OperatorID       int64
	ReviewsChannelID *int64
}

// RegisterBot сохраняет бота с настоящими tg_id и username из Telegram.
// Новый бот всегда сохраняется остановленным.
func RegisterBot(ctx context.Context, store BotCreator, resolver IdentityResolver, p RegisterBotParams) (*db.TgBot, error) {
	if p.Token == "" {
		return nil, fmt.Errorf("register bot: empty token")
	}
	id, err := resolver.Resolve(p.Token)
	if err != nil {
		return nil, fmt.Errorf("register bot: %w", err)
	}
	bot := &db.TgBot{
		Token:              p.Token,
		TgID:               id.TgID,
		TgUsername:         id.Username,
		TgOperatorID:       p.OperatorID,
		TgReviewsChannelID: p.ReviewsChannelID,
	}
	if err := store.CreateBot(ctx, bot); err != nil {
		return nil, fmt.Errorf("register bot @%s: %w", id.Username, err)
	}
	return bot, nil
}
