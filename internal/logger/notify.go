package logger

import (
	"fmt"
	"sync"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender - часть tgbotapi.BotAPI, нужная для уведомлений
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var (
	mu      sync.RWMutex
	sender  Sender
	adminID int64
)

// InitNotifier включает Telegram-уведомления администратору
func InitNotifier(bot Sender, admin int64) {
	mu.Lock()
	defer mu.Unlock()
	sender = bot
	adminID = admin
}

// NotifyAdmin пишет сообщение в журнал и, если уведомления включены, отправляет его админу
func NotifyAdmin(msg string) {
	log.Warn("admin_alert", zap.String("message", msg))
	SendAdmin("[ALERT] " + msg)
}

// SendAdmin отправляет текст админу как есть
func SendAdmin(text string) {
	mu.RLock()
	s, id := sender, adminID
	mu.RUnlock()
	if s == nil || id == 0 {
		return
	}
	if _, err := s.Send(tgbotapi.NewMessage(id, text)); err != nil {
		log.Error("failed to notify admin", zap.Error(err))
	}
}

// NotifyOnPanic ловит панику, логирует и уведомляет
func NotifyOnPanic(context string) {
	if r := recover(); r != nil {
		log.Error("panic", zap.String("context", context), zap.Any("recovered", r))
		NotifyAdmin("Panic in " + context + ": " + toString(r))
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	default:
		return fmt.Sprintf("%v", x)
	}
}
