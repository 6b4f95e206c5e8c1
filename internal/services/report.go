package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"murshop24/internal/db"
	"murshop24/internal/logger"
)

type OrderCounter interface {
	CountOrdersByStatus(ctx context.Context) (map[db.OrderStatus]int64, error)
}

// OrderReport - срез количества заказов по статусам
type OrderReport struct {
	Counts map[db.OrderStatus]int64
	Total  int64
	At     time.Time
}

func BuildOrderReport(ctx context.Context, counter OrderCounter) (OrderReport, error) {
	counts, err := counter.CountOrdersByStatus(ctx)
	if err != nil {
		return OrderReport{}, fmt.Errorf("count orders: %w", err)
	}
	r := OrderReport{Counts: counts, At: time.Now()}
	for _, n := range counts {
		r.Total += n
	}
	return r, nil
}

func (r OrderReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Заказы на %s: всего %d", r.At.Format("02.01 15:04"), r.Total)
	for _, st := range db.OrderStatuses() {
		fmt.Fprintf(&sb, "\n%s: %d", st, r.Counts[st])
	}
	return sb.String()
}

// PublishOrderReport обновляет метрики, пишет отчёт в журнал и отправляет его админу
func PublishOrderReport(ctx context.Context, counter OrderCounter) error {
	r, err := BuildOrderReport(ctx, counter)
	if err != nil {
		logger.NotifyAdmin("Не удалось построить отчёт по заказам: " + err.Error())
		return err
	}
	fields := []zap.Field{zap.Int64("total", r.Total)}
	for _, st := range db.OrderStatuses() {
		OrdersByStatus.WithLabelValues(string(st)).Set(float64(r.Counts[st]))
		fields = append(fields, zap.Int64(strings.ToLower(string(st)), r.Counts[st]))
	}
	logger.Info("order_report", fields...)
	logger.SendAdmin(r.String())
	return nil
}
