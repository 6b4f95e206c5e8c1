package services

import (
	"context"

	"murshop24/internal/admin"
)

// RunBackup - задача планировщика: дамп, чистка старых дампов и учёт в метриках
func RunBackup(ctx context.Context, dir, dsn string) {
	if _, err := admin.AutoBackupDatabase(ctx, dir, dsn); err != nil {
		BackupsTotal.WithLabelValues("error").Inc()
		return
	}
	BackupsTotal.WithLabelValues("ok").Inc()
}
