package admin

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"murshop24/internal/logger"
)

// RetentionPeriod - сколько хранятся дампы
const RetentionPeriod = 31 * 24 * time.Hour

// runCommand подменяется в тестах
var runCommand = func(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

// BackupDatabase создает дамп БД Postgres в указанный файл
func BackupDatabase(ctx context.Context, filename, dsn string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	return runCommand(ctx, "pg_dump", dsn, "-Fc", "-f", filename)
}

// RestoreDatabase восстанавливает БД из дампа
func RestoreDatabase(ctx context.Context, filename, dsn string) error {
	if _, err := os.Stat(filename); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	return runCommand(ctx, "pg_restore", "--clean", "--if-exists", "-d", dsn, filename)
}

// CleanOldBackups удаляет дампы старше maxAge и возвращает удалённые файлы
func CleanOldBackups(dir string, maxAge time.Duration) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*backup_*.dump"))
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-maxAge)
	var removed []string
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(f); err == nil {
				removed = append(removed, f)
			}
		}
	}
	return removed, nil
}

// AutoBackupDatabase делает дамп в dir, чистит старые и сообщает админу об ошибке
func AutoBackupDatabase(ctx context.Context, dir, dsn string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.NotifyAdmin("Ошибка резервного копирования: " + err.Error())
		return "", err
	}
	filename := filepath.Join(dir, "autobackup_"+time.Now().Format("20060102_150405")+".dump")
	if err := BackupDatabase(ctx, filename, dsn); err != nil {
		logger.NotifyAdmin("Ошибка резервного копирования: " + err.Error())
		return "", err
	}
	removed, err := CleanOldBackups(dir, RetentionPeriod)
	if err != nil {
		logger.Warn("failed to clean old backups", zap.Error(err))
	}
	logger.Info("database backup created", zap.String("file", filename), zap.Int("removed_old", len(removed)))
	return filename, nil
}
