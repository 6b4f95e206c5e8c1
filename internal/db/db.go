package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store - доступ к схеме магазина. Состояния между вызовами не хранит,
// согласованность обеспечивают ограничения и транзакции PostgreSQL.
type Store struct {
	db *gorm.DB
}

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Logger          *zap.Logger
	LogLevel        gormlogger.LogLevel
	SlowThreshold   time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		Logger:          zap.NewNop(),
		LogLevel:        gormlogger.Warn,
		SlowThreshold:   200 * time.Millisecond,
	}
}

// Open подключается к PostgreSQL. Недоступная СУБД возвращается как ErrUnavailable.
func Open(dsn string, opts Options) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty DSN", ErrUnavailable)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(opts.Logger, opts.LogLevel, opts.SlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrUnavailable, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return &Store{db: gdb}, nil
}

// NewStore оборачивает уже открытое соединение gorm
func NewStore(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// Migrate создаёт таблицы, индексы и ограничения схемы
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate schema: %w", classify(err))
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction выполняет fn в одной транзакции; ошибка из fn откатывает её
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// DB отдаёт gorm-соединение для запросов, которых нет в Store
func (s *Store) DB() *gorm.DB {
	return s.db
}
