package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultNotificationsChannel = "books:notifications"

var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*RedisNotifier)(nil)
	_ Notifier = (MultiNotifier)(nil)
)

// LogNotifier writes notifications to the application logs.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (ln *LogNotifier) Show(message string) {
	ln.logger.Warn("notification", zap.String("notification.message", message))
}

// RedisNotifier publishes notifications on a redis channel so any
// connected front-end can display them.
type RedisNotifier struct {
	logger  *zap.Logger
	client  *redis.Client
	channel string
	timeout time.Duration
}

func NewRedisNotifier(logger *zap.Logger, client *redis.Client, config *NotificationsConfig) *RedisNotifier {
	return &RedisNotifier{
		logger:  logger,
		client:  client,
		channel: config.RedisChannel,
		timeout: config.Timeout,
	}
}

// Show publishes the message without waiting for the result.
func (rn *RedisNotifier) Show(message string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), rn.timeout)
		defer cancel()
		if err := rn.client.Publish(ctx, rn.channel, message).Err(); err != nil {
			rn.logger.Error("notifier: failed to publish", zap.String("channel", rn.channel), zap.Error(err))
		}
	}()
}

// MultiNotifier fans out each message to all its notifiers.
type MultiNotifier []Notifier

func (mn MultiNotifier) Show(message string) {
	for _, n := range mn {
		n.Show(message)
	}
}
