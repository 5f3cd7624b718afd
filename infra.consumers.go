package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const popRetryDelay = time.Second

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// intentsConsumer feeds intents popped from the queue into the store.
type intentsConsumer struct {
	logger     *zap.Logger
	queue      Queuer
	dispatcher Dispatcher
}

func NewIntentsConsumer(logger *zap.Logger, q Queuer, dispatcher Dispatcher) Consumer {
	return &intentsConsumer{logger, q, dispatcher}
}

func (ic *intentsConsumer) Consume(ctx context.Context, qids ...string) error {
	for {
		qid, msg, err := ic.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			ic.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			ic.logger.Error("consumer: error on queue pop call", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(popRetryDelay):
			}
			continue
		}

		action, err := ActionFromMessage(msg)
		if err != nil {
			ic.logger.Warn("consumer: rejected message", zap.String("qid", qid), zap.String("type", msg.Type), zap.Error(err))
			continue
		}

		if err = ic.dispatcher.Dispatch(action); err != nil {
			ic.logger.Info("consumer: store stopped: exit", zap.String("qid", qid), zap.Error(err))
			return nil
		}
		ic.logger.Debug("consumer: intent dispatched", zap.String("qid", qid), zap.String("action", string(action.Type())))
	}
}
