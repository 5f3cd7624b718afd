package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var _ Reactor = (*Effects)(nil) // ensure Effects implements Reactor.

// switchLatest keeps the cancel function of the most recent unit of work
// of one intent kind. Starting a new unit cancels the previous one.
type switchLatest struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (sl *switchLatest) next(parent context.Context) context.Context {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.cancel != nil {
		sl.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	sl.cancel = cancel
	return ctx
}

func (sl *switchLatest) stop() {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.cancel != nil {
		sl.cancel()
		sl.cancel = nil
	}
}

// Effects translates intents into repository calls and their results
// into outcome actions. Each intent kind runs under its own switch-to-latest
// policy: a newer intent of a kind abandons the pending call of that kind
// and its result is never dispatched.
type Effects struct {
	logger     *zap.Logger
	repository BookRepository
	dispatcher Dispatcher
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	lanes      map[ActionType]*switchLatest
}

// NewEffects provides the effects runner. It must be registered on the
// store it dispatches into.
func NewEffects(logger *zap.Logger, repository BookRepository, dispatcher Dispatcher) *Effects {
	ctx, cancel := context.WithCancel(context.Background())
	return &Effects{
		logger:     logger,
		repository: repository,
		dispatcher: dispatcher,
		ctx:        ctx,
		cancel:     cancel,
		lanes: map[ActionType]*switchLatest{
			LoadBooksType:            {},
			AddBookType:              {},
			UpdateBookType:           {},
			DeleteBookType:           {},
			ToggleBookReadStatusType: {},
		},
	}
}

// React starts the translator matching the intent. Outcomes are ignored.
func (e *Effects) React(action Action) {
	switch a := action.(type) {
	case LoadBooks:
		e.run(a, e.loadBooks)
	case AddBook:
		e.run(a, func(ctx context.Context) Action { return e.addBook(ctx, a) })
	case UpdateBook:
		e.run(a, func(ctx context.Context) Action { return e.updateBook(ctx, a) })
	case DeleteBook:
		e.run(a, func(ctx context.Context) Action { return e.deleteBook(ctx, a) })
	case ToggleBookReadStatus:
		e.run(a, func(ctx context.Context) Action { return e.toggleBookReadStatus(ctx, a) })
	}
}

// Close abandons all pending calls and waits for their goroutines to exit.
func (e *Effects) Close() {
	e.cancel()
	for _, lane := range e.lanes {
		lane.stop()
	}
	e.wg.Wait()
}

// Wait blocks until every started translator has returned.
func (e *Effects) Wait() {
	e.wg.Wait()
}

func (e *Effects) run(intent Action, translate func(ctx context.Context) Action) {
	if e.ctx.Err() != nil {
		return
	}
	ctx := e.lanes[intent.Type()].next(e.ctx)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		outcome := translate(ctx)
		if ctx.Err() != nil {
			e.logger.Debug("effects: dropped result of superseded call",
				zap.String("intent", string(intent.Type())),
				zap.String("outcome", string(outcome.Type())),
			)
			return
		}
		if err := e.dispatcher.DispatchScoped(ctx, outcome); err != nil {
			e.logger.Warn("effects: failed to dispatch outcome",
				zap.String("outcome", string(outcome.Type())),
				zap.Error(err),
			)
		}
	}()
}

func (e *Effects) loadBooks(ctx context.Context) Action {
	books, err := e.repository.GetAll(ctx)
	if err != nil {
		e.logFailure("get all", err)
		return LoadBooksFailure{Reason: failureMessage(err)}
	}
	return LoadBooksSuccess{Books: books}
}

func (e *Effects) addBook(ctx context.Context, a AddBook) Action {
	book, err := e.repository.Create(ctx, a.Book)
	if err != nil {
		e.logFailure("create", err)
		return AddBookFailure{Reason: failureMessage(err)}
	}
	return AddBookSuccess{Book: book}
}

func (e *Effects) updateBook(ctx context.Context, a UpdateBook) Action {
	book, err := e.repository.Update(ctx, a.ID, a.Changes)
	if err != nil {
		e.logFailure("update", err, zap.Int("book.id", a.ID))
		return UpdateBookFailure{Reason: failureMessage(err)}
	}
	return UpdateBookSuccess{Book: book}
}

func (e *Effects) deleteBook(ctx context.Context, a DeleteBook) Action {
	if err := e.repository.Delete(ctx, a.ID); err != nil {
		e.logFailure("delete", err, zap.Int("book.id", a.ID))
		return DeleteBookFailure{Reason: failureMessage(err)}
	}
	return DeleteBookSuccess{ID: a.ID}
}

// toggleBookReadStatus reads the current flag then writes its opposite.
// A failure of either step is reported as an update failure.
func (e *Effects) toggleBookReadStatus(ctx context.Context, a ToggleBookReadStatus) Action {
	book, err := e.repository.GetByID(ctx, a.ID)
	if err != nil {
		e.logFailure("get by id", err, zap.Int("book.id", a.ID))
		return UpdateBookFailure{Reason: failureMessage(err)}
	}
	isRead := !book.IsRead
	updated, err := e.repository.Update(ctx, a.ID, BookChanges{IsRead: &isRead})
	if err != nil {
		e.logFailure("update", err, zap.Int("book.id", a.ID))
		return UpdateBookFailure{Reason: failureMessage(err)}
	}
	return UpdateBookSuccess{Book: updated}
}

func (e *Effects) logFailure(op string, err error, fields ...zap.Field) {
	if errors.Is(err, context.Canceled) {
		return
	}
	fields = append(fields, zap.String("op", op), zap.Error(err))
	e.logger.Error("effects: repository call failed", fields...)
}

// failureMessage turns any error into the text carried by failure outcomes.
func failureMessage(err error) string {
	var rerr *RepositoryError
	if errors.As(err, &rerr) && rerr.Err != nil {
		return rerr.Err.Error()
	}
	return err.Error()
}

var _ Reactor = (*ErrorNotifier)(nil) // ensure ErrorNotifier implements Reactor.

// ErrorNotifier forwards every failure outcome to the notifier.
// It never dispatches anything.
type ErrorNotifier struct {
	notifier Notifier
}

func NewErrorNotifier(notifier Notifier) *ErrorNotifier {
	return &ErrorNotifier{notifier: notifier}
}

func (en *ErrorNotifier) React(action Action) {
	if failure, ok := action.(FailureAction); ok {
		en.notifier.Show(fmt.Sprintf("Error: %s", failure.FailureReason()))
	}
}
