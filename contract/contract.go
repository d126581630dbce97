//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"anonchat/domain"
	"anonchat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker lifecycle
// events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Transport is the chat network collaborator. Every call is best-effort: a
// failed destination is logged and skipped, never retried. Send operations
// return the location of the delivered message so later edits can target it.
type Transport interface {
	SendText(ctx context.Context, ch domain.ChannelID, text string) (domain.Location, error)
	SendKeyboard(ctx context.Context, ch domain.ChannelID, text string, kb domain.Keyboard) (domain.Location, error)
	SendImage(ctx context.Context, ch domain.ChannelID, ref domain.FileRef, caption string) (domain.Location, error)
	// EditText rewrites a delivered message; a nil keyboard strips controls.
	EditText(ctx context.Context, loc domain.Location, text string, kb *domain.Keyboard) error
	// EditKeyboard replaces only the controls; nil strips them.
	EditKeyboard(ctx context.Context, loc domain.Location, kb *domain.Keyboard) error
	Delete(ctx context.Context, loc domain.Location) error
}
