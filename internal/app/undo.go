package app

import (
	"sync"

	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
	"lightcull/internal/logging"
)

// UndoLog is a LIFO stack of completed moves. It is safe for concurrent use. When a
// Persister is set every change is mirrored to it; the in-memory stack stays authoritative
// for the running process.
type UndoLog struct {
	mu     sync.Mutex
	ops    []domain.MoveOperation
	store  Persister
	Logger logging.Logger
}

// NewUndoLog restores the stack from store when one is given.
func NewUndoLog(store Persister, logger logging.Logger) (*UndoLog, error) {
	log := &UndoLog{store: store, Logger: logger}
	if store == nil {
		return log, nil
	}
	ops, err := store.Load()
	if err != nil {
		return nil, appErrors.Wrap(appErrors.IOFailure, "load undo log", "", err)
	}
	log.ops = ops
	return log, nil
}

func (l *UndoLog) Push(op domain.MoveOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
	if l.store != nil {
		if err := l.store.Append(op); err != nil {
			l.Logger.Warnf("Undo history not persisted: %v", err)
		}
	}
}

func (l *UndoLog) PopLast() (domain.MoveOperation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.ops) == 0 {
		return domain.MoveOperation{}, false
	}
	last := l.ops[len(l.ops)-1]
	l.ops = l.ops[:len(l.ops)-1]
	if l.store != nil {
		if err := l.store.RemoveLast(); err != nil {
			l.Logger.Warnf("Undo history not persisted: %v", err)
		}
	}
	return last, true
}

func (l *UndoLog) IsEmpty() bool {
	return l.Len() == 0
}

func (l *UndoLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ops)
}

// Operations returns a copy of the stack, oldest first.
func (l *UndoLog) Operations() []domain.MoveOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.MoveOperation(nil), l.ops...)
}

func (l *UndoLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = nil
	if l.store != nil {
		if err := l.store.Reset(); err != nil {
			l.Logger.Warnf("Undo history not persisted: %v", err)
		}
	}
}

// UndoLast pops the newest operation and hands it to reverse. If reverse fails the operation
// is pushed back so the undo can be retried.
func (l *UndoLog) UndoLast(reverse func(domain.MoveOperation) error) (domain.MoveOperation, error) {
	op, ok := l.PopLast()
	if !ok {
		return domain.MoveOperation{}, appErrors.New(appErrors.NothingToUndo, "undo", "", "undo log is empty")
	}
	if err := reverse(op); err != nil {
		l.Push(op)
		return op, err
	}
	return op, nil
}
