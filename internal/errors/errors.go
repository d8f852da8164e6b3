package errors

import (
	stderrors "errors"
	"fmt"
)

type Kind string

const (
	InvalidConfig  Kind = "invalid_config"
	InvalidInput   Kind = "invalid_input"
	NotFound       Kind = "not_found"
	Unreadable     Kind = "unreadable"
	Collision      Kind = "collision"
	PartialPair    Kind = "partial_pair"
	RollbackFailed Kind = "rollback_failed"
	NothingToUndo  Kind = "nothing_to_undo"
	ExifFailure    Kind = "exif_failure"
	IOFailure      Kind = "io_failure"
	Internal       Kind = "internal"
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// New builds an AppError from a message instead of a cause.
func New(kind Kind, op, path, msg string) error {
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  stderrors.New(msg),
	}
}

// KindOf returns the kind of the outermost AppError in err's chain, or Internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

func UserMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case InvalidInput:
		return fmt.Sprintf("Invalid input: %v", appErr.Err)
	case NotFound:
		return fmt.Sprintf("Path not found: %s", appErr.Path)
	case Unreadable:
		return fmt.Sprintf("Folder could not be read: %s", appErr.Path)
	case Collision:
		return fmt.Sprintf("A file already exists at %s", appErr.Path)
	case PartialPair:
		return fmt.Sprintf("Pair operation failed and was rolled back: %s", appErr.Path)
	case RollbackFailed:
		return fmt.Sprintf("Pair operation failed and could not be rolled back, check %s manually: %v", appErr.Path, appErr.Err)
	case NothingToUndo:
		return "Nothing to undo"
	case ExifFailure:
		return fmt.Sprintf("EXIF read failed: %s", appErr.Path)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s", appErr.Path)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
