// Package result defines the success/error contract shared by every core
// operation. Failures travel by value; nothing in the core panics across
// this boundary.
package result

import "fmt"

// Kind classifies a failed operation.
type Kind string

const (
	InvalidCharacter      Kind = "invalid_character"
	NotAbsolute           Kind = "not_absolute"
	NotADirectory         Kind = "not_a_directory"
	UnqualifiedPath       Kind = "unqualified_path"
	OutsideWorkspace      Kind = "outside_workspace"
	DirectoryNotExist     Kind = "directory_not_exist"
	DirectoryChangeFailed Kind = "directory_change_failed"
	InvalidWorkingPath    Kind = "invalid_working_path"
	CommandFailed         Kind = "command_failed"
	CommandTimedOut       Kind = "command_timed_out"
	CommandExecutionError Kind = "command_execution_error"
	FileNotFound          Kind = "file_not_found"
	NotAFile              Kind = "not_a_file"
	FileWriteError        Kind = "file_write_error"
)

// Error is the failure variant of a Result.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Result holds either a value or an Error, never both.
type Result[T any] struct {
	value T
	err   *Error
}

// Ok wraps a success value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err wraps a failure with its kind and message.
func Err[T any](kind Kind, message string) Result[T] {
	return Result[T]{err: &Error{Kind: kind, Message: message}}
}

// Errf formats a failure message.
func Errf[T any](kind Kind, format string, args ...any) Result[T] {
	return Err[T](kind, fmt.Sprintf(format, args...))
}

// Fail converts an existing Error into a Result of another payload type.
func Fail[T any](err *Error) Result[T] {
	return Result[T]{err: err}
}

func (r Result[T]) IsOk() bool { return r.err == nil }

func (r Result[T]) IsErr() bool { return r.err != nil }

// Value returns the success payload. It is the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure, or nil on success.
func (r Result[T]) Err() *Error { return r.err }

func (r Result[T]) String() string {
	if r.err != nil {
		return fmt.Sprintf("Err(%s: %s)", r.err.Kind, r.err.Message)
	}
	return fmt.Sprintf("Ok(%v)", r.value)
}
