package engine

import (
	"fmt"
	"runtime/debug"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
)

// Result is what every facade call returns. Errors never escape as Go
// errors or panics: Success is false and Error/Code describe the failure.
type Result[T any] struct {
	Data    T              `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    apperrors.Code `json:"code,omitempty"`
	Success bool           `json:"success"`
}

// Err rebuilds a coded error from a failed result, nil on success.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return apperrors.New(r.Code, r.Error)
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](err error) Result[T] {
	return Result[T]{Error: err.Error(), Code: apperrors.CodeOf(err)}
}

// run executes fn and converts its outcome, including a panic, into a
// Result.
func run[T any](e *Engine, op string, fn func() (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Panic recovered",
				"op", op,
				"error", r,
				"stack", string(debug.Stack()),
			)
			res = fail[T](apperrors.Newf(apperrors.CodeInternal, "%s: internal error: %v", op, r))
		}
	}()

	data, err := fn()
	if err != nil {
		level := e.logger.Warn
		if apperrors.CodeOf(err) == apperrors.CodeInternal {
			level = e.logger.Error
		}
		level(fmt.Sprintf("%s failed", op), "error", err, "code", apperrors.CodeOf(err))
		return fail[T](err)
	}
	return ok(data)
}
