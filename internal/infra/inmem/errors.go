package inmem

import "errors"

var (
	ErrResultNotFound = errors.New("результат сканирования не найден")
	ErrResultNil      = errors.New("результат не может быть nil")
	ErrNameEmpty      = errors.New("имя архива не может быть пустым")
	ErrContextDone    = errors.New("отмена контекста")
)
