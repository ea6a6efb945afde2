package tarcli

import "errors"

var (
	ErrExtraction  = errors.New("не удалось распаковать архив")
	ErrNoRoot      = errors.New("после распаковки не найдено ни одного элемента")
	ErrTimeout     = errors.New("превышено время распаковки")
	ErrMkdirFailed = errors.New("не удалось создать директорию")
)
