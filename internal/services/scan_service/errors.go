package scan_service

import "errors"

var (
	ErrContextDone  = errors.New("отмена контекста")
	ErrStatFailed   = errors.New("не удалось прочитать сведения об архиве")
	ErrMkdirFailed  = errors.New("не удалось создать рабочую директорию")
	ErrRemoveFailed = errors.New("не удалось удалить рабочую директорию")
)
