package pipeline

import "errors"

var (
	ErrTargetDir    = errors.New("директория с архивами недоступна и не может быть создана")
	ErrDiscovery    = errors.New("не удалось получить список архивов")
	ErrConfirmation = errors.New("не удалось получить подтверждение")
)
