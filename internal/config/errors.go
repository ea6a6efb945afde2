package config

import "errors"

var (
	ErrEnvLoad        = errors.New("не удалось загрузить .env файл")
	ErrEnvProcess     = errors.New("не удалось прочитать переменные окружения")
	ErrPatternsFile   = errors.New("не удалось прочитать файл шаблонов исключений")
	ErrNoPatterns     = errors.New("список шаблонов исключений пуст")
	ErrInvalidLimit   = errors.New("лимит архивов не может быть отрицательным")
	ErrInvalidWorkers = errors.New("количество воркеров должно быть не меньше 1")
	ErrEmptyTargetDir = errors.New("не задана директория с архивами")
	ErrInvalidSubdir  = errors.New("имя служебной поддиректории должно быть одним элементом пути")
	ErrSameSubdirs    = errors.New("карантин и временная директория должны различаться")
)
