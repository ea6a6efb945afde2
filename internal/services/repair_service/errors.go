package repair_service

import "errors"

var (
	ErrContextDone   = errors.New("отмена контекста")
	ErrNotRepairable = errors.New("архив не подлежит очистке")
	ErrMkdirFailed   = errors.New("не удалось создать директорию")
	ErrPackaging     = errors.New("не удалось упаковать очищенный архив")
	ErrChecksum      = errors.New("не удалось вычислить SHA-256")
	ErrResidualBloat = errors.New("в очищенном дереве остались исключаемые файлы")
	ErrOutputExists  = errors.New("очищенный архив или манифест уже существует")
	ErrManifest      = errors.New("не удалось записать манифест")
	ErrQuarantine    = errors.New("не удалось переместить оригинал в карантин")
	ErrRemoveFailed  = errors.New("не удалось удалить файл/директорию")
)
