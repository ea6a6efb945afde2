package report_service

import "errors"

var (
	ErrMkdirFailed = errors.New("не удалось создать директорию для отчета")
	ErrWriteFailed = errors.New("не удалось записать отчет")
)
