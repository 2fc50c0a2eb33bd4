package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных
	// (оценка вне диапазона, отрицательный счетчик, неизвестный участник).
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния
	// (например, попытка пересчитать победителя уже завершенного матча).
	ErrConflict = errors.New("resource state conflict")
)
