package domain

import "errors"

// Ошибки уровня обработки. Обе фатальны для всего запуска: буфер сессии
// очищается, пользователю возвращается текст ошибки.
var (
	// ErrMalformedInput — текст файла не разбирается как валидный JSON-экспорт.
	ErrMalformedInput = errors.New("malformed export input")
	// ErrArchive — ZIP-архив не открывается (поврежден или не является архивом).
	ErrArchive = errors.New("unreadable archive")
)
