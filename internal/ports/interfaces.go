package ports

import "telegram-members-bot/internal/domain"

// Decoder определяет интерфейс для преобразования сырых байтов в текст.
type Decoder interface {
	// Decode определяет кодировку буфера и возвращает декодированный текст.
	// Никогда не завершается ошибкой: некорректные байты заменяются
	// символом-заменителем.
	Decode(data []byte) string
}

// Normalizer определяет интерфейс для приведения одного диалекта экспорта
// к каноническому списку сообщений.
type Normalizer interface {
	// Normalize преобразует содержимое файла в список канонических сообщений.
	Normalize(file domain.File) ([]domain.Message, error)
}

// ExtractionService определяет интерфейс для извлечения сущностей
// из объединенного списка сообщений.
type ExtractionService interface {
	ExtractEntities(messages []domain.Message) (*domain.Entities, error)
}
