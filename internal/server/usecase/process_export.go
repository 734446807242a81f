package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"telegram-members-bot/internal/adapters/normalizer"
	"telegram-members-bot/internal/domain"
	"telegram-members-bot/internal/ports"
)

// ProcessExportUseCase инкапсулирует конвейер обработки набора файлов экспорта:
// нормализация каждого файла, объединение сообщений и извлечение сущностей.
type ProcessExportUseCase struct {
	dispatcher *normalizer.Dispatcher
	extractor  ports.ExtractionService
}

// NewProcessExportUseCase создает новый экземпляр ProcessExportUseCase.
func NewProcessExportUseCase(dispatcher *normalizer.Dispatcher, extractor ports.ExtractionService) *ProcessExportUseCase {
	return &ProcessExportUseCase{
		dispatcher: dispatcher,
		extractor:  extractor,
	}
}

// ProcessExport обрабатывает файлы в порядке их загрузки. Ошибка разбора
// любого файла фатальна для всего запуска: частичный результат не возвращается.
func (uc *ProcessExportUseCase) ProcessExport(ctx context.Context, files []domain.File) (*domain.Entities, error) {
	var allMessages []domain.Message

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("обработка прервана: %w", err)
		}

		slog.Info("Обработка файла", "name", file.Name, "size", len(file.Data))

		messages, err := uc.dispatcher.Normalize(file)
		if err != nil {
			return nil, fmt.Errorf("не удалось разобрать файл %s: %w", file.Name, err)
		}
		slog.Info("Файл нормализован", "name", file.Name, "message_count", len(messages))

		allMessages = append(allMessages, messages...)
	}

	entities, err := uc.extractor.ExtractEntities(allMessages)
	if err != nil {
		return nil, fmt.Errorf("не удалось извлечь сущности: %w", err)
	}

	slog.Info("Извлечение завершено",
		"messages", len(allMessages),
		"participants", len(entities.Participants),
		"mentions", len(entities.Mentions),
		"channels", len(entities.Channels),
	)

	return entities, nil
}
