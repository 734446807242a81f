package normalizer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"telegram-members-bot/internal/domain"
	"telegram-members-bot/internal/ports"
)

// Канонические имена файлов внутри архива экспорта. Сопоставление по суффиксу,
// чтобы переживать вложенные каталоги вроде "ChatExport_2024/result.json".
const (
	jsonEntrySuffix = "result.json"
	htmlEntrySuffix = "messages.html"
)

// ZipNormalizer реализует интерфейс Normalizer для ZIP-архива экспорта,
// делегируя содержимое вложенным нормализаторам.
type ZipNormalizer struct {
	json ports.Normalizer
	html ports.Normalizer
}

// NewZipNormalizer создает новый экземпляр ZipNormalizer.
func NewZipNormalizer(json, html ports.Normalizer) ports.Normalizer {
	return &ZipNormalizer{json: json, html: html}
}

// Normalize распаковывает архив в памяти и обрабатывает известные вложенные
// файлы в порядке их следования. Нераспознанные записи пропускаются.
func (n *ZipNormalizer) Normalize(file domain.File) ([]domain.Message, error) {
	reader, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrArchive, file.Name, err)
	}

	var messages []domain.Message
	for _, entry := range reader.File {
		var inner ports.Normalizer
		switch {
		case hasSuffixFold(entry.Name, jsonEntrySuffix):
			inner = n.json
		case hasSuffixFold(entry.Name, htmlEntrySuffix):
			inner = n.html
		default:
			continue
		}

		data, err := readEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrArchive, entry.Name, err)
		}

		msgs, err := inner.Normalize(domain.File{Name: entry.Name, Data: data})
		if err != nil {
			return nil, err
		}
		messages = append(messages, msgs...)
	}

	return messages, nil
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
