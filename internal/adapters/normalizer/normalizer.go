package normalizer

import (
	"fmt"
	"strings"

	"telegram-members-bot/internal/domain"
	"telegram-members-bot/internal/ports"
)

// Dispatcher выбирает нормализатор по расширению имени файла.
// Набор диалектов закрыт: .json, .html и .zip.
type Dispatcher struct {
	json ports.Normalizer
	html ports.Normalizer
	zip  ports.Normalizer
}

// NewDispatcher создает диспетчер со всеми тремя нормализаторами
// поверх общего декодера.
func NewDispatcher(decoder ports.Decoder) *Dispatcher {
	jsonNorm := NewJsonNormalizer(decoder)
	htmlNorm := NewHtmlNormalizer(decoder)
	return &Dispatcher{
		json: jsonNorm,
		html: htmlNorm,
		zip:  NewZipNormalizer(jsonNorm, htmlNorm),
	}
}

// Normalize направляет файл соответствующему нормализатору.
// Файлы с нераспознанным расширением отфильтровываются на границе транспорта
// и сюда попадать не должны.
func (d *Dispatcher) Normalize(file domain.File) ([]domain.Message, error) {
	switch {
	case hasSuffixFold(file.Name, ".json"):
		return d.json.Normalize(file)
	case hasSuffixFold(file.Name, ".html"):
		return d.html.Normalize(file)
	case hasSuffixFold(file.Name, ".zip"):
		return d.zip.Normalize(file)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", file.Name)
	}
}

// Supported сообщает, относится ли имя файла к одному из принимаемых форматов.
func Supported(name string) bool {
	return hasSuffixFold(name, ".json") || hasSuffixFold(name, ".html") || hasSuffixFold(name, ".zip")
}

func hasSuffixFold(s, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(s), suffix)
}
