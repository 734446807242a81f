package decoder

import (
	"strings"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"telegram-members-bot/internal/ports"
)

// AutoDecoder реализует интерфейс Decoder с автоопределением кодировки
// по статистике байтов. Экспорты Telegram встречаются не только в UTF-8,
// поэтому полагаться на одну кодировку нельзя.
type AutoDecoder struct {
	detector *chardet.Detector
}

// NewAutoDecoder создает новый экземпляр AutoDecoder.
func NewAutoDecoder() ports.Decoder {
	return &AutoDecoder{detector: chardet.NewTextDetector()}
}

// Decode определяет кодировку и декодирует буфер в текст.
// При неуверенном определении или любой ошибке декодирования выполняется
// откат к UTF-8 с заменой некорректных последовательностей.
func (d *AutoDecoder) Decode(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	res, err := d.detector.DetectBest(data)
	if err == nil && res != nil && res.Charset != "" {
		if enc, encErr := htmlindex.Get(strings.ToLower(res.Charset)); encErr == nil {
			decoded, _, trErr := transform.Bytes(enc.NewDecoder(), data)
			if trErr == nil {
				return strings.ToValidUTF8(string(decoded), "�")
			}
		}
	}

	return strings.ToValidUTF8(string(data), "�")
}
