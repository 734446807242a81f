package normalizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"telegram-members-bot/internal/domain"
	"telegram-members-bot/internal/ports"
)

// exportedChat представляет корневую структуру JSON-файла экспорта.
type exportedChat struct {
	Messages []exportMessage `json:"messages"`
}

// exportMessage представляет одно сообщение JSON-экспорта.
type exportMessage struct {
	Type     string          `json:"type"`
	From     string          `json:"from"`
	FromID   string          `json:"from_id"`
	Text     json.RawMessage `json:"text"` // Может быть строкой или массивом
	Entities []exportEntity  `json:"entities"`
}

// exportEntity представляет "богатую" часть текста (упоминание, ссылка и т.д.).
type exportEntity struct {
	Type string `json:"type"`
	Text string `json:"text"`
	URL  string `json:"url"`
}

// JsonNormalizer реализует интерфейс Normalizer для JSON-диалекта экспорта
// Telegram Desktop (result.json).
type JsonNormalizer struct {
	decoder ports.Decoder
}

// NewJsonNormalizer создает новый экземпляр JsonNormalizer.
func NewJsonNormalizer(decoder ports.Decoder) ports.Normalizer {
	return &JsonNormalizer{decoder: decoder}
}

// Normalize разбирает JSON-экспорт и приводит каждое сообщение к канонической модели.
// Невалидный JSON фатален для всего запуска обработки.
func (n *JsonNormalizer) Normalize(file domain.File) ([]domain.Message, error) {
	text := n.decoder.Decode(file.Data)

	var chat exportedChat
	if err := json.Unmarshal([]byte(text), &chat); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedInput, file.Name, err)
	}

	messages := make([]domain.Message, 0, len(chat.Messages))
	for _, m := range chat.Messages {
		msg := domain.Message{
			Author: m.From,
			// JSON-экспорт не содержит username автора, поле остается пустым.
			AuthorHandle: "",
			IsChannel:    m.Type == "channel" || strings.HasPrefix(m.FromID, "channel"),
			Text:         flattenText(m.Text),
		}

		mentions := newMentionSet()
		for _, e := range m.Entities {
			mentions.addDeepLink(e.URL)
		}
		mentions.addTextTokens(msg.Text)
		msg.Mentions = mentions.list

		messages = append(messages, msg)
	}

	return messages, nil
}

// flattenText приводит поле text к одной строке: строка остается как есть,
// массив склеивается через пробел из строковых элементов и под-полей "text".
func flattenText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var fragments []interface{}
	if err := json.Unmarshal(raw, &fragments); err != nil {
		return ""
	}

	var parts []string
	for _, fragment := range fragments {
		switch v := fragment.(type) {
		case string:
			parts = append(parts, v)
		case map[string]interface{}:
			if t, ok := v["text"].(string); ok {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}
