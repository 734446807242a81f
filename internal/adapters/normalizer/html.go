package normalizer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"telegram-members-bot/internal/domain"
	"telegram-members-bot/internal/ports"
)

// HtmlNormalizer реализует интерфейс Normalizer для HTML-диалекта экспорта
// Telegram Desktop (messages.html).
type HtmlNormalizer struct {
	decoder ports.Decoder
}

// NewHtmlNormalizer создает новый экземпляр HtmlNormalizer.
func NewHtmlNormalizer(decoder ports.Decoder) ports.Normalizer {
	return &HtmlNormalizer{decoder: decoder}
}

// Normalize извлекает сообщения из HTML-экспорта.
// У этого диалекта нет канонической схемы: отсутствие подходящих элементов
// не является ошибкой и дает пустой список.
func (n *HtmlNormalizer) Normalize(file domain.File) ([]domain.Message, error) {
	text := n.decoder.Decode(file.Data)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, nil
	}

	var messages []domain.Message
	doc.Find("div.message").Each(func(_ int, sel *goquery.Selection) {
		var msg domain.Message

		if fromName := sel.Find("div.from_name").First(); fromName.Length() > 0 {
			msg.Author = strings.TrimSpace(fromName.Text())
		}

		// Username автора — по первой ссылке на профиль внутри сообщения.
		// Отметка канала по CSS-классу — слабая эвристика, лучшей у HTML-экспорта нет.
		sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if !strings.HasPrefix(href, deepLinkPrefix) {
				return true
			}
			if handle := lastPathSegment(href); handle != "" {
				msg.AuthorHandle = handle
				msg.IsChannel = sel.HasClass("channel")
			}
			return false
		})

		if textDiv := sel.Find("div.text").First(); textDiv.Length() > 0 {
			msg.Text = textWithBreaks(textDiv)
		}

		// Упоминания: сначала все ссылки на профили, затем @-токены из текста.
		mentions := newMentionSet()
		sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			mentions.addDeepLink(href)
		})
		mentions.addTextTokens(msg.Text)
		msg.Mentions = mentions.list

		messages = append(messages, msg)
	})

	return messages, nil
}

// textWithBreaks собирает текстовое содержимое элемента, заменяя <br>
// на перевод строки, и обрезает внешние пробелы.
func textWithBreaks(sel *goquery.Selection) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "br" {
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return strings.TrimSpace(sb.String())
}
