package normalizer

import "strings"

// deepLinkPrefix — канонический префикс ссылки на профиль или канал.
const deepLinkPrefix = "https://t.me/"

// mentionCutset — пунктуация, обрезаемая вокруг @username в тексте.
const mentionCutset = ",.;:!?()[]{}\"'"

// lastPathSegment возвращает последний сегмент пути URL.
// Для "https://t.me/foo" это "foo", для ссылки со слешем на конце — пустая строка.
func lastPathSegment(url string) string {
	idx := strings.LastIndex(url, "/")
	if idx < 0 {
		return url
	}
	return url[idx+1:]
}

// mentionSet накапливает упоминания одного сообщения:
// без дубликатов, в порядке первого вхождения.
type mentionSet struct {
	seen map[string]bool
	list []string
}

func newMentionSet() *mentionSet {
	return &mentionSet{seen: make(map[string]bool)}
}

func (s *mentionSet) add(username string) {
	if username == "" || s.seen[username] {
		return
	}
	s.seen[username] = true
	s.list = append(s.list, username)
}

// addDeepLink добавляет username из ссылки, если она использует канонический префикс.
func (s *mentionSet) addDeepLink(url string) {
	if !strings.HasPrefix(url, deepLinkPrefix) {
		return
	}
	s.add(lastPathSegment(url))
}

// addTextTokens добавляет @username-токены из текста сообщения,
// очищая их от окружающей пунктуации.
func (s *mentionSet) addTextTokens(text string) {
	for _, token := range strings.Fields(text) {
		if !strings.HasPrefix(token, "@") || len(token) < 2 {
			continue
		}
		s.add(strings.Trim(token[1:], mentionCutset))
	}
}
