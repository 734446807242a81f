package exporter

import (
	"sort"
	"strings"

	"telegram-members-bot/internal/domain"
)

// HandleList возвращает отсортированный список уникальных @username участников
// для компактного текстового ответа. Участники без username в список
// не попадают — это осознанное (и потенциально спорное) поведение,
// сохраненное для совместимости.
func HandleList(participants []domain.Participant) []string {
	seen := make(map[string]bool)
	var handles []string
	for _, p := range participants {
		if p.Username == "" {
			continue
		}
		handle := prefixAt(p.Username)
		if !seen[handle] {
			seen[handle] = true
			handles = append(handles, handle)
		}
	}
	sort.Strings(handles)
	return handles
}

// prefixAt добавляет ведущий @, если его еще нет. Пустые значения не трогает.
func prefixAt(username string) string {
	if username == "" || strings.HasPrefix(username, "@") {
		return username
	}
	return "@" + username
}
