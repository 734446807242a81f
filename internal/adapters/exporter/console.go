package exporter

import (
	"fmt"
	"io"

	"telegram-members-bot/internal/domain"
)

// WriteText выводит извлеченные коллекции в текстовом виде.
// Используется CLI-клиентом.
func WriteText(w io.Writer, entities *domain.Entities) {
	fmt.Fprintln(w, "--- Участники ---")
	if len(entities.Participants) == 0 {
		fmt.Fprintln(w, "Участники не найдены.")
	}
	for i, p := range entities.Participants {
		line := fmt.Sprintf("%d. %s", i+1, p.Name)
		if p.Username != "" {
			line += fmt.Sprintf(" (%s)", prefixAt(p.Username))
		}
		if p.HasChannel {
			line += " [канал]"
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w, "--- Упоминания ---")
	if len(entities.Mentions) == 0 {
		fmt.Fprintln(w, "Упоминания не найдены.")
	}
	for _, m := range entities.Mentions {
		fmt.Fprintln(w, prefixAt(m.Username))
	}

	fmt.Fprintln(w, "--- Каналы ---")
	if len(entities.Channels) == 0 {
		fmt.Fprintln(w, "Каналы не найдены.")
	}
	for _, c := range entities.Channels {
		switch {
		case c.Name != "" && c.Username != "":
			fmt.Fprintf(w, "%s (%s)\n", c.Name, prefixAt(c.Username))
		case c.Username != "":
			fmt.Fprintln(w, prefixAt(c.Username))
		case c.Name != "":
			fmt.Fprintln(w, c.Name)
		default:
			fmt.Fprintln(w, "(неизвестный канал)")
		}
	}
}
