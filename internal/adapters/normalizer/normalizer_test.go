package normalizer

import (
	"testing"

	"telegram-members-bot/internal/adapters/decoder"
	"telegram-members-bot/internal/domain"
)

func TestDispatcher(t *testing.T) {
	d := NewDispatcher(decoder.NewAutoDecoder())

	t.Run("Выбор нормализатора по расширению без учета регистра", func(t *testing.T) {
		messages, err := d.Normalize(domain.File{
			Name: "RESULT.JSON",
			Data: []byte(`{"messages":[{"from":"Alice","from_id":"user1","text":"hi"}]}`),
		})
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}
		if len(messages) != 1 {
			t.Errorf("Ожидалось 1 сообщение, получено %d", len(messages))
		}

		messages, err = d.Normalize(domain.File{
			Name: "Messages.HTML",
			Data: []byte(`<div class="message"><div class="text">hi</div></div>`),
		})
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}
		if len(messages) != 1 {
			t.Errorf("Ожидалось 1 сообщение, получено %d", len(messages))
		}
	})

	t.Run("Нераспознанное расширение дает ошибку", func(t *testing.T) {
		_, err := d.Normalize(domain.File{Name: "export.csv", Data: []byte("a,b")})
		if err == nil {
			t.Error("Ожидалась ошибка для неподдерживаемого формата, получено nil")
		}
	})
}

func TestSupported(t *testing.T) {
	cases := map[string]bool{
		"result.json":    true,
		"messages.html":  true,
		"export.zip":     true,
		"EXPORT.ZIP":     true,
		"notes.txt":      false,
		"result.json.gz": false,
		"":               false,
	}
	for name, want := range cases {
		if got := Supported(name); got != want {
			t.Errorf("Supported(%q) = %v, ожидалось %v", name, got, want)
		}
	}
}
