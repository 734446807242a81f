package log

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleToken = "bot123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw1"

func newBufferedLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewMaskedLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}

func TestTokenMasker(t *testing.T) {
	t.Run("Токен в сообщении маскируется", func(t *testing.T) {
		logger, buf := newBufferedLogger()

		logger.Info("failed to fetch https://api.telegram.org/file/" + sampleToken + "/documents/file_1.json")

		out := buf.String()
		assert.NotContains(t, out, sampleToken)
		assert.Contains(t, out, "***masked-token***")
	})

	t.Run("Токен в атрибутах и в ошибках маскируется", func(t *testing.T) {
		logger, buf := newBufferedLogger()

		logger.Error("download failed",
			slog.String("url", "https://api.telegram.org/file/"+sampleToken+"/f"),
			slog.Any("error", errors.New("GET "+sampleToken+": timeout")),
		)

		out := buf.String()
		assert.NotContains(t, out, sampleToken)
	})

	t.Run("Токен в атрибутах With маскируется", func(t *testing.T) {
		logger, buf := newBufferedLogger()

		logger.With(slog.String("file_url", sampleToken)).Info("accepted")

		out := buf.String()
		assert.NotContains(t, out, sampleToken)
	})

	t.Run("Обычный текст не изменяется", func(t *testing.T) {
		logger, buf := newBufferedLogger()

		logger.Info("Файл принят", slog.String("file_name", "result.json"))

		out := buf.String()
		assert.Contains(t, out, "result.json")
		assert.NotContains(t, out, "masked")
	})
}
