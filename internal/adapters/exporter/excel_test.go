package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-members-bot/internal/domain"
)

func TestBuildWorkbook(t *testing.T) {
	exportDate := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	entities := &domain.Entities{
		Participants: []domain.Participant{
			{Name: "Alice", Username: "alice", HasChannel: true},
			{Name: "Bob", Username: "", HasChannel: false},
		},
		Mentions: []domain.Mention{
			{Username: "carol"},
			{Username: "@dave"},
		},
		Channels: []domain.Channel{
			{Name: "News Feed", Username: "newsfeed"},
			{Name: "Unnamed"},
		},
	}

	f, err := BuildWorkbook(entities, exportDate)
	require.NoError(t, err)
	defer f.Close()

	t.Run("Книга содержит три вкладки", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"Участники", "Упоминания", "Каналы"}, f.GetSheetList())
	})

	t.Run("Вкладка участников заполняется по колонкам", func(t *testing.T) {
		header, err := f.GetCellValue("Участники", "A1")
		require.NoError(t, err)
		assert.Equal(t, "Дата экспорта", header)

		date, err := f.GetCellValue("Участники", "A2")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-15", date)

		username, err := f.GetCellValue("Участники", "B2")
		require.NoError(t, err)
		assert.Equal(t, "alice", username)

		name, err := f.GetCellValue("Участники", "C2")
		require.NoError(t, err)
		assert.Equal(t, "Alice", name)

		hasChannel, err := f.GetCellValue("Участники", "F2")
		require.NoError(t, err)
		assert.Equal(t, "Да", hasChannel)

		noChannel, err := f.GetCellValue("Участники", "F3")
		require.NoError(t, err)
		assert.Equal(t, "Нет", noChannel)
	})

	t.Run("Отсутствующие поля остаются пустыми ячейками", func(t *testing.T) {
		bio, err := f.GetCellValue("Участники", "D2")
		require.NoError(t, err)
		assert.Empty(t, bio)

		registeredAt, err := f.GetCellValue("Участники", "E2")
		require.NoError(t, err)
		assert.Empty(t, registeredAt)

		emptyUsername, err := f.GetCellValue("Участники", "B3")
		require.NoError(t, err)
		assert.Empty(t, emptyUsername)
	})

	t.Run("Упоминания выводятся с ведущим @ без дублирования", func(t *testing.T) {
		first, err := f.GetCellValue("Упоминания", "A2")
		require.NoError(t, err)
		assert.Equal(t, "@carol", first)

		second, err := f.GetCellValue("Упоминания", "A3")
		require.NoError(t, err)
		assert.Equal(t, "@dave", second)
	})

	t.Run("Каналы выводятся с именем и username", func(t *testing.T) {
		name, err := f.GetCellValue("Каналы", "A2")
		require.NoError(t, err)
		assert.Equal(t, "News Feed", name)

		username, err := f.GetCellValue("Каналы", "B2")
		require.NoError(t, err)
		assert.Equal(t, "@newsfeed", username)

		emptyUsername, err := f.GetCellValue("Каналы", "B3")
		require.NoError(t, err)
		assert.Empty(t, emptyUsername)
	})
}

func TestWorkbookFileName(t *testing.T) {
	date := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "chat_members_2024-03-15.xlsx", WorkbookFileName(date))
}
