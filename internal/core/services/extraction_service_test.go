package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-members-bot/internal/domain"
)

func TestExtractEntities_Participants(t *testing.T) {
	svc := NewExtractionService()

	t.Run("Дедупликация по username с сохранением порядка первого вхождения", func(t *testing.T) {
		messages := []domain.Message{
			{Author: "Alice", AuthorHandle: "alice"},
			{Author: "Bob", AuthorHandle: "bob"},
			{Author: "Alice Updated", AuthorHandle: "alice"},
			{Author: "Carol"},
		}

		entities, err := svc.ExtractEntities(messages)
		require.NoError(t, err)

		require.Len(t, entities.Participants, 3)
		assert.Equal(t, "Alice", entities.Participants[0].Name)
		assert.Equal(t, "bob", entities.Participants[1].Username)
		assert.Equal(t, "Carol", entities.Participants[2].Name)
	})

	t.Run("Участник без username идентифицируется по имени", func(t *testing.T) {
		messages := []domain.Message{
			{Author: "Anon User"},
			{Author: "Anon User"},
		}

		entities, err := svc.ExtractEntities(messages)
		require.NoError(t, err)
		require.Len(t, entities.Participants, 1)
		assert.Equal(t, "Anon User", entities.Participants[0].Name)
		assert.Empty(t, entities.Participants[0].Username)
	})

	t.Run("Флаг канала объединяется по ИЛИ между вхождениями", func(t *testing.T) {
		messages := []domain.Message{
			{Author: "Alice", AuthorHandle: "alice", IsChannel: false},
			{Author: "Alice", AuthorHandle: "alice", IsChannel: true},
			{Author: "Alice", AuthorHandle: "alice", IsChannel: false},
		}

		entities, err := svc.ExtractEntities(messages)
		require.NoError(t, err)
		require.Len(t, entities.Participants, 1)
		assert.True(t, entities.Participants[0].HasChannel)
	})

	t.Run("Удаленные аккаунты исключаются, их упоминания и каналы остаются", func(t *testing.T) {
		messages := []domain.Message{
			{Author: "Deleted Account", AuthorHandle: "ghost", Mentions: []string{"bob"}},
			{IsChannel: true, Mentions: []string{"alice"}},
			{Author: "Alive", AuthorHandle: "alive"},
		}

		entities, err := svc.ExtractEntities(messages)
		require.NoError(t, err)

		require.Len(t, entities.Participants, 1)
		assert.Equal(t, "alive", entities.Participants[0].Username)

		assert.Len(t, entities.Mentions, 2)
		require.Len(t, entities.Channels, 1)
	})

	t.Run("Фильтр удаленных аккаунтов нечувствителен к регистру", func(t *testing.T) {
		messages := []domain.Message{
			{Author: "DELETED ACCOUNT 123", AuthorHandle: "x"},
			{Author: "deleted account"},
		}

		entities, err := svc.ExtractEntities(messages)
		require.NoError(t, err)
		assert.Empty(t, entities.Participants)
	})

	t.Run("Поля bio и дата регистрации остаются пустыми", func(t *testing.T) {
		entities, err := svc.ExtractEntities([]domain.Message{{Author: "A", AuthorHandle: "a"}})
		require.NoError(t, err)
		require.Len(t, entities.Participants, 1)
		assert.Empty(t, entities.Participants[0].Bio)
		assert.Empty(t, entities.Participants[0].RegisteredAt)
	})
}

func TestExtractEntities_Mentions(t *testing.T) {
	svc := NewExtractionService()

	t.Run("Упоминания уникальны и отсортированы", func(t *testing.T) {
		messages := []domain.Message{
			{Author: "A", AuthorHandle: "a", Mentions: []string{"zeta", "alpha"}},
			{Author: "B", AuthorHandle: "b", Mentions: []string{"alpha", "beta", ""}},
		}

		entities, err := svc.ExtractEntities(messages)
		require.NoError(t, err)

		require.Len(t, entities.Mentions, 3)
		assert.Equal(t, "alpha", entities.Mentions[0].Username)
		assert.Equal(t, "beta", entities.Mentions[1].Username)
		assert.Equal(t, "zeta", entities.Mentions[2].Username)
	})

	t.Run("Группировка сообщений по файлам не влияет на слияние", func(t *testing.T) {
		fileA := []domain.Message{{Author: "Alice", AuthorHandle: "alice"}}
		fileB := []domain.Message{{Author: "Alice", AuthorHandle: "alice", IsChannel: true}}
		fileC := []domain.Message{{Author: "Bob", AuthorHandle: "bob", Mentions: []string{"alice"}}}

		concat := func(batches ...[]domain.Message) []domain.Message {
			var all []domain.Message
			for _, batch := range batches {
				all = append(all, batch...)
			}
			return all
		}

		first, err := svc.ExtractEntities(concat(fileA, fileB, fileC))
		require.NoError(t, err)
		second, err := svc.ExtractEntities(concat(fileA, fileC, fileB))
		require.NoError(t, err)

		require.Len(t, first.Participants, 2)
		assert.ElementsMatch(t, first.Participants, second.Participants)
		assert.Equal(t, first.Mentions, second.Mentions)
		assert.True(t, first.Participants[0].HasChannel)
	})

	t.Run("Результат не зависит от порядка сообщений", func(t *testing.T) {
		base := []domain.Message{
			{Author: "A", AuthorHandle: "a", Mentions: []string{"m1", "m3"}},
			{Author: "B", AuthorHandle: "b", Mentions: []string{"m2"}},
			{Author: "C", AuthorHandle: "c", Mentions: []string{"m3", "m1"}},
		}

		reference, err := svc.ExtractEntities(base)
		require.NoError(t, err)

		shuffled := make([]domain.Message, len(base))
		copy(shuffled, base)
		rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got, err := svc.ExtractEntities(shuffled)
		require.NoError(t, err)
		assert.Equal(t, reference.Mentions, got.Mentions)
	})
}

func TestExtractEntities_Channels(t *testing.T) {
	svc := NewExtractionService()

	t.Run("Каналы дедуплицируются по username, затем по имени", func(t *testing.T) {
		messages := []domain.Message{
			{Author: "News", AuthorHandle: "news", IsChannel: true},
			{Author: "News Renamed", AuthorHandle: "news", IsChannel: true},
			{Author: "Unnamed Feed", IsChannel: true},
			{Author: "Unnamed Feed", IsChannel: true},
		}

		entities, err := svc.ExtractEntities(messages)
		require.NoError(t, err)

		require.Len(t, entities.Channels, 2)
		assert.Equal(t, "News", entities.Channels[0].Name)
		assert.Equal(t, "Unnamed Feed", entities.Channels[1].Name)
	})

	t.Run("Каналы без имени и username схлопываются в одну запись", func(t *testing.T) {
		messages := []domain.Message{
			{IsChannel: true},
			{IsChannel: true},
			{IsChannel: true},
		}

		entities, err := svc.ExtractEntities(messages)
		require.NoError(t, err)
		assert.Len(t, entities.Channels, 1)
	})
}

func TestExtractEntities_Empty(t *testing.T) {
	svc := NewExtractionService()

	entities, err := svc.ExtractEntities(nil)
	require.NoError(t, err)
	assert.NotNil(t, entities.Participants)
	assert.NotNil(t, entities.Mentions)
	assert.NotNil(t, entities.Channels)
	assert.Empty(t, entities.Participants)
	assert.Empty(t, entities.Mentions)
	assert.Empty(t, entities.Channels)
}
