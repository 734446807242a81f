package services

import (
	"sort"
	"strings"

	"telegram-members-bot/internal/domain"
	"telegram-members-bot/internal/ports"
)

// channelUnknownKey — ключ для каналов без имени и username.
// Все такие записи схлопываются в одну.
const channelUnknownKey = "channel_unknown"

// ExtractionServiceImpl реализует интерфейс ExtractionService.
type ExtractionServiceImpl struct{}

// NewExtractionService создает новый экземпляр ExtractionServiceImpl.
func NewExtractionService() ports.ExtractionService {
	return &ExtractionServiceImpl{}
}

// ExtractEntities извлекает из объединенного списка сообщений три коллекции:
// участников, упоминания и каналы. Дубликаты и удаленные аккаунты отсеиваются.
func (s *ExtractionServiceImpl) ExtractEntities(messages []domain.Message) (*domain.Entities, error) {
	// Индексы для дедупликации с сохранением порядка первого вхождения.
	participantIdx := make(map[string]int)
	channelSeen := make(map[string]bool)
	mentionSeen := make(map[string]bool)

	entities := &domain.Entities{
		Participants: []domain.Participant{},
		Mentions:     []domain.Mention{},
		Channels:     []domain.Channel{},
	}

	for _, msg := range messages {
		name := msg.Author
		username := msg.AuthorHandle

		// Каналы учитываются независимо от фильтра удаленных аккаунтов.
		if msg.IsChannel {
			key := username
			if key == "" {
				key = name
			}
			if key == "" {
				key = channelUnknownKey
			}
			if !channelSeen[key] {
				channelSeen[key] = true
				entities.Channels = append(entities.Channels, domain.Channel{
					Name:     name,
					Username: username,
				})
			}
		}

		if !isDeletedAccount(name, username) {
			key := username
			if key == "" {
				key = name
			}
			if idx, ok := participantIdx[key]; ok {
				// Повторное вхождение меняет только флаг наличия канала.
				entities.Participants[idx].HasChannel = entities.Participants[idx].HasChannel || msg.IsChannel
			} else {
				participantIdx[key] = len(entities.Participants)
				entities.Participants = append(entities.Participants, domain.Participant{
					Name:       name,
					Username:   username,
					HasChannel: msg.IsChannel,
				})
			}
		}

		for _, mention := range msg.Mentions {
			if mention != "" {
				mentionSeen[mention] = true
			}
		}
	}

	usernames := make([]string, 0, len(mentionSeen))
	for username := range mentionSeen {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	for _, username := range usernames {
		entities.Mentions = append(entities.Mentions, domain.Mention{Username: username})
	}

	return entities, nil
}

// isDeletedAccount — эвристика для удаленных аккаунтов: нет ни имени,
// ни username, либо имя содержит "deleted account".
func isDeletedAccount(name, username string) bool {
	if name == "" && username == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), "deleted account")
}
