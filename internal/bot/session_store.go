package bot

import (
	"context"
	"sync"
	"time"

	"telegram-members-bot/internal/domain"
)

// session — накопительный буфер файлов одного чата между загрузкой и /process.
type session struct {
	files     []domain.File
	updatedAt time.Time
}

// SessionStore — потокобезопасное in-memory хранилище накопительных буферов,
// ключом служит идентификатор чата. Буфер создается при первой загрузке
// и очищается после обработки, по явной команде или по истечении срока жизни.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

// NewSessionStore создает новый экземпляр SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*session),
	}
}

// Add добавляет файл в буфер чата и возвращает новое количество файлов.
func (s *SessionStore) Add(chatID int64, file domain.File) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &session{}
		s.sessions[chatID] = sess
	}
	sess.files = append(sess.files, file)
	sess.updatedAt = time.Now()
	return len(sess.files)
}

// Files возвращает накопленные файлы чата в порядке загрузки.
func (s *SessionStore) Files(chatID int64) []domain.File {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return nil
	}
	files := make([]domain.File, len(sess.files))
	copy(files, sess.files)
	return files
}

// Count возвращает количество накопленных файлов чата.
func (s *SessionStore) Count(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		return len(sess.files)
	}
	return 0
}

// Clear удаляет буфер чата вместе с содержимым файлов.
func (s *SessionStore) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// CleanupStale удаляет буферы, не обновлявшиеся дольше maxAge.
// Страховка на случай, если пользователь загрузил файлы и не вызвал /process.
func (s *SessionStore) CleanupStale(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := time.Now().Add(-maxAge)
	for chatID, sess := range s.sessions {
		if sess.updatedAt.Before(deadline) {
			delete(s.sessions, chatID)
		}
	}
}

// StartCleanupTicker запускает периодическую очистку устаревших буферов.
func (s *SessionStore) StartCleanupTicker(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupStale(maxAge)
			}
		}
	}()
}
