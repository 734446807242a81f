package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStore(t *testing.T) {
	t.Run("Set и Get сопоставляют чат и задачу", func(t *testing.T) {
		s := NewTaskStore()

		_, ok := s.Get(1)
		assert.False(t, ok)

		s.Set(1, "task-1")
		taskID, ok := s.Get(1)
		assert.True(t, ok)
		assert.Equal(t, "task-1", taskID)
	})

	t.Run("Delete снимает блокировку чата", func(t *testing.T) {
		s := NewTaskStore()
		s.Set(1, "task-1")
		s.Delete(1)

		_, ok := s.Get(1)
		assert.False(t, ok)
	})

	t.Run("Повторный Set перезаписывает задачу", func(t *testing.T) {
		s := NewTaskStore()
		s.Set(1, "task-1")
		s.Set(1, "task-2")

		taskID, _ := s.Get(1)
		assert.Equal(t, "task-2", taskID)
	})
}
