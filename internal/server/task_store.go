package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"telegram-members-bot/internal/domain"
)

// TaskStatus представляет статус задачи обработки
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task представляет собой одну задачу обработки экспорта
type Task struct {
	ID           string
	Status       TaskStatus
	Result       *domain.Entities
	ErrorMessage string
	CreatedAt    time.Time
	ExpiresAt    time.Time // Для автоматической очистки
}

// TaskStore управляет хранением и извлечением задач
type TaskStore struct {
	tasks map[string]*Task
	mutex sync.RWMutex
}

// NewTaskStore создает новый экземпляр TaskStore
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*Task),
	}
}

// CreateTask создает новую задачу со статусом 'pending'
func (ts *TaskStore) CreateTask(taskID string, ttl time.Duration) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	now := time.Now()
	ts.tasks[taskID] = &Task{
		ID:        taskID,
		Status:    TaskStatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// UpdateTaskStatus обновляет статус существующей задачи
func (ts *TaskStore) UpdateTaskStatus(taskID string, status TaskStatus) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if task, ok := ts.tasks[taskID]; ok {
		task.Status = status
	}
}

// UpdateTaskResult записывает результат и переводит задачу в 'completed'
func (ts *TaskStore) UpdateTaskResult(taskID string, result *domain.Entities) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if task, ok := ts.tasks[taskID]; ok {
		task.Status = TaskStatusCompleted
		task.Result = result
	}
}

// UpdateTaskError записывает сообщение об ошибке и переводит задачу в 'failed'
func (ts *TaskStore) UpdateTaskError(taskID string, errorMessage string) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if task, ok := ts.tasks[taskID]; ok {
		task.Status = TaskStatusFailed
		task.ErrorMessage = errorMessage
	}
}

// GetTask извлекает задачу по идентификатору
func (ts *TaskStore) GetTask(taskID string) (*Task, error) {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()

	task, ok := ts.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("задача %s не найдена", taskID)
	}
	return task, nil
}

// CleanupExpired удаляет просроченные задачи вместе с их результатами.
// Это часть гарантии, что извлеченные данные не живут дольше необходимого.
func (ts *TaskStore) CleanupExpired() {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	now := time.Now()
	for id, task := range ts.tasks {
		if now.After(task.ExpiresAt) {
			delete(ts.tasks, id)
		}
	}
}

// StartCleanupTicker запускает периодическую очистку просроченных задач
func (ts *TaskStore) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ts.CleanupExpired()
			}
		}
	}()
}
