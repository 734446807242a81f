package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-members-bot/internal/domain"
	"telegram-members-bot/internal/pkg/config"
)

// stubProcessor — подменный конвейер обработки для тестов HTTP-слоя.
type stubProcessor struct {
	processFunc func(ctx context.Context, files []domain.File) (*domain.Entities, error)
}

func (p *stubProcessor) ProcessExport(ctx context.Context, files []domain.File) (*domain.Entities, error) {
	return p.processFunc(ctx, files)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.Server{
			Host:                   "localhost",
			Port:                   8080,
			ShutdownTimeoutSeconds: 5,
			MaxUploadSizeMB:        20,
		},
		Processing: config.Processing{
			TaskTTLMinutes:         60,
			CleanupIntervalMinutes: 10,
		},
	}
}

func newTestServer(t *testing.T, processor ExportProcessor) (*Server, *TaskStore) {
	t.Helper()
	taskStore := NewTaskStore()
	s, err := New(testConfig(), processor, taskStore)
	require.NoError(t, err)
	return s, taskStore
}

// multipartBody собирает multipart-форму с файлами в поле "files".
func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t, &stubProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.HTTPServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleProcess(t *testing.T) {
	t.Run("Принятые файлы дают 202 и идентификатор задачи", func(t *testing.T) {
		var gotFiles []domain.File
		processor := &stubProcessor{
			processFunc: func(ctx context.Context, files []domain.File) (*domain.Entities, error) {
				gotFiles = files
				return &domain.Entities{
					Participants: []domain.Participant{{Name: "Alice", Username: "alice"}},
					Mentions:     []domain.Mention{},
					Channels:     []domain.Channel{},
				}, nil
			},
		}
		s, taskStore := newTestServer(t, processor)

		body, contentType := multipartBody(t, map[string][]byte{
			"result.json": []byte(`{"messages":[]}`),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/process", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		s.HTTPServer.Handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		taskID := resp["task_id"]
		require.NotEmpty(t, taskID)

		// Обработка идет в фоне: дожидаемся завершения задачи.
		require.Eventually(t, func() bool {
			task, err := taskStore.GetTask(taskID)
			return err == nil && task.Status == TaskStatusCompleted
		}, 5*time.Second, 10*time.Millisecond)

		require.Len(t, gotFiles, 1)
		assert.Equal(t, "result.json", gotFiles[0].Name)
	})

	t.Run("Без файлов возвращается 400", func(t *testing.T) {
		s, _ := newTestServer(t, &stubProcessor{})

		body, contentType := multipartBody(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/process", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		s.HTTPServer.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Неподдерживаемый формат файла дает 400", func(t *testing.T) {
		s, _ := newTestServer(t, &stubProcessor{})

		body, contentType := multipartBody(t, map[string][]byte{
			"export.csv": []byte("a,b"),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/process", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		s.HTTPServer.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "export.csv")
	})

	t.Run("Ошибка конвейера переводит задачу в failed", func(t *testing.T) {
		processor := &stubProcessor{
			processFunc: func(ctx context.Context, files []domain.File) (*domain.Entities, error) {
				return nil, errors.New("malformed export input")
			},
		}
		s, taskStore := newTestServer(t, processor)

		body, contentType := multipartBody(t, map[string][]byte{
			"result.json": []byte(`{"broken"`),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/process", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		s.HTTPServer.Handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		require.Eventually(t, func() bool {
			task, err := taskStore.GetTask(resp["task_id"])
			return err == nil && task.Status == TaskStatusFailed
		}, 5*time.Second, 10*time.Millisecond)

		task, err := taskStore.GetTask(resp["task_id"])
		require.NoError(t, err)
		assert.Contains(t, task.ErrorMessage, "malformed export input")
	})
}

func TestTaskEndpoints(t *testing.T) {
	t.Run("Статус и результат завершенной задачи", func(t *testing.T) {
		s, taskStore := newTestServer(t, &stubProcessor{})
		taskStore.CreateTask("task-1", time.Hour)
		taskStore.UpdateTaskResult("task-1", &domain.Entities{
			Participants: []domain.Participant{{Name: "Alice", Username: "alice"}},
			Mentions:     []domain.Mention{{Username: "bob"}},
			Channels:     []domain.Channel{},
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/task-1", nil)
		rec := httptest.NewRecorder()
		s.HTTPServer.Handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var statusResp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statusResp))
		assert.Equal(t, "completed", statusResp["status"])

		req = httptest.NewRequest(http.MethodGet, "/api/v1/tasks/task-1/result", nil)
		rec = httptest.NewRecorder()
		s.HTTPServer.Handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var entities domain.Entities
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entities))
		require.Len(t, entities.Participants, 1)
		assert.Equal(t, "alice", entities.Participants[0].Username)
	})

	t.Run("Неизвестная задача дает 404", func(t *testing.T) {
		s, _ := newTestServer(t, &stubProcessor{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/missing", nil)
		rec := httptest.NewRecorder()
		s.HTTPServer.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/v1/tasks/missing/result", nil)
		rec = httptest.NewRecorder()
		s.HTTPServer.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Результат незавершенной задачи дает 400", func(t *testing.T) {
		s, taskStore := newTestServer(t, &stubProcessor{})
		taskStore.CreateTask("task-1", time.Hour)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/task-1/result", nil)
		rec := httptest.NewRecorder()
		s.HTTPServer.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
