package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"telegram-members-bot/internal/adapters/normalizer"
	"telegram-members-bot/internal/domain"
	"telegram-members-bot/internal/pkg/config"
)

// ExportProcessor определяет интерфейс варианта использования,
// который обрабатывает набор файлов экспорта.
type ExportProcessor interface {
	ProcessExport(ctx context.Context, files []domain.File) (*domain.Entities, error)
}

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	taskStore  *TaskStore
	processor  ExportProcessor
}

// New создает новый экземпляр Server
func New(cfg *config.Config, processor ExportProcessor, taskStore *TaskStore) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		taskStore: taskStore,
		processor: processor,
	}

	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(middleware.Logger)
	chiRouter.Use(middleware.Recoverer)

	// Конечная точка для проверки работоспособности
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
		})
	})

	// Маршруты API
	chiRouter.Route("/api/v1", func(r chi.Router) {
		r.Post("/process", s.handleProcess)
		r.Get("/tasks/{taskID}", s.handleTaskStatus)
		r.Get("/tasks/{taskID}/result", s.handleTaskResult)
	})

	s.HTTPServer = &http.Server{
		Addr:    cfg.Address(),
		Handler: chiRouter,
	}

	return s, nil
}

// handleProcess принимает multipart-форму с файлами экспорта и запускает
// задачу обработки. Файлы читаются целиком в память: временные файлы
// нарушили бы гарантию, что загруженное содержимое нигде не сохраняется.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	maxUpload := int64(s.cfg.Server.MaxUploadSizeMB) << 20
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "Не удалось разобрать форму", http.StatusBadRequest)
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		http.Error(w, "Не переданы файлы", http.StatusBadRequest)
		return
	}

	var files []domain.File
	for _, fh := range fileHeaders {
		if !normalizer.Supported(fh.Filename) {
			http.Error(w, fmt.Sprintf("Неподдерживаемый формат файла: %s (принимаются .json, .html, .zip)", fh.Filename), http.StatusBadRequest)
			return
		}

		f, err := fh.Open()
		if err != nil {
			http.Error(w, "Не удалось получить файл из формы", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "Не удалось прочитать файл из формы", http.StatusBadRequest)
			return
		}

		files = append(files, domain.File{
			Name: fh.Filename,
			MIME: fh.Header.Get("Content-Type"),
			Data: data,
		})
	}

	taskID := uuid.NewString()
	ttl := time.Duration(s.cfg.Processing.TaskTTLMinutes) * time.Minute
	s.taskStore.CreateTask(taskID, ttl)

	// Обработка выполняется в горутине: внутри одной задачи конвейер
	// строго последователен, параллельны только независимые задачи.
	go s.runTask(taskID, files)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"task_id": taskID})
}

// runTask выполняет конвейер обработки и фиксирует результат в хранилище задач.
func (s *Server) runTask(taskID string, files []domain.File) {
	s.taskStore.UpdateTaskStatus(taskID, TaskStatusProcessing)

	taskCtx := context.Background()
	if s.cfg.Processing.TaskTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, time.Duration(s.cfg.Processing.TaskTimeoutSeconds)*time.Second)
		defer cancel()
	}

	entities, err := s.processor.ProcessExport(taskCtx, files)
	if err != nil {
		slog.Warn("Задача завершилась с ошибкой", "task_id", taskID, "error", err.Error())
		s.taskStore.UpdateTaskError(taskID, err.Error())
		return
	}

	s.taskStore.UpdateTaskResult(taskID, entities)
	slog.Info("Задача выполнена", "task_id", taskID, "participants", len(entities.Participants))
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := s.taskStore.GetTask(taskID)
	if err != nil {
		http.Error(w, "Задача не найдена", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"task_id":       task.ID,
		"status":        task.Status,
		"error_message": task.ErrorMessage,
	})
}

func (s *Server) handleTaskResult(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := s.taskStore.GetTask(taskID)
	if err != nil {
		http.Error(w, "Задача не найдена", http.StatusNotFound)
		return
	}

	if task.Status != TaskStatusCompleted {
		http.Error(w, "Задача не завершена", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(task.Result)
}
