package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"telegram-members-bot/internal/adapters/exporter"
	"telegram-members-bot/internal/domain"
)

type taskStatusResponse struct {
	TaskID       string `json:"task_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func main() {
	var serverAddr string
	flag.StringVar(&serverAddr, "server", "http://localhost:8080", "Server address")
	flag.Parse()

	filePaths := flag.Args()
	if len(filePaths) == 0 {
		log.Fatal("At least one file path is required. Usage: client [flags] <file1> <file2> ...")
	}

	// Создание многочастной формы для загрузки файлов
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, path := range filePaths {
		file, err := os.Open(path)
		if err != nil {
			log.Fatalf("Не удалось открыть файл %s: %v", path, err)
		}

		part, err := writer.CreateFormFile("files", filepath.Base(path))
		if err != nil {
			_ = file.Close()
			log.Fatalf("Не удалось создать файл формы для %s: %v", path, err)
		}

		if _, err := io.Copy(part, file); err != nil {
			_ = file.Close()
			log.Fatalf("Не удалось записать данные файла %s: %v", path, err)
		}
		if err := file.Close(); err != nil {
			log.Printf("Warning: failed to close file %s: %v", path, err)
		}
	}

	// Важно закрыть writer, чтобы записать завершающую границу
	if err := writer.Close(); err != nil {
		log.Fatalf("Не удалось закрыть multipart writer: %v", err)
	}

	resp, err := http.Post(serverAddr+"/api/v1/process", writer.FormDataContentType(), &body)
	if err != nil {
		log.Fatalf("Не удалось отправить запрос: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		log.Fatalf("Сервер вернул статус: %d", resp.StatusCode)
	}

	var taskResp map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&taskResp); err != nil {
		log.Fatalf("Не удалось декодировать ответ: %v", err)
	}
	taskID := taskResp["task_id"]
	if taskID == "" {
		log.Fatal("Идентификатор задачи не найден в ответе")
	}

	fmt.Printf("Задача создана с идентификатором: %s\n", taskID)

	// Опрос статуса задачи
	for {
		time.Sleep(2 * time.Second)

		statusResp, err := fetchStatus(serverAddr, taskID)
		if err != nil {
			log.Fatalf("Не удалось опросить статус задачи: %v", err)
		}

		switch statusResp.Status {
		case "completed":
			entities, err := fetchResult(serverAddr, taskID)
			if err != nil {
				log.Fatalf("Не удалось получить результат: %v", err)
			}
			exporter.WriteText(os.Stdout, entities)
			return
		case "failed":
			fmt.Printf("Задача не выполнена: %s\n", statusResp.ErrorMessage)
			os.Exit(1)
		case "pending", "processing":
			continue
		default:
			log.Fatalf("Неизвестный статус задачи: %s", statusResp.Status)
		}
	}
}

func fetchStatus(serverAddr, taskID string) (*taskStatusResponse, error) {
	resp, err := http.Get(fmt.Sprintf("%s/api/v1/tasks/%s", serverAddr, taskID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	var statusResp taskStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&statusResp); err != nil {
		return nil, err
	}
	return &statusResp, nil
}

func fetchResult(serverAddr, taskID string) (*domain.Entities, error) {
	resp, err := http.Get(fmt.Sprintf("%s/api/v1/tasks/%s/result", serverAddr, taskID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	var entities domain.Entities
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, err
	}
	return &entities, nil
}
