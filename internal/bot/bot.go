package bot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-members-bot/cmd/bot/config"
	"telegram-members-bot/internal/adapters/exporter"
	"telegram-members-bot/internal/adapters/normalizer"
	"telegram-members-bot/internal/domain"
)

const (
	startCommand   = "start"
	helpCommand    = "help"
	processCommand = "process"
	resetCommand   = "reset"
)

// Bot представляет собой основной объект Telegram-бота.
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          config.BotConfig
	serverClient ServerAPI
	taskStore    *TaskStore
	sessions     *SessionStore
	logger       *slog.Logger
	httpClient   *http.Client

	// Точки подмены для тестов.
	sendMessageFunc      func(msg tgbotapi.Chattable) (tgbotapi.Message, error)
	getFileDirectURLFunc func(fileID string) (string, error)
}

// NewBot создает и инициализирует новый экземпляр бота.
func NewBot(cfg config.BotConfig, serverClient ServerAPI, taskStore *TaskStore, sessions *SessionStore, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}

	logger.Info("Authorized on account", slog.String("username", api.Self.UserName))

	b := &Bot{
		api:          api,
		cfg:          cfg,
		serverClient: serverClient,
		taskStore:    taskStore,
		sessions:     sessions,
		logger:       logger,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		},
	}
	b.sendMessageFunc = b.api.Send
	b.getFileDirectURLFunc = b.api.GetFileDirectURL
	return b, nil
}

// Start запускает основной цикл обработки обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Context cancelled, stopping bot...")
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if msg.Document != nil {
		b.handleDocument(msg)
		return
	}

	b.reply(msg.Chat.ID, "Пожалуйста, отправьте файл экспорта истории чата Telegram (.json, .html или .zip).")
}

// handleCommand обрабатывает команды.
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case startCommand:
		b.reply(msg.Chat.ID, "Привет! Я помогу извлечь список участников из экспорта истории чата Telegram.\n\n"+b.helpText())
	case helpCommand:
		b.reply(msg.Chat.ID, b.helpText())
	case processCommand:
		b.cmdProcess(ctx, msg)
	case resetCommand:
		b.sessions.Clear(msg.Chat.ID)
		b.reply(msg.Chat.ID, "Буфер загруженных файлов очищен.")
	default:
		b.reply(msg.Chat.ID, "Я не знаю такой команды.")
	}
}

// helpText формирует справку с актуальными значениями из конфигурации.
func (b *Bot) helpText() string {
	return fmt.Sprintf(
		"Этот бот принимает экспорт истории чата из Telegram (JSON/HTML/ZIP) и извлекает участников.\n\n"+
			"Как пользоваться:\n"+
			"1) Выгрузите историю чата в Telegram Desktop (Настройки -> Advanced -> Export Telegram data).\n"+
			"2) Отправьте файл(ы) экспорта сюда (рекомендуем не более %d за одну отправку).\n"+
			"3) После загрузки отправьте команду /process.\n\n"+
			"Результат:\n"+
			"- Если < %d участников: получите список @username в чате.\n"+
			"- Если ≥ %d: получите Excel с вкладками: Участники, Упоминания, Каналы.\n\n"+
			"Конфиденциальность: файлы не сохраняются на сервере, обработка происходит в оперативной памяти.",
		b.cfg.MaxFilesHint, b.cfg.ExcelThreshold, b.cfg.ExcelThreshold,
	)
}

// handleDocument принимает файл экспорта и добавляет его в буфер сессии.
func (b *Bot) handleDocument(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	logger := b.logger.With(slog.Int64("chat_id", chatID))

	doc := msg.Document
	fileName := doc.FileName
	if fileName == "" {
		fileName = "unknown"
	}

	// Разрешенные форматы: .json, .html, .zip
	if !normalizer.Supported(fileName) {
		b.reply(chatID, "Пожалуйста, отправьте файл экспорта Telegram: .json, .html или .zip")
		return
	}

	// Пока идет обработка, буфер принадлежит конвейеру и пополнять его нельзя.
	if _, ok := b.taskStore.Get(chatID); ok {
		logger.Warn("user tried to upload a file while a task is active")
		b.reply(chatID, "Пожалуйста, подождите завершения предыдущей задачи, прежде чем загружать новые файлы.")
		return
	}

	fileURL, err := b.getFileDirectURLFunc(doc.FileID)
	if err != nil {
		logger.Error("failed to get file direct url", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось получить доступ к файлу. Попробуйте отправить его еще раз.")
		return
	}

	resp, err := b.httpClient.Get(fileURL)
	if err != nil {
		logger.Error("failed to download file", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось скачать файл. Попробуйте отправить его еще раз.")
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("failed to read file body", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось скачать файл. Попробуйте отправить его еще раз.")
		return
	}

	count := b.sessions.Add(chatID, domain.File{
		Name: fileName,
		MIME: doc.MimeType,
		Data: data,
	})
	logger.Info("file accepted", slog.String("file_name", fileName), slog.Int("buffered", count))

	b.reply(chatID, fmt.Sprintf(
		"Файл '%s' принят. Всего загружено: %d.\n"+
			"Отправьте /process для обработки. Рекомендуем загружать не более %d файлов за раз.",
		fileName, count, b.cfg.MaxFilesHint,
	))
}

// cmdProcess запускает обработку накопленных файлов на бэкенде.
// Буфер сессии очищается при любом исходе запуска.
func (b *Bot) cmdProcess(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	logger := b.logger.With(slog.Int64("chat_id", chatID))

	if _, ok := b.taskStore.Get(chatID); ok {
		logger.Warn("user tried to start a new task while another is active")
		b.reply(chatID, "Пожалуйста, подождите завершения предыдущей задачи, прежде чем начинать новую.")
		return
	}

	files := b.sessions.Files(chatID)
	if len(files) == 0 {
		b.reply(chatID, "Нет загруженных файлов. Сначала отправьте экспорт истории чата.")
		return
	}

	b.reply(chatID, "Обработка начата, пожалуйста, подождите...")

	startResp, err := b.serverClient.StartTask(ctx, files)
	// Буфер считается потребленным, успех или нет.
	b.sessions.Clear(chatID)
	if err != nil {
		logger.Error("failed to start task on backend", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось начать обработку файлов на сервере. Пожалуйста, попробуйте позже.")
		return
	}

	taskID := startResp.TaskID
	logger = logger.With(slog.String("task_id", taskID))
	logger.Info("task started on backend")

	b.taskStore.Set(chatID, taskID)
	// Для фонового опроса используем независимый контекст.
	go b.pollTaskStatus(context.Background(), chatID, taskID)
}

// pollTaskStatus асинхронно опрашивает статус задачи на бэкенд-сервере.
func (b *Bot) pollTaskStatus(ctx context.Context, chatID int64, taskID string) {
	logger := b.logger.With(slog.Int64("chat_id", chatID), slog.String("task_id", taskID))
	defer b.taskStore.Delete(chatID) // Гарантированно удаляем задачу по завершении.

	ticker := time.NewTicker(time.Duration(b.cfg.PollingIntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Warn("polling cancelled by context")
			return
		case <-ticker.C:
			status, err := b.serverClient.GetTaskStatus(ctx, taskID)
			if err != nil {
				logger.Error("failed to get task status", slog.String("error", err.Error()))
				continue
			}

			switch status.Status {
			case "completed":
				logger.Info("task completed")
				b.processCompletedTask(ctx, chatID, taskID)
				return
			case "failed":
				logger.Warn("task failed", slog.String("reason", status.ErrorMessage))
				b.reply(chatID, fmt.Sprintf("Ошибка при разборе файлов: %s", status.ErrorMessage))
				return
			case "pending", "processing":
				logger.Debug("task is in progress", slog.String("status", status.Status))
			default:
				logger.Warn("unknown task status", slog.String("status", status.Status))
			}
		}
	}
}

// processCompletedTask получает результат задачи и отправляет отчет.
func (b *Bot) processCompletedTask(ctx context.Context, chatID int64, taskID string) {
	logger := b.logger.With(slog.Int64("chat_id", chatID), slog.String("task_id", taskID))

	entities, err := b.serverClient.GetTaskResult(ctx, taskID)
	if err != nil {
		logger.Error("failed to fetch task result", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось получить результаты для выполненной задачи. Пожалуйста, попробуйте позже.")
		return
	}

	logger.Info("result fetched",
		slog.Int("participants", len(entities.Participants)),
		slog.Int("mentions", len(entities.Mentions)),
		slog.Int("channels", len(entities.Channels)),
	)

	if len(entities.Participants) < b.cfg.ExcelThreshold {
		b.sendTextResult(chatID, entities)
	} else {
		b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("Найдено %d участников. Формирую Excel-файл...", len(entities.Participants))))
		b.sendExcelResult(chatID, entities)
	}
}

// sendTextResult отправляет компактный список @username участников.
func (b *Bot) sendTextResult(chatID int64, entities *domain.Entities) {
	handles := exporter.HandleList(entities.Participants)
	if len(handles) == 0 {
		b.reply(chatID, "Не удалось извлечь ни одного username из участников.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Участники (<%d):\n%s", b.cfg.ExcelThreshold, strings.Join(handles, "\n")))
}

// sendExcelResult формирует и отправляет Excel-файл с тремя вкладками.
func (b *Bot) sendExcelResult(chatID int64, entities *domain.Entities) {
	exportDate := time.Now().UTC()

	f, err := exporter.BuildWorkbook(entities, exportDate)
	if err != nil {
		b.logger.Error("failed to build excel workbook", slog.String("error", err.Error()))
		b.reply(chatID, fmt.Sprintf("Ошибка при формировании Excel: %s", err.Error()))
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			b.logger.Error("failed to close excel file", slog.String("error", err.Error()))
		}
	}()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		b.logger.Error("failed to write excel to buffer", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось сгенерировать Excel-файл.")
		return
	}

	fileBytes := tgbotapi.FileBytes{
		Name:  exporter.WorkbookFileName(exportDate),
		Bytes: buf.Bytes(),
	}

	docMsg := tgbotapi.NewDocument(chatID, fileBytes)
	docMsg.Caption = "Excel с участниками, упоминаниями и каналами."
	b.sendMessage(docMsg)
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) {
	if _, err := b.sendMessageFunc(msg); err != nil {
		b.logger.Error("failed to send message", slog.String("error", err.Error()))
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}
