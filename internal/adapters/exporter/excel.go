package exporter

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"telegram-members-bot/internal/domain"
)

// Имена вкладок отчета.
const (
	participantsSheet = "Участники"
	mentionsSheet     = "Упоминания"
	channelsSheet     = "Каналы"
)

// BuildWorkbook формирует Excel-книгу с тремя вкладками: участники,
// упоминания и каналы. Отсутствующие значения остаются пустыми ячейками.
func BuildWorkbook(entities *domain.Entities, exportDate time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", participantsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}

	writeHeader(f, participantsSheet, []string{
		"Дата экспорта", "Username", "Имя и фамилия", "Описание",
		"Дата регистрации", "Наличие канала в профиле",
	}, bold)

	date := exportDate.Format("2006-01-02")
	for i, p := range entities.Participants {
		row := i + 2
		f.SetCellValue(participantsSheet, fmt.Sprintf("A%d", row), date)
		f.SetCellValue(participantsSheet, fmt.Sprintf("B%d", row), p.Username)
		f.SetCellValue(participantsSheet, fmt.Sprintf("C%d", row), p.Name)
		f.SetCellValue(participantsSheet, fmt.Sprintf("D%d", row), p.Bio)
		f.SetCellValue(participantsSheet, fmt.Sprintf("E%d", row), p.RegisteredAt)
		f.SetCellValue(participantsSheet, fmt.Sprintf("F%d", row), yesNo(p.HasChannel))
	}

	if _, err := f.NewSheet(mentionsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", mentionsSheet, err)
	}
	writeHeader(f, mentionsSheet, []string{"Username"}, bold)
	for i, m := range entities.Mentions {
		f.SetCellValue(mentionsSheet, fmt.Sprintf("A%d", i+2), prefixAt(m.Username))
	}

	if _, err := f.NewSheet(channelsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", channelsSheet, err)
	}
	writeHeader(f, channelsSheet, []string{"Name", "Username"}, bold)
	for i, c := range entities.Channels {
		row := i + 2
		f.SetCellValue(channelsSheet, fmt.Sprintf("A%d", row), c.Name)
		f.SetCellValue(channelsSheet, fmt.Sprintf("B%d", row), prefixAt(c.Username))
	}

	return f, nil
}

// WorkbookFileName возвращает детерминированное имя файла отчета по дате обработки.
func WorkbookFileName(exportDate time.Time) string {
	return fmt.Sprintf("chat_members_%s.xlsx", exportDate.Format("2006-01-02"))
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func yesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}
