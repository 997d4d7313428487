package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hellowhq67/pte-practice-service/internal/events"
	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/repositories"
	qvalidator "github.com/hellowhq67/pte-practice-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

// ImportService loads question banks from spreadsheet files. Row-level
// problems are collected per row, never fatal for the whole file.
type ImportService interface {
	ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename, importedBy string) (*models.ImportSummary, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, importedBy string) (*models.ImportSummary, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, importedBy string) (*models.ImportSummary, error)

	ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)
}

type importService struct {
	questions    repositories.QuestionRepository
	publisher    events.EventPublisher
	logger       *slog.Logger
	validator    *validator.Validate
	keyValidator *qvalidator.QuestionValidator
}

func NewImportService(
	questions repositories.QuestionRepository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validate *validator.Validate,
) ImportService {
	return &importService{
		questions:    questions,
		publisher:    publisher,
		logger:       logger,
		validator:    validate,
		keyValidator: qvalidator.NewQuestionValidator(),
	}
}

// Spreadsheet columns. answer_key is the task-type-dependent JSON document;
// options is a JSON array of {id, text} pairs.
var requiredColumns = []string{"type", "title"}

func (s *importService) ImportQuestionsFromFile(ctx context.Context, file multipart.File, filename, importedBy string) (*models.ImportSummary, error) {
	s.logger.Info("Starting question import", "filename", filename, "imported_by", importedBy)

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, file, importedBy)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, file, importedBy)
	default:
		return nil, NewValidationError("file", "unsupported file format", ext)
	}
}

func (s *importService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, importedBy string) (*models.ImportSummary, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, NewValidationError("file", "CSV must have a header row and at least one data row", len(records))
	}

	headerMap, err := parseHeader(records[0])
	if err != nil {
		return nil, err
	}
	return s.importRows(ctx, records[1:], headerMap, importedBy)
}

func (s *importService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, importedBy string) (*models.ImportSummary, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, NewValidationError("file", "Excel must have a header row and at least one data row", len(rows))
	}

	headerMap, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}
	return s.importRows(ctx, rows[1:], headerMap, importedBy)
}

func (s *importService) importRows(ctx context.Context, rows [][]string, headerMap map[string]int, importedBy string) (*models.ImportSummary, error) {
	start := time.Now()
	summary := &models.ImportSummary{TotalRows: len(rows)}

	var questions []*models.Question
	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header
		question, rowErrs := s.parseRow(row, headerMap, rowNum)
		if len(rowErrs) > 0 {
			summary.Errors = append(summary.Errors, rowErrs...)
			summary.ErrorCount++
			continue
		}
		questions = append(questions, question)
	}

	if len(questions) > 0 {
		if err := s.questions.CreateBatch(ctx, questions); err != nil {
			return nil, fmt.Errorf("failed to save questions: %w", err)
		}
		for _, q := range questions {
			summary.CreatedQuestions = append(summary.CreatedQuestions, q.ID)
		}
		summary.SuccessCount = len(questions)
	}
	summary.ProcessingTime = time.Since(start)

	s.publishImported(ctx, importedBy, summary)

	s.logger.Info("Question import completed",
		"total_rows", summary.TotalRows,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount,
		"duration", summary.ProcessingTime.String())
	return summary, nil
}

func (s *importService) parseRow(row []string, headerMap map[string]int, rowNum int) (*models.Question, []models.ImportError) {
	var errs []models.ImportError

	cell := func(name string) string {
		idx, ok := headerMap[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	taskType := models.TaskType(cell("type"))
	if !taskType.Valid() {
		errs = append(errs, models.ImportError{Row: rowNum, Column: "type", Message: fmt.Sprintf("unknown task type %q", cell("type"))})
	}

	title := cell("title")
	if title == "" {
		errs = append(errs, models.ImportError{Row: rowNum, Column: "title", Message: "title is required"})
	}

	question := &models.Question{
		Type:       taskType,
		Title:      title,
		Prompt:     cell("prompt"),
		Difficulty: models.DifficultyMedium,
	}

	if d := cell("difficulty"); d != "" {
		switch models.DifficultyLevel(d) {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
			question.Difficulty = models.DifficultyLevel(d)
		default:
			errs = append(errs, models.ImportError{Row: rowNum, Column: "difficulty", Message: fmt.Sprintf("unknown difficulty %q", d)})
		}
	}

	if u := cell("media_url"); u != "" {
		question.MediaURL = &u
	}

	if tl := cell("time_limit"); tl != "" {
		seconds, err := strconv.Atoi(tl)
		if err != nil || seconds < 0 || seconds > 3600 {
			errs = append(errs, models.ImportError{Row: rowNum, Column: "time_limit", Message: "time_limit must be 0-3600 seconds"})
		} else {
			question.TimeLimit = seconds
		}
	}

	if raw := cell("options"); raw != "" {
		var opts []models.QuestionOption
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			errs = append(errs, models.ImportError{Row: rowNum, Column: "options", Message: "options must be a JSON array of {id, text}"})
		} else {
			question.Options = []byte(raw)
		}
	}

	if raw := cell("answer_key"); raw != "" {
		var key models.AnswerKey
		if err := json.Unmarshal([]byte(raw), &key); err != nil {
			errs = append(errs, models.ImportError{Row: rowNum, Column: "answer_key", Message: "answer_key must be a JSON object"})
		} else {
			question.AnswerKey = []byte(raw)
		}
	} else if !taskType.IsAIScored() && taskType.Valid() {
		// Deterministic tasks are useless without a key.
		errs = append(errs, models.ImportError{Row: rowNum, Column: "answer_key", Message: "answer_key is required for deterministically scored tasks"})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if err := s.validator.Struct(question); err != nil {
		return nil, []models.ImportError{{Row: rowNum, Message: err.Error()}}
	}
	if err := s.keyValidator.ValidateQuestion(question); err != nil {
		return nil, []models.ImportError{{Row: rowNum, Column: "answer_key", Message: err.Error()}}
	}
	return question, nil
}

func (s *importService) publishImported(ctx context.Context, importedBy string, summary *models.ImportSummary) {
	event := events.NewPracticeEvent(events.EventQuestionsImported, events.QuestionsImportedEvent{
		ImportedBy:   importedBy,
		TotalRows:    summary.TotalRows,
		SuccessCount: summary.SuccessCount,
		ErrorCount:   summary.ErrorCount,
	})
	if err := s.publisher.PublishPracticeEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish import event", "error", err)
	}
}

// ===== EXPORT =====

var exportHeader = []string{"id", "type", "section", "title", "prompt", "media_url", "options", "answer_key", "difficulty", "time_limit"}

func (s *importService) ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	filters.Limit = 0 // export everything that matches
	questions, _, err := s.questions.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for col, name := range exportHeader {
		cellRef, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cellRef, name); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, q := range questions {
		mediaURL := ""
		if q.MediaURL != nil {
			mediaURL = *q.MediaURL
		}
		values := []interface{}{
			q.ID, string(q.Type), string(q.Section), q.Title, q.Prompt, mediaURL,
			string(q.Options), string(q.AnswerKey), string(q.Difficulty), q.TimeLimit,
		}
		for col, v := range values {
			cellRef, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cellRef, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func parseHeader(header []string) (map[string]int, error) {
	headerMap := make(map[string]int, len(header))
	for i, h := range header {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := headerMap[col]; !ok {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}
	return headerMap, nil
}
