// Package importer loads vocabulary lists from spreadsheets into the store.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"linguo/internal/domain"
	"linguo/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Column order of an import file
const (
	colWord = iota
	colTranslation
	colPronunciation
	colPartOfSpeech
	colDefinition
	colExampleSentence
	colFrequency
)

// Config defines one import run
type Config struct {
	FilePath     string // .xlsx or .csv
	LanguageCode string
	SheetName    string // xlsx only, the first sheet when empty
	SkipHeader   bool
}

// Result holds the outcome of an import
type Result struct {
	TotalProcessed int
	Saved          int
	Skipped        int
	Errors         []string
}

// Importer writes spreadsheet rows as vocabulary items
type Importer struct {
	languageRepo repository.LanguageRepository
	vocabRepo    repository.VocabularyRepository
	logger       *zap.Logger
}

// New creates a new importer
func New(languageRepo repository.LanguageRepository, vocabRepo repository.VocabularyRepository, logger *zap.Logger) *Importer {
	return &Importer{
		languageRepo: languageRepo,
		vocabRepo:    vocabRepo,
		logger:       logger,
	}
}

// Import reads cfg.FilePath and upserts every valid row into the language.
// Invalid rows are skipped and reported in Result.Errors.
func (im *Importer) Import(ctx context.Context, cfg Config) (*Result, error) {
	language, err := im.languageRepo.GetByCode(ctx, cfg.LanguageCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get language: %w", err)
	}
	if language == nil {
		return nil, fmt.Errorf("%w: language %q", domain.ErrNotFound, cfg.LanguageCode)
	}

	rows, err := readRows(cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: make([]string, 0)}

	for i, row := range rows {
		rowNum := i + 1
		if cfg.SkipHeader && i == 0 {
			continue
		}
		if isBlank(row) {
			continue
		}

		result.TotalProcessed++

		item, err := parseRow(row, language.ID)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		if _, err := im.vocabRepo.Upsert(ctx, item); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: failed to save %q: %v", rowNum, item.Word, err))
			continue
		}
		result.Saved++
	}

	im.logger.Info("Vocabulary import finished",
		zap.String("file", cfg.FilePath),
		zap.String("language", language.Code),
		zap.Int("processed", result.TotalProcessed),
		zap.Int("saved", result.Saved),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

func readRows(cfg Config) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".csv":
		return readCSV(cfg.FilePath)
	case ".xlsx":
		return readExcel(cfg.FilePath, cfg.SheetName)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, filepath.Ext(cfg.FilePath))
	}
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(row []string, languageID int64) (*domain.VocabularyItem, error) {
	item := &domain.VocabularyItem{
		LanguageID:      languageID,
		Word:            cell(row, colWord),
		Translation:     cell(row, colTranslation),
		Pronunciation:   cell(row, colPronunciation),
		PartOfSpeech:    cell(row, colPartOfSpeech),
		Definition:      cell(row, colDefinition),
		ExampleSentence: cell(row, colExampleSentence),
	}

	if item.Word == "" {
		return nil, errors.New("word cannot be empty")
	}
	if item.Translation == "" {
		return nil, errors.New("translation cannot be empty")
	}

	if f := cell(row, colFrequency); f != "" {
		rank, err := strconv.Atoi(f)
		if err != nil || rank < 0 {
			return nil, fmt.Errorf("invalid frequency rank %q", f)
		}
		item.Frequency = rank
	}

	return item, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
