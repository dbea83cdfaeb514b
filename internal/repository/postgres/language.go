package postgres

import (
	"context"
	"database/sql"
	"errors"

	"linguo/internal/domain"

	"github.com/jmoiron/sqlx"
)

// LanguageRepo implements repository.LanguageRepository
type LanguageRepo struct {
	db *sqlx.DB
}

// NewLanguageRepo creates a new language repository
func NewLanguageRepo(db *sqlx.DB) *LanguageRepo {
	return &LanguageRepo{db: db}
}

type languageRow struct {
	ID   int64  `db:"id"`
	Code string `db:"code"`
	Name string `db:"name"`
}

func (r languageRow) toDomain() domain.Language {
	return domain.Language{ID: r.ID, Code: r.Code, Name: r.Name}
}

// List returns all languages ordered by name
func (r *LanguageRepo) List(ctx context.Context) ([]domain.Language, error) {
	var rows []languageRow
	query := `SELECT id, code, name FROM languages ORDER BY name, id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	languages := make([]domain.Language, 0, len(rows))
	for _, row := range rows {
		languages = append(languages, row.toDomain())
	}
	return languages, nil
}

// GetByID returns the language or nil if it does not exist
func (r *LanguageRepo) GetByID(ctx context.Context, id int64) (*domain.Language, error) {
	return r.getOne(ctx, `SELECT id, code, name FROM languages WHERE id = $1`, id)
}

// GetByCode returns the language with the given code or nil if it does not exist
func (r *LanguageRepo) GetByCode(ctx context.Context, code string) (*domain.Language, error) {
	return r.getOne(ctx, `SELECT id, code, name FROM languages WHERE code = $1`, code)
}

func (r *LanguageRepo) getOne(ctx context.Context, query string, arg interface{}) (*domain.Language, error) {
	var row languageRow
	err := r.db.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	l := row.toDomain()
	return &l, nil
}
