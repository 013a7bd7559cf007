package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/applyforge/applyforge/internal/domain"
)

// AnswerStore maps exact question text to a previously given answer.
// Keys are trimmed of surrounding whitespace and never otherwise
// normalized, so questions differing only in punctuation or case are
// distinct entries.
type AnswerStore struct {
	db *DB
}

// NewAnswerStore creates a new answer store
func NewAnswerStore(db *DB) *AnswerStore {
	return &AnswerStore{db: db}
}

// Get looks up the memoized answer for the exact question wording.
// Absence is reported through found, not through an error.
func (s *AnswerStore) Get(ctx context.Context, question string) (answer string, found bool, err error) {
	query := `SELECT answer FROM questions WHERE question = ?`

	if err := s.db.GetContext(ctx, &answer, query, strings.TrimSpace(question)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, domain.StoreUnavailableError("get answer", err)
	}

	return answer, true, nil
}

// Record upserts the answer for a question. Last write wins; exactly one
// row per distinct question exists afterwards.
func (s *AnswerStore) Record(ctx context.Context, question, answer string) error {
	query := `
		INSERT INTO questions (question, answer)
		VALUES (?, ?)
		ON CONFLICT(question) DO UPDATE SET answer = excluded.answer
	`

	if _, err := s.db.ExecContext(ctx, query, strings.TrimSpace(question), answer); err != nil {
		return domain.StoreUnavailableError("record answer", err)
	}

	return nil
}

// List returns all memoized answers ordered by question text
func (s *AnswerStore) List(ctx context.Context) ([]domain.StoredQuestionAnswer, error) {
	query := `SELECT question, answer FROM questions ORDER BY question`

	var rows []domain.StoredQuestionAnswer
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.StoreUnavailableError("list answers", err)
	}

	return rows, nil
}

// Delete removes the entry for a question, if present
func (s *AnswerStore) Delete(ctx context.Context, question string) error {
	query := `DELETE FROM questions WHERE question = ?`

	result, err := s.db.ExecContext(ctx, query, strings.TrimSpace(question))
	if err != nil {
		return domain.StoreUnavailableError("delete answer", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.StoreUnavailableError("delete answer", err)
	}
	if rows == 0 {
		return domain.NotFoundError("answer", question)
	}

	return nil
}
