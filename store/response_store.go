package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anket-platform/anket/model"
)

// SubmitResponse validates and persists one respondent's answers. The
// response and its answer rows are written atomically; a validation failure
// never persists anything. Returns the new response id.
func (s *Store) SubmitResponse(ctx context.Context, surveyID int64, info model.CustomerInfo, lang model.Language, answers map[int64]string) (int64, error) {
	if lang == "" {
		lang = model.Turkish
	}
	if !lang.Valid() {
		return 0, &ValidationError{Err: fmt.Errorf("invalid language %q", lang)}
	}
	if err := validate.Struct(info); err != nil {
		return 0, &ValidationError{Err: err}
	}

	survey, err := s.GetSurvey(ctx, surveyID)
	if err != nil {
		return 0, err
	}
	if err := validateSubmission(survey.Questions, lang, answers); err != nil {
		return 0, err
	}

	infoJson, err := json.Marshal(info)
	if err != nil {
		return 0, storageErr("db.insert_response.customer_info", err)
	}

	var responseID int64
	err = s.inTx(ctx, "db.insert_response", func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO response (survey_id, customer_info, language, time)
			VALUES (?, ?, ?, ?)
			RETURNING id`,
			surveyID,
			string(infoJson),
			lang,
			time.Now(),
		).Scan(&responseID)
		if err != nil {
			return storageErr("db.insert_response", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO answer (response_id, question_id, value)
			VALUES (?, ?, ?)`)
		if err != nil {
			return storageErr("db.insert_response.answers.prepare", err)
		}
		defer stmt.Close()

		for i := range survey.Questions {
			qid, ok := survey.Questions[i].ID.Existing()
			if !ok {
				continue
			}
			value, present := answers[qid]
			if !present || strings.TrimSpace(value) == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, responseID, qid, value); err != nil {
				return storageErr("db.insert_response.answers.insert", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return responseID, nil
}

// ListResponses returns a survey's responses newest first, each with its
// answers.
func (s *Store) ListResponses(ctx context.Context, surveyID int64) ([]model.Response, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM survey WHERE id = ?`, surveyID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "survey", ID: surveyID}
	}
	if err != nil {
		return nil, storageErr("db.get_responses.survey", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.customer_info, r.language, r.time,
			a.id, a.question_id, a.value
		FROM response r
		LEFT OUTER JOIN answer a ON (r.id = a.response_id)
		WHERE r.survey_id = ?
		ORDER BY r.time DESC, r.id DESC, a.id`,
		surveyID,
	)
	if err != nil {
		return nil, storageErr("db.get_responses", err)
	}
	defer rows.Close()

	responses := []model.Response{}
	for rows.Next() {
		r := model.Response{SurveyID: surveyID}
		var infoJson string
		var answerID, questionID sql.NullInt64
		var value sql.NullString
		err = rows.Scan(&r.ID, &infoJson, &r.Language, &r.Time, &answerID, &questionID, &value)
		if err != nil {
			return nil, storageErr("db.get_responses.scan", err)
		}

		lastIdx := len(responses) - 1
		if lastIdx < 0 || responses[lastIdx].ID != r.ID {
			if err := json.Unmarshal([]byte(infoJson), &r.CustomerInfo); err != nil {
				return nil, storageErr("db.get_responses.parse_customer_info", err)
			}
			responses = append(responses, r)
			lastIdx++
		}
		if answerID.Valid {
			responses[lastIdx].Answers = append(responses[lastIdx].Answers, model.Answer{
				ID:         answerID.Int64,
				QuestionID: questionID.Int64,
				Value:      value.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("db.get_responses", err)
	}
	return responses, nil
}

// DeleteResponse removes one response and its answers.
func (s *Store) DeleteResponse(ctx context.Context, responseID int64) error {
	return s.inTx(ctx, "db.delete_response", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM answer WHERE response_id = ?`, responseID)
		if err != nil {
			return storageErr("db.delete_response.answers", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM response WHERE id = ?`, responseID)
		if err != nil {
			return storageErr("db.delete_response", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("db.delete_response.verify", err)
		}
		if n < 1 {
			return &NotFoundError{Entity: "response", ID: responseID}
		}
		return nil
	})
}
