package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/anket-platform/anket/model"
)

// CreateSurvey validates the snapshot and persists the whole tree in one
// transaction, returning the new survey id. Question order values are
// renumbered 1..N following list sequence before anything is written.
func (s *Store) CreateSurvey(ctx context.Context, survey *model.Survey) (int64, error) {
	survey.Renumber()
	if survey.Revision == "" {
		survey.Revision = "1.0"
	}
	if err := validateSnapshot(survey); err != nil {
		return 0, err
	}

	var surveyID int64
	err := s.inTx(ctx, "db.insert_survey", func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO survey (title_tr, title_en, type, revision) VALUES (?, ?, ?, ?)
			RETURNING id`,
			survey.TitleTR,
			survey.TitleEN,
			survey.Type,
			survey.Revision,
		).Scan(&surveyID)
		if err != nil {
			return storageErr("db.insert_survey", err)
		}

		for i := range survey.Questions {
			if _, err := insertQuestion(ctx, tx, surveyID, &survey.Questions[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return surveyID, nil
}

// GetSurvey loads the full bilingual tree, questions ordered by position.
func (s *Store) GetSurvey(ctx context.Context, surveyID int64) (*model.Survey, error) {
	survey := &model.Survey{ID: surveyID}
	err := s.db.QueryRowContext(ctx, `
		SELECT title_tr, title_en, type, COALESCE(revision, '')
		FROM survey
		WHERE id = ?`,
		surveyID,
	).Scan(&survey.TitleTR, &survey.TitleEN, &survey.Type, &survey.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "survey", ID: surveyID}
	}
	if err != nil {
		return nil, storageErr("db.get_survey", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, text_tr, text_en,
			COALESCE(description_tr, ''), COALESCE(description_en, ''),
			required, position
		FROM question
		WHERE survey_id = ?
		ORDER BY position`,
		surveyID,
	)
	if err != nil {
		return nil, storageErr("db.get_survey.questions", err)
	}
	defer rows.Close()

	index := map[int64]int{}
	for rows.Next() {
		q := model.Question{}
		var id int64
		err = rows.Scan(
			&id, &q.Type, &q.TextTR, &q.TextEN,
			&q.DescriptionTR, &q.DescriptionEN,
			&q.Required, &q.Order,
		)
		if err != nil {
			return nil, storageErr("db.get_survey.questions.scan", err)
		}
		q.ID = model.ExistingRef(id)
		index[id] = len(survey.Questions)
		survey.Questions = append(survey.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("db.get_survey.questions", err)
	}

	optRows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.question_id, o.text_tr, o.text_en
		FROM option o
		INNER JOIN question q ON (q.id = o.question_id)
		WHERE q.survey_id = ?
		ORDER BY o.id`,
		surveyID,
	)
	if err != nil {
		return nil, storageErr("db.get_survey.options", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		o := model.Option{}
		var id, questionID int64
		if err := optRows.Scan(&id, &questionID, &o.TextTR, &o.TextEN); err != nil {
			return nil, storageErr("db.get_survey.options.scan", err)
		}
		o.ID = model.ExistingRef(id)
		if i, ok := index[questionID]; ok {
			survey.Questions[i].Options = append(survey.Questions[i].Options, o)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, storageErr("db.get_survey.options", err)
	}

	return survey, nil
}

// ListSurveys returns all surveys with question and response counts, newest
// first, without the nested trees.
func (s *Store) ListSurveys(ctx context.Context) ([]model.Survey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title_tr, s.title_en, s.type, COALESCE(s.revision, ''),
			(SELECT COUNT(*) FROM question q WHERE q.survey_id = s.id),
			(SELECT COUNT(*) FROM response r WHERE r.survey_id = s.id)
		FROM survey s
		ORDER BY s.id DESC`,
	)
	if err != nil {
		return nil, storageErr("db.get_surveys", err)
	}
	defer rows.Close()

	surveys := []model.Survey{}
	for rows.Next() {
		s := model.Survey{}
		err = rows.Scan(
			&s.ID, &s.TitleTR, &s.TitleEN, &s.Type, &s.Revision,
			&s.QuestionCount, &s.ResponseCount,
		)
		if err != nil {
			return nil, storageErr("db.get_surveys.scan", err)
		}
		surveys = append(surveys, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("db.get_surveys", err)
	}
	return surveys, nil
}

// UpdateSurvey reconciles the persisted tree with the incoming snapshot in
// one transaction:
//
//  1. survey scalar fields are updated unconditionally;
//  2. persisted questions absent from the snapshot are deleted, children
//     first (answers, options, then the question rows);
//  3. questions carrying an id are updated in place - the id is never
//     touched, so existing answers keep pointing at the right question -
//     and for CHOICE questions the same pass runs over their options;
//  4. questions without an id are created, along with their options.
//
// Deletions run before upserts so removing a question and adding a new one
// in the same edit never collides on order values.
func (s *Store) UpdateSurvey(ctx context.Context, surveyID int64, incoming *model.Survey) error {
	if err := validateSnapshot(incoming); err != nil {
		return err
	}

	return s.inTx(ctx, "db.update_survey", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE survey
			SET title_tr = ?, title_en = ?, type = ?, revision = ?
			WHERE id = ?`,
			incoming.TitleTR,
			incoming.TitleEN,
			incoming.Type,
			incoming.Revision,
			surveyID,
		)
		if err != nil {
			return storageErr("db.update_survey", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("db.update_survey.verify", err)
		}
		if n < 1 {
			return &NotFoundError{Entity: "survey", ID: surveyID}
		}

		kept := map[int64]bool{}
		for _, q := range incoming.Questions {
			if id, ok := q.ID.Existing(); ok {
				kept[id] = true
			}
		}

		existing, err := queryIDs(ctx, tx, "db.update_survey.questions",
			`SELECT id FROM question WHERE survey_id = ?`, surveyID)
		if err != nil {
			return err
		}
		for _, qid := range existing {
			if !kept[qid] {
				if err := deleteQuestion(ctx, tx, qid); err != nil {
					return err
				}
			}
		}

		for i := range incoming.Questions {
			q := &incoming.Questions[i]
			qid, ok := q.ID.Existing()
			if !ok {
				if _, err := insertQuestion(ctx, tx, surveyID, q); err != nil {
					return err
				}
				continue
			}

			res, err := tx.ExecContext(ctx, `
				UPDATE question
				SET type = ?, text_tr = ?, text_en = ?,
					description_tr = ?, description_en = ?,
					required = ?, position = ?
				WHERE id = ? AND survey_id = ?`,
				q.Type, q.TextTR, q.TextEN,
				q.DescriptionTR, q.DescriptionEN,
				q.Required, q.Order,
				qid, surveyID,
			)
			if err != nil {
				return storageErr("db.update_survey.question", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return storageErr("db.update_survey.question.verify", err)
			}
			if n < 1 {
				return &NotFoundError{Entity: "question", ID: qid}
			}

			if q.Type == model.Choice {
				if err := reconcileOptions(ctx, tx, qid, q.Options); err != nil {
					return err
				}
			} else {
				// type may have changed away from CHOICE
				_, err := tx.ExecContext(ctx,
					`DELETE FROM option WHERE question_id = ?`, qid)
				if err != nil {
					return storageErr("db.update_survey.prune_options", err)
				}
			}
		}
		return nil
	})
}

// reconcileOptions applies the question-level identifier logic one level
// down: options with an id are updated in place, options missing from the
// incoming list are deleted, options without an id are created.
func reconcileOptions(ctx context.Context, tx *sql.Tx, questionID int64, incoming []model.Option) error {
	kept := map[int64]bool{}
	for _, o := range incoming {
		if id, ok := o.ID.Existing(); ok {
			kept[id] = true
		}
	}

	existing, err := queryIDs(ctx, tx, "db.update_survey.options",
		`SELECT id FROM option WHERE question_id = ?`, questionID)
	if err != nil {
		return err
	}
	for _, oid := range existing {
		if !kept[oid] {
			_, err := tx.ExecContext(ctx, `DELETE FROM option WHERE id = ?`, oid)
			if err != nil {
				return storageErr("db.update_survey.options.delete", err)
			}
		}
	}

	for _, o := range incoming {
		if oid, ok := o.ID.Existing(); ok {
			res, err := tx.ExecContext(ctx, `
				UPDATE option SET text_tr = ?, text_en = ?
				WHERE id = ? AND question_id = ?`,
				o.TextTR, o.TextEN, oid, questionID,
			)
			if err != nil {
				return storageErr("db.update_survey.options.update", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return storageErr("db.update_survey.options.verify", err)
			}
			if n < 1 {
				return &NotFoundError{Entity: "option", ID: oid}
			}
		} else {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO option (question_id, text_tr, text_en) VALUES (?, ?, ?)`,
				questionID, o.TextTR, o.TextEN,
			)
			if err != nil {
				return storageErr("db.update_survey.options.insert", err)
			}
		}
	}
	return nil
}

// insertQuestion creates the question row and all of its options, which are
// necessarily new since the question itself is. Options are only written for
// CHOICE questions.
func insertQuestion(ctx context.Context, tx *sql.Tx, surveyID int64, q *model.Question) (int64, error) {
	var questionID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO question
			(survey_id, type, text_tr, text_en, description_tr, description_en, required, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		surveyID, q.Type, q.TextTR, q.TextEN,
		q.DescriptionTR, q.DescriptionEN,
		q.Required, q.Order,
	).Scan(&questionID)
	if err != nil {
		return 0, storageErr("db.insert_question", err)
	}

	if q.Type == model.Choice {
		for _, o := range q.Options {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO option (question_id, text_tr, text_en) VALUES (?, ?, ?)`,
				questionID, o.TextTR, o.TextEN,
			)
			if err != nil {
				return 0, storageErr("db.insert_question.options", err)
			}
		}
	}
	return questionID, nil
}

// deleteQuestion removes a question with its options and any answers that
// reference it, children before parent.
func deleteQuestion(ctx context.Context, tx *sql.Tx, questionID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM answer WHERE question_id = ?`, questionID)
	if err != nil {
		return storageErr("db.delete_question.answers", err)
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM option WHERE question_id = ?`, questionID)
	if err != nil {
		return storageErr("db.delete_question.options", err)
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM question WHERE id = ?`, questionID)
	if err != nil {
		return storageErr("db.delete_question", err)
	}
	return nil
}

// DeleteSurvey removes the survey and everything hanging off it in one
// transaction, children before parents.
func (s *Store) DeleteSurvey(ctx context.Context, surveyID int64) error {
	return s.inTx(ctx, "db.delete_survey", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM answer
			WHERE response_id IN (SELECT id FROM response WHERE survey_id = ?)`,
			surveyID,
		)
		if err != nil {
			return storageErr("db.delete_survey.answers", err)
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM response WHERE survey_id = ?`, surveyID)
		if err != nil {
			return storageErr("db.delete_survey.responses", err)
		}
		_, err = tx.ExecContext(ctx, `
			DELETE FROM option
			WHERE question_id IN (SELECT id FROM question WHERE survey_id = ?)`,
			surveyID,
		)
		if err != nil {
			return storageErr("db.delete_survey.options", err)
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM question WHERE survey_id = ?`, surveyID)
		if err != nil {
			return storageErr("db.delete_survey.questions", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM survey WHERE id = ?`, surveyID)
		if err != nil {
			return storageErr("db.delete_survey", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("db.delete_survey.verify", err)
		}
		if n < 1 {
			return &NotFoundError{Entity: "survey", ID: surveyID}
		}
		return nil
	})
}
