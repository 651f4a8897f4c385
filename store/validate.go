package store

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/anket-platform/anket/model"
)

var validate = validator.New()

// validateSnapshot checks an incoming survey tree before anything is
// written. All violations are collected so the editor can show them at once.
func validateSnapshot(s *model.Survey) error {
	var errs *multierror.Error

	if strings.TrimSpace(s.TitleTR) == "" {
		errs = multierror.Append(errs, fmt.Errorf("titleTR is blank"))
	}
	if strings.TrimSpace(s.TitleEN) == "" {
		errs = multierror.Append(errs, fmt.Errorf("titleEN is blank"))
	}
	if !s.Type.Valid() {
		errs = multierror.Append(errs, fmt.Errorf("invalid survey type %q", s.Type))
	}

	orders := map[int]bool{}
	for i, q := range s.Questions {
		label := fmt.Sprintf("question %d", i+1)
		if !q.Type.Valid() {
			errs = multierror.Append(errs, fmt.Errorf("%s: invalid question type %q", label, q.Type))
		}
		if strings.TrimSpace(q.TextTR) == "" {
			errs = multierror.Append(errs, fmt.Errorf("%s: textTR is blank", label))
		}
		if strings.TrimSpace(q.TextEN) == "" {
			errs = multierror.Append(errs, fmt.Errorf("%s: textEN is blank", label))
		}
		if orders[q.Order] {
			errs = multierror.Append(errs, fmt.Errorf("%s: duplicate order value %d", label, q.Order))
		}
		orders[q.Order] = true

		if q.Type == model.Choice && len(q.Options) == 0 {
			errs = multierror.Append(errs, fmt.Errorf("%s: choice question needs at least one option", label))
		}
		for j, o := range q.Options {
			if strings.TrimSpace(o.TextTR) == "" {
				errs = multierror.Append(errs, fmt.Errorf("%s option %d: textTR is blank", label, j+1))
			}
			if strings.TrimSpace(o.TextEN) == "" {
				errs = multierror.Append(errs, fmt.Errorf("%s option %d: textEN is blank", label, j+1))
			}
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// validateSubmission checks an answer map against the survey's live question
// list. Every required question needs a non-blank answer; YES_NO answers
// must be the literal strings "Yes" or "No" (case-sensitive, English words
// in both UI languages); CHOICE answers must match one of the question's
// option texts in the submission's declared language. Optional questions may
// be left blank.
func validateSubmission(questions []model.Question, lang model.Language, answers map[int64]string) error {
	known := map[int64]bool{}
	for i := range questions {
		q := &questions[i]
		qid, ok := q.ID.Existing()
		if !ok {
			continue
		}
		known[qid] = true

		value := answers[qid]
		if strings.TrimSpace(value) == "" {
			if q.Required {
				return &ValidationError{
					QuestionID: qid,
					Err:        fmt.Errorf("required question has no answer"),
				}
			}
			continue
		}

		switch q.Type {
		case model.YesNo:
			if value != "Yes" && value != "No" {
				return &ValidationError{
					QuestionID: qid,
					Err:        fmt.Errorf(`answer must be "Yes" or "No", got %q`, value),
				}
			}
		case model.Choice:
			found := false
			for i := range q.Options {
				if q.Options[i].Text(lang) == value {
					found = true
					break
				}
			}
			if !found {
				return &ValidationError{
					QuestionID: qid,
					Err:        fmt.Errorf("answer %q does not match any option", value),
				}
			}
		}
	}

	for qid := range answers {
		if !known[qid] {
			return &ValidationError{
				QuestionID: qid,
				Err:        fmt.Errorf("answer references an unknown question"),
			}
		}
	}
	return nil
}
