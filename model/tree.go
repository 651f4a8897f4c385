package model

import (
	"errors"
	"fmt"
)

// ErrNotChoice is returned by option operations on non-CHOICE questions.
var ErrNotChoice = errors.New("question does not take options")

// AddQuestion appends a new question of the given type with the next order
// value and returns it. New questions are required by default.
func (s *Survey) AddQuestion(t QuestionType) *Question {
	s.Questions = append(s.Questions, Question{
		Type:     t,
		Required: true,
		Order:    len(s.Questions) + 1,
	})
	return &s.Questions[len(s.Questions)-1]
}

// RemoveQuestion removes the question at the given local index and renumbers
// the remaining ones.
func (s *Survey) RemoveQuestion(i int) error {
	if i < 0 || i >= len(s.Questions) {
		return fmt.Errorf("question index %d out of range", i)
	}
	s.Questions = append(s.Questions[:i], s.Questions[i+1:]...)
	s.Renumber()
	return nil
}

// Renumber rewrites order values 1..N following list sequence.
func (s *Survey) Renumber() {
	for i := range s.Questions {
		s.Questions[i].Order = i + 1
	}
}

func (q *Question) AddOption(textTR, textEN string) error {
	if q.Type != Choice {
		return ErrNotChoice
	}
	q.Options = append(q.Options, Option{TextTR: textTR, TextEN: textEN})
	return nil
}

func (q *Question) RemoveOption(i int) error {
	if q.Type != Choice {
		return ErrNotChoice
	}
	if i < 0 || i >= len(q.Options) {
		return fmt.Errorf("option index %d out of range", i)
	}
	q.Options = append(q.Options[:i], q.Options[i+1:]...)
	return nil
}

func (q *Question) SetOption(i int, textTR, textEN string) error {
	if q.Type != Choice {
		return ErrNotChoice
	}
	if i < 0 || i >= len(q.Options) {
		return fmt.Errorf("option index %d out of range", i)
	}
	q.Options[i].TextTR = textTR
	q.Options[i].TextEN = textEN
	return nil
}
