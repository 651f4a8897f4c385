package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anket-platform/anket/model"
)

func TestCreateAndGetSurvey(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	surveyID, err := s.CreateSurvey(ctx, sampleSurvey())
	require.NoError(t, err)
	require.NotZero(t, surveyID)

	survey, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)

	assert.Equal(t, "Müşteri Memnuniyet Anketi", survey.TitleTR)
	assert.Equal(t, "Customer Satisfaction Survey", survey.TitleEN)
	assert.Equal(t, model.Satisfaction, survey.Type)
	assert.Equal(t, "1.0", survey.Revision, "revision defaults on create")

	require.Len(t, survey.Questions, 3)
	for i, q := range survey.Questions {
		assert.Equal(t, i+1, q.Order)
		assert.False(t, q.ID.IsNew(), "persisted questions carry their id")
	}
	assert.Equal(t, model.Rate, survey.Questions[0].Type)
	assert.True(t, survey.Questions[0].Required)
	assert.False(t, survey.Questions[2].Required)

	choice := survey.Questions[1]
	require.Len(t, choice.Options, 3)
	assert.Equal(t, "Evet", choice.Options[0].TextTR)
	assert.Equal(t, "Yes", choice.Options[0].TextEN)
	assert.False(t, choice.Options[0].ID.IsNew())
}

func TestCreateSurveyValidation(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.Survey)
	}{
		{"blank titleEN", func(s *model.Survey) { s.TitleEN = "  " }},
		{"invalid survey type", func(s *model.Survey) { s.Type = "POLL" }},
		{"blank question text", func(s *model.Survey) { s.Questions[0].TextTR = "" }},
		{"invalid question type", func(s *model.Survey) { s.Questions[0].Type = "MATRIX" }},
		{"choice without options", func(s *model.Survey) { s.Questions[1].Options = nil }},
		{"blank option text", func(s *model.Survey) { s.Questions[1].Options[0].TextEN = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			survey := sampleSurvey()
			tt.mutate(survey)

			_, err := s.CreateSurvey(ctx, survey)
			var invalid *ValidationError
			require.ErrorAs(t, err, &invalid)
		})
	}

	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM survey`), "nothing persisted on validation failure")
}

func TestGetSurveyNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetSurvey(context.Background(), 999)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "survey", notFound.Entity)
	assert.Equal(t, int64(999), notFound.ID)
}

func TestListSurveys(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateSurvey(ctx, sampleSurvey())
	require.NoError(t, err)
	second, err := s.CreateSurvey(ctx, &model.Survey{
		TitleTR: "Satış Sonrası Gözetim Anketi",
		TitleEN: "Post-Sales Surveillance Survey",
		Type:    model.Surveillance,
	})
	require.NoError(t, err)

	_, err = s.SubmitResponse(ctx, first, sampleCustomer(), model.Turkish, answersFor(t, s, first))
	require.NoError(t, err)

	surveys, err := s.ListSurveys(ctx)
	require.NoError(t, err)
	require.Len(t, surveys, 2)

	assert.Equal(t, second, surveys[0].ID, "newest first")
	assert.Equal(t, first, surveys[1].ID)
	assert.Equal(t, 3, surveys[1].QuestionCount)
	assert.Equal(t, 1, surveys[1].ResponseCount)
	assert.Zero(t, surveys[0].QuestionCount)
}

func TestUpdateSurveyIdempotent(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	surveyID, err := s.CreateSurvey(ctx, sampleSurvey())
	require.NoError(t, err)
	before, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)

	questions := count(t, db, `SELECT COUNT(*) FROM question`)
	options := count(t, db, `SELECT COUNT(*) FROM option`)

	require.NoError(t, s.UpdateSurvey(ctx, surveyID, before))

	after, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)

	assert.Equal(t, before, after, "reconciling an unchanged snapshot is a no-op")
	assert.Equal(t, questions, count(t, db, `SELECT COUNT(*) FROM question`))
	assert.Equal(t, options, count(t, db, `SELECT COUNT(*) FROM option`))
}

func TestUpdateSurveyPreservesIdentifiers(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	surveyID, err := s.CreateSurvey(ctx, sampleSurvey())
	require.NoError(t, err)
	before, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)

	incoming := *before
	incoming.TitleEN = "Customer Satisfaction Survey v2"
	incoming.Revision = "2.0"
	incoming.Questions[0].TextEN = "How satisfied are you overall?"
	incoming.Questions[1].Options[0].TextEN = "Definitely"

	require.NoError(t, s.UpdateSurvey(ctx, surveyID, &incoming))

	after, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)

	assert.Equal(t, "Customer Satisfaction Survey v2", after.TitleEN)
	assert.Equal(t, "2.0", after.Revision)
	assert.Equal(t, "How satisfied are you overall?", after.Questions[0].TextEN)
	assert.Equal(t, "Definitely", after.Questions[1].Options[0].TextEN)

	for i := range before.Questions {
		assert.Equal(t, questionID(t, before, i), questionID(t, after, i),
			"question %d keeps its identifier across edits", i)
	}
	for i := range before.Questions[1].Options {
		assert.Equal(t,
			optionID(t, &before.Questions[1], i),
			optionID(t, &after.Questions[1], i),
			"option %d keeps its identifier across edits", i)
	}
}

// The scenario pinning the whole engine: from [A(CHOICE, [o1,o2]), B(TEXT)],
// the edit keeps A with [o1, new o3] and replaces B with a new RATE question.
func TestUpdateSurveyMixedScenario(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	surveyID, err := s.CreateSurvey(ctx, &model.Survey{
		TitleTR: "Anket",
		TitleEN: "Survey",
		Type:    model.Satisfaction,
		Questions: []model.Question{
			{
				Type: model.Choice, TextTR: "Teslimat?", TextEN: "Delivery?",
				Required: true, Order: 1,
				Options: []model.Option{
					{TextTR: "Hızlı", TextEN: "Fast"},
					{TextTR: "Yavaş", TextEN: "Slow"},
				},
			},
			{
				Type: model.Text, TextTR: "Yorumlar", TextEN: "Comments",
				Required: true, Order: 2,
			},
		},
	})
	require.NoError(t, err)

	before, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)
	aID := questionID(t, before, 0)
	bID := questionID(t, before, 1)
	o1ID := optionID(t, &before.Questions[0], 0)
	o2ID := optionID(t, &before.Questions[0], 1)

	// a respondent answered both questions before the edit
	_, err = s.SubmitResponse(ctx, surveyID, sampleCustomer(), model.English,
		map[int64]string{aID: "Fast", bID: "all good"})
	require.NoError(t, err)

	incoming := &model.Survey{
		TitleTR: "Anket",
		TitleEN: "Survey",
		Type:    model.Satisfaction,
		Questions: []model.Question{
			{
				ID:   model.ExistingRef(aID),
				Type: model.Choice, TextTR: "Teslimat?", TextEN: "Delivery?",
				Required: true, Order: 1,
				Options: []model.Option{
					{ID: model.ExistingRef(o1ID), TextTR: "Hızlı", TextEN: "Fast"},
					{TextTR: "Normal", TextEN: "Normal"},
				},
			},
			{
				Type: model.Rate, TextTR: "Puan", TextEN: "Rating",
				Required: true, Order: 2,
			},
		},
	}
	require.NoError(t, s.UpdateSurvey(ctx, surveyID, incoming))

	after, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)
	require.Len(t, after.Questions, 2)

	// A kept its identifier, B is gone, C is new
	assert.Equal(t, aID, questionID(t, after, 0))
	cID := questionID(t, after, 1)
	assert.NotEqual(t, bID, cID)
	assert.Equal(t, model.Rate, after.Questions[1].Type)
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM question WHERE id = ?`, bID))

	// o1 kept its identifier, o2 is gone, o3 was created under A
	require.Len(t, after.Questions[0].Options, 2)
	assert.Equal(t, o1ID, optionID(t, &after.Questions[0], 0))
	o3ID := optionID(t, &after.Questions[0], 1)
	assert.NotEqual(t, o2ID, o3ID)
	assert.Equal(t, "Normal", after.Questions[0].Options[1].TextEN)
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM option WHERE id = ?`, o2ID))

	// B's answers went with it, A's answer survived
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM answer WHERE question_id = ?`, bID))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM answer WHERE question_id = ?`, aID))
}

func TestUpdateSurveyReorderSwap(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	surveyID, err := s.CreateSurvey(ctx, sampleSurvey())
	require.NoError(t, err)
	survey, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)

	firstID := questionID(t, survey, 0)
	secondID := questionID(t, survey, 1)
	survey.Questions[0].Order = 2
	survey.Questions[1].Order = 1

	require.NoError(t, s.UpdateSurvey(ctx, surveyID, survey))

	after, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)
	assert.Equal(t, secondID, questionID(t, after, 0))
	assert.Equal(t, firstID, questionID(t, after, 1))
}

func TestUpdateSurveyTypeChangePrunesOptions(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	surveyID, err := s.CreateSurvey(ctx, sampleSurvey())
	require.NoError(t, err)
	survey, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)

	choiceID := questionID(t, survey, 1)
	survey.Questions[1].Type = model.Text
	survey.Questions[1].Options = nil

	require.NoError(t, s.UpdateSurvey(ctx, surveyID, survey))

	after, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)
	assert.Equal(t, choiceID, questionID(t, after, 1))
	assert.Equal(t, model.Text, after.Questions[1].Type)
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM option WHERE question_id = ?`, choiceID))
}

func TestUpdateSurveyDuplicateOrderRejected(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	surveyID, err := s.CreateSurvey(ctx, sampleSurvey())
	require.NoError(t, err)
	survey, err := s.GetSurvey(ctx, surveyID)
	require.NoError(t, err)

	survey.Questions[1].Order = survey.Questions[0].Order

	err = s.UpdateSurvey(ctx, surveyID, survey)
	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)
}

func TestUpdateSurveyNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	survey := sampleSurvey()
	survey.Renumber()
	err := s.UpdateSurvey(context.Background(), 999, survey)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "survey", notFound.Entity)
}

func TestUpdateSurveyRejectsForeignQuestion(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	firstID, err := s.CreateSurvey(ctx, sampleSurvey())
	require.NoError(t, err)
	secondID, err := s.CreateSurvey(ctx, sampleSurvey())
	require.NoError(t, err)

	other, err := s.GetSurvey(ctx, secondID)
	require.NoError(t, err)
	stolen := questionID(t, other, 0)

	incoming := sampleSurvey()
	incoming.Questions[0].ID = model.ExistingRef(stolen)

	err = s.UpdateSurvey(ctx, firstID, incoming)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "question", notFound.Entity)

	// the aborted edit left the other survey untouched
	assert.Equal(t, 1, count(t, db,
		`SELECT COUNT(*) FROM question WHERE id = ? AND survey_id = ?`, stolen, secondID))
}

func TestDeleteSurveyCascades(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	surveyID, err := s.CreateSurvey(ctx, sampleSurvey())
	require.NoError(t, err)
	_, err = s.SubmitResponse(ctx, surveyID, sampleCustomer(), model.Turkish, answersFor(t, s, surveyID))
	require.NoError(t, err)

	require.NoError(t, s.DeleteSurvey(ctx, surveyID))

	for _, table := range []string{"survey", "question", "option", "response", "answer"} {
		assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM `+table), "%s not emptied", table)
	}

	err = s.DeleteSurvey(ctx, surveyID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
