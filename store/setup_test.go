package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anket-platform/anket/database"
	"github.com/anket-platform/anket/model"
)

// newTestStore opens a private in-memory database with the real migrations
// applied. The db name is keyed on the test name so parallel tests never
// share state.
func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, database.MigrateDB(db))

	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func count(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

func questionID(t *testing.T, s *model.Survey, i int) int64 {
	t.Helper()
	id, ok := s.Questions[i].ID.Existing()
	require.True(t, ok, "question %d should be persisted", i)
	return id
}

func optionID(t *testing.T, q *model.Question, i int) int64 {
	t.Helper()
	id, ok := q.Options[i].ID.Existing()
	require.True(t, ok, "option %d should be persisted", i)
	return id
}

// sampleSurvey mirrors the satisfaction survey the platform ships with.
func sampleSurvey() *model.Survey {
	return &model.Survey{
		TitleTR: "Müşteri Memnuniyet Anketi",
		TitleEN: "Customer Satisfaction Survey",
		Type:    model.Satisfaction,
		Questions: []model.Question{
			{
				Type:          model.Rate,
				TextTR:        "Genel olarak hizmetimizden ne kadar memnunsunuz?",
				TextEN:        "Overall, how satisfied are you with our service?",
				DescriptionTR: "1 (Hiç Memnun Değilim) - 5 (Çok Memnunum)",
				DescriptionEN: "1 (Very Dissatisfied) - 5 (Very Satisfied)",
				Required:      true,
				Order:         1,
			},
			{
				Type:     model.Choice,
				TextTR:   "Bizi başkalarına tavsiye eder misiniz?",
				TextEN:   "Would you recommend us to others?",
				Required: true,
				Order:    2,
				Options: []model.Option{
					{TextTR: "Evet", TextEN: "Yes"},
					{TextTR: "Hayır", TextEN: "No"},
					{TextTR: "Belki", TextEN: "Maybe"},
				},
			},
			{
				Type:     model.Text,
				TextTR:   "Hizmetimizi geliştirmek için önerileriniz nelerdir?",
				TextEN:   "What suggestions do you have to improve our service?",
				Required: false,
				Order:    3,
			},
		},
	}
}

// answersFor builds a Turkish-language answer map satisfying every required
// question of the given survey.
func answersFor(t *testing.T, s *Store, surveyID int64) map[int64]string {
	t.Helper()

	survey, err := s.GetSurvey(context.Background(), surveyID)
	require.NoError(t, err)

	answers := map[int64]string{}
	for i := range survey.Questions {
		q := &survey.Questions[i]
		if !q.Required {
			continue
		}
		qid, ok := q.ID.Existing()
		require.True(t, ok)
		switch q.Type {
		case model.Rate:
			answers[qid] = "5"
		case model.Choice:
			answers[qid] = q.Options[0].TextTR
		case model.Text:
			answers[qid] = "Teşekkürler"
		case model.YesNo:
			answers[qid] = "Yes"
		}
	}
	return answers
}

func sampleCustomer() model.CustomerInfo {
	return model.CustomerInfo{
		FullName:    "Ayşe Yılmaz",
		Email:       "ayse@example.com",
		Phone:       "+90 555 000 0000",
		CompanyName: "Yılmaz Ltd.",
		Country:     "Türkiye",
	}
}
