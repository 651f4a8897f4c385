package routes

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anket-platform/anket/app"
	"github.com/anket-platform/anket/database"
	"github.com/anket-platform/anket/model"
	"github.com/anket-platform/anket/ratelimit"
	"github.com/anket-platform/anket/store"
)

func newTestApp(t *testing.T) app.App {
	t.Helper()

	db, err := sql.Open("sqlite3", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, database.MigrateDB(db))
	t.Cleanup(func() { db.Close() })

	return app.App{
		Store:         store.New(db),
		DB:            db,
		SubmitLimiter: ratelimit.Unlimited{},
	}
}

func seedSurvey(t *testing.T, app app.App) (int64, *model.Survey) {
	t.Helper()

	surveyID, err := app.CreateSurvey(context.Background(), &model.Survey{
		TitleTR: "Müşteri Memnuniyet Anketi",
		TitleEN: "Customer Satisfaction Survey",
		Type:    model.Satisfaction,
		Questions: []model.Question{
			{
				Type: model.Rate, TextTR: "Memnuniyet?", TextEN: "Satisfaction?",
				Required: true, Order: 1,
			},
			{
				Type: model.Choice, TextTR: "Tavsiye eder misiniz?", TextEN: "Would you recommend us?",
				Required: true, Order: 2,
				Options: []model.Option{
					{TextTR: "Evet", TextEN: "Yes"},
					{TextTR: "Hayır", TextEN: "No"},
				},
			},
		},
	})
	require.NoError(t, err)

	survey, err := app.GetSurvey(context.Background(), surveyID)
	require.NoError(t, err)
	return surveyID, survey
}

func mustID(t *testing.T, ref model.Ref) int64 {
	t.Helper()
	id, ok := ref.Existing()
	require.True(t, ok)
	return id
}
