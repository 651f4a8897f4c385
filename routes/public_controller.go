package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/anket-platform/anket/app"
	"github.com/anket-platform/anket/httpx"
	"github.com/anket-platform/anket/log"
	"github.com/anket-platform/anket/model"
)

// PublicGetSurveyById serves the respondent UI the full bilingual tree,
// questions in render order; the client picks the display language.
func PublicGetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		survey, err := app.GetSurvey(r.Context(), surveyId)
		if err != nil {
			httpx.LogStoreError(w, r, "get_survey", err)
			return
		}

		render.JSON(w, r, survey)
	}
}

type submissionRequest struct {
	CustomerInfo model.CustomerInfo `json:"customerInfo"`
	Language     model.Language     `json:"language"`
	Answers      map[int64]string   `json:"answers"`
}

func PublicSubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		submission := submissionRequest{}
		err = render.DecodeJSON(r.Body, &submission)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		responseId, err := app.SubmitResponse(
			r.Context(),
			surveyId,
			submission.CustomerInfo,
			submission.Language,
			submission.Answers,
		)
		if err != nil {
			httpx.LogStoreError(w, r, "submit_response", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": responseId,
		})
	}
}
