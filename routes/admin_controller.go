package routes

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/anket-platform/anket/app"
	"github.com/anket-platform/anket/httpx"
	"github.com/anket-platform/anket/log"
	"github.com/anket-platform/anket/model"
)

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey := model.Survey{}
		err := render.DecodeJSON(r.Body, &survey)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		surveyId, err := app.CreateSurvey(r.Context(), &survey)
		if err != nil {
			httpx.LogStoreError(w, r, "create_survey", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": surveyId,
		})
	}
}

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveys, err := app.ListSurveys(r.Context())
		if err != nil {
			httpx.LogStoreError(w, r, "get_surveys", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func GetSurveyById(app app.App) http.HandlerFunc {
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

func UpdateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		survey := model.Survey{}
		err = render.DecodeJSON(r.Body, &survey)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		err = app.UpdateSurvey(r.Context(), surveyId, &survey)
		if err != nil {
			httpx.LogStoreError(w, r, "update_survey", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		err = app.DeleteSurvey(r.Context(), surveyId)
		if err != nil {
			httpx.LogStoreError(w, r, "delete_survey", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GetSurveyResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		responses, err := app.ListResponses(r.Context(), surveyId)
		if err != nil {
			httpx.LogStoreError(w, r, "get_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": responses,
		})
	}
}

// ExportSurveyResponses streams the survey's responses as CSV, one row per
// response, question texts as column headers in the requested language
// (?lang=tr|en, default tr).
func ExportSurveyResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		lang := model.Language(r.URL.Query().Get("lang"))
		if !lang.Valid() {
			lang = model.Turkish
		}

		survey, err := app.GetSurvey(r.Context(), surveyId)
		if err != nil {
			httpx.LogStoreError(w, r, "export_responses.survey", err)
			return
		}
		responses, err := app.ListResponses(r.Context(), surveyId)
		if err != nil {
			httpx.LogStoreError(w, r, "export_responses", err)
			return
		}

		w.Header().Set("content-type", "text/csv; charset=utf-8")
		w.Header().Set("content-disposition",
			fmt.Sprintf(`attachment; filename="survey-%d-responses.csv"`, surveyId))

		out := csv.NewWriter(w)
		header := []string{"Time", "Full Name", "Email", "Phone", "Company", "Language"}
		for i := range survey.Questions {
			header = append(header, survey.Questions[i].Text(lang))
		}
		if err := out.Write(header); err != nil {
			log.Errorf("export_responses.write_header: %s", err)
			return
		}

		for _, resp := range responses {
			byQuestion := map[int64]string{}
			for _, a := range resp.Answers {
				byQuestion[a.QuestionID] = a.Value
			}

			row := []string{
				resp.Time.Format("2006/01/02 15:04:05"),
				resp.CustomerInfo.FullName,
				resp.CustomerInfo.Email,
				resp.CustomerInfo.Phone,
				resp.CustomerInfo.CompanyName,
				string(resp.Language),
			}
			for i := range survey.Questions {
				qid, _ := survey.Questions[i].ID.Existing()
				row = append(row, byQuestion[qid])
			}
			if err := out.Write(row); err != nil {
				log.Errorf("export_responses.write_row: %s", err)
				return
			}
		}
		out.Flush()
		if err := out.Error(); err != nil {
			log.Errorf("export_responses.flush: %s", err)
		}
	}
}

func DeleteResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responseId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		err = app.DeleteResponse(r.Context(), responseId)
		if err != nil {
			httpx.LogStoreError(w, r, "delete_response", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
