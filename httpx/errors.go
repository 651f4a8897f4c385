package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/anket-platform/anket/log"
	"github.com/anket-platform/anket/store"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404 and default text
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	w.WriteHeader(http.StatusNotFound)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// LogStoreError maps the store error taxonomy onto HTTP statuses: not found
// to 404, validation failures to 422 with the offending question reference
// in the JSON body, anything else to a logged 500.
func LogStoreError(w http.ResponseWriter, r *http.Request, code string, err error) {
	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		LogNotFound(w, code, notFound.ID)
		return
	}

	var invalid *store.ValidationError
	if errors.As(err, &invalid) {
		log.Debugf("%s: %s", code, invalid)
		body := map[string]any{"error": invalid.Error()}
		if invalid.QuestionID != 0 {
			body["questionId"] = invalid.QuestionID
		}
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, body)
		return
	}

	LogInternalError(w, code, err)
}
