package model

import (
	"encoding/json"
	"time"
)

type SurveyType string

const (
	Satisfaction SurveyType = "SATISFACTION"
	Surveillance SurveyType = "SURVEILLANCE"
)

func (t SurveyType) Valid() bool {
	return t == Satisfaction || t == Surveillance
}

type QuestionType string

const (
	Rate   QuestionType = "RATE"
	Choice QuestionType = "CHOICE"
	Text   QuestionType = "TEXT"
	YesNo  QuestionType = "YES_NO"
)

func (t QuestionType) Valid() bool {
	switch t {
	case Rate, Choice, Text, YesNo:
		return true
	}
	return false
}

type Language string

const (
	Turkish Language = "tr"
	English Language = "en"
)

func (l Language) Valid() bool {
	return l == Turkish || l == English
}

// Ref identifies a persisted row, or marks a node as not yet persisted.
// The zero value means "new". On the wire an absent or null id means "new",
// a number means "existing" - that convention is what the reconciliation
// engine keys its create/update decision on.
type Ref struct {
	id int64
	ok bool
}

func ExistingRef(id int64) Ref {
	return Ref{id: id, ok: true}
}

func (r Ref) Existing() (int64, bool) {
	return r.id, r.ok
}

func (r Ref) IsNew() bool {
	return !r.ok
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if !r.ok {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ref{}
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*r = Ref{id: id, ok: true}
	return nil
}

type Survey struct {
	ID        int64      `json:"id,omitempty"`
	TitleTR   string     `json:"titleTR"`
	TitleEN   string     `json:"titleEN"`
	Type      SurveyType `json:"type"`
	Revision  string     `json:"revision,omitempty"`
	Questions []Question `json:"questions"`

	// Only populated by listings.
	QuestionCount int `json:"questionCount,omitempty"`
	ResponseCount int `json:"responseCount,omitempty"`
}

func (s *Survey) Title(lang Language) string {
	if lang == English {
		return s.TitleEN
	}
	return s.TitleTR
}

type Question struct {
	ID            Ref          `json:"id"`
	Type          QuestionType `json:"type"`
	TextTR        string       `json:"textTR"`
	TextEN        string       `json:"textEN"`
	DescriptionTR string       `json:"descriptionTR,omitempty"`
	DescriptionEN string       `json:"descriptionEN,omitempty"`
	Required      bool         `json:"required"`
	Order         int          `json:"order"`
	Options       []Option     `json:"options"`
}

func (q *Question) Text(lang Language) string {
	if lang == English {
		return q.TextEN
	}
	return q.TextTR
}

type Option struct {
	ID     Ref    `json:"id"`
	TextTR string `json:"textTR"`
	TextEN string `json:"textEN"`
}

func (o *Option) Text(lang Language) string {
	if lang == English {
		return o.TextEN
	}
	return o.TextTR
}

type CustomerInfo struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"required"`
	CompanyName string `json:"companyName" validate:"required"`
	Country     string `json:"country,omitempty"`
	Address     string `json:"address,omitempty"`
}

type Response struct {
	ID           int64        `json:"id"`
	SurveyID     int64        `json:"surveyId"`
	CustomerInfo CustomerInfo `json:"customerInfo"`
	Language     Language     `json:"language"`
	Time         time.Time    `json:"time"`
	Answers      []Answer     `json:"answers"`
}

type Answer struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"questionId"`
	Value      string `json:"value"`
}
