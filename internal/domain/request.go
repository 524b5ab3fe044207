package domain

import (
	"encoding/json"
	"fmt"
)

// Language is the questionnaire language. The knowledge bases are English;
// any other language requires the translation bridge before retrieval.
type Language string

const (
	LanguageEN Language = "en"
	LanguageHE Language = "he"
)

// AnswerKind discriminates the questionnaire answer union.
type AnswerKind int

const (
	AnswerText AnswerKind = iota
	AnswerBool
	AnswerList
)

// Answer holds a single questionnaire answer: free text, a boolean, or a
// list of strings.
type Answer struct {
	kind    AnswerKind
	text    string
	boolean bool
	list    []string
}

// TextAnswer creates a free-text answer.
func TextAnswer(text string) Answer { return Answer{kind: AnswerText, text: text} }

// BoolAnswer creates a yes/no answer.
func BoolAnswer(v bool) Answer { return Answer{kind: AnswerBool, boolean: v} }

// ListAnswer creates a multi-select answer.
func ListAnswer(items []string) Answer { return Answer{kind: AnswerList, list: items} }

// Kind returns the answer discriminator.
func (a Answer) Kind() AnswerKind { return a.kind }

// Text returns the free-text value (valid for AnswerText).
func (a Answer) Text() string { return a.text }

// Bool returns the boolean value (valid for AnswerBool).
func (a Answer) Bool() bool { return a.boolean }

// List returns the list value (valid for AnswerList).
func (a Answer) List() []string { return a.list }

// UnmarshalJSON accepts a JSON string, boolean, or array of strings.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = TextAnswer(s)
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*a = BoolAnswer(b)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = ListAnswer(list)
		return nil
	}

	return fmt.Errorf("answer must be a string, boolean, or array of strings")
}

// MarshalJSON emits the underlying value.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AnswerBool:
		return json.Marshal(a.boolean)
	case AnswerList:
		return json.Marshal(a.list)
	default:
		return json.Marshal(a.text)
	}
}

// QuestionAnswer is one questionnaire entry. The question text, not the
// answer, is what an affirmative answer contributes to the search query.
type QuestionAnswer struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	Answer       Answer `json:"answer"`
}

// DeepSearchRequest is the unit of work: one request produces one report and
// carries no state across requests.
type DeepSearchRequest struct {
	ModuleID       int                       `json:"module_id"`
	Questionnaire  map[string]QuestionAnswer `json:"questionnaire_data"`
	ChiefComplaint string                    `json:"chief_complaint,omitempty"`
	Language       Language                  `json:"language"`
}
