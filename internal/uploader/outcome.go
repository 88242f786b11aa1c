package uploader

import (
	"bytes"
	"encoding/json"
)

// Outcome classifies the store's reply to an insert.
type Outcome int

// Outcome values.
const (
	OutcomeUnrecognized Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unrecognized"
	}
}

// Classification is the interpreted form of a reply.
type Classification struct {
	Message string
	Outcome Outcome
}

// Classify inspects the "error" member of a reply object:
//   - present and null: success
//   - present and non-null: failure, with the message taken verbatim from
//     error.message, or from error itself when it is a string
//   - absent, or the reply is not an object: unrecognized
func Classify(raw json.RawMessage) Classification {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Classification{Outcome: OutcomeUnrecognized}
	}

	errField, ok := fields["error"]
	if !ok {
		return Classification{Outcome: OutcomeUnrecognized}
	}

	if bytes.Equal(bytes.TrimSpace(errField), []byte("null")) {
		return Classification{Outcome: OutcomeSuccess}
	}

	return Classification{Outcome: OutcomeFailure, Message: errorMessage(errField)}
}

func errorMessage(errField json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(errField, &asString); err == nil {
		return asString
	}

	var obj struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(errField, &obj); err == nil && obj.Message != nil {
		return *obj.Message
	}

	return string(errField)
}
