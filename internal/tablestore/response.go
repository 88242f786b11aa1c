package tablestore

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Response is the raw reply to an insert request.
type Response struct {
	Body       []byte
	StatusCode int
}

// APIError is the error object the REST API returns on rejection.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// envelope mirrors the {data, error} result shape of the store's client SDKs.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error json.RawMessage `json:"error"`
}

var jsonNull = json.RawMessage("null")

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Envelope shapes the reply into {"data": ..., "error": ...}.
//
// A 2xx reply puts the body under data with a null error; an empty 2xx body
// becomes null data. A non-2xx reply with a JSON object body puts that object
// under error; any other non-2xx body becomes {"message": <body text>}. A 2xx
// body that is not JSON is returned as-is since it has no recognizable shape.
func (r *Response) Envelope() json.RawMessage {
	body := bytes.TrimSpace(r.Body)

	if r.OK() {
		data := jsonNull
		if len(body) > 0 {
			if !json.Valid(body) {
				return json.RawMessage(r.Body)
			}
			data = json.RawMessage(body)
		}

		return mustMarshal(envelope{Data: data, Error: jsonNull})
	}

	if len(body) > 0 && body[0] == '{' && json.Valid(body) {
		return mustMarshal(envelope{Data: jsonNull, Error: json.RawMessage(body)})
	}

	msg := string(body)
	if msg == "" {
		msg = http.StatusText(r.StatusCode)
	}

	apiErr, _ := json.Marshal(APIError{Message: msg})

	return mustMarshal(envelope{Data: jsonNull, Error: apiErr})
}

func mustMarshal(e envelope) json.RawMessage {
	out, err := json.Marshal(e)
	if err != nil {
		// Both members are validated JSON; this cannot happen.
		panic(err)
	}

	return out
}
