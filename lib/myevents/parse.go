package myevents

import (
	"encoding/json"
	"fmt"
	"io"
)

// pushRequest is the body Cloud Pub/Sub posts to a push subscription.
type pushRequest struct {
	Message struct {
		Data []byte `json:"data"`
		ID   string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// ParseEventEnvelope extracts the envelope from a Pub/Sub push request.
func ParseEventEnvelope(reader io.Reader) (EventEnvelope, error) {
	req := pushRequest{}
	err := json.NewDecoder(reader).Decode(&req)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing push request: %s", err)
	}

	envelope := EventEnvelope{}
	err = json.Unmarshal(req.Message.Data, &envelope)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing event envelope of message %s: %s", req.Message.ID, err)
	}
	return envelope, nil
}
