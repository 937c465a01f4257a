package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/floresvictoria/shopbackend/lib/myevents"
	"github.com/floresvictoria/shopbackend/lib/mypubsub"
	"github.com/floresvictoria/shopbackend/lib/mytime"
	"github.com/floresvictoria/shopbackend/lib/myuuid"
)

type publisher struct {
	pubsub    mypubsub.PubSub
	enveloper enveloper
}

// New publishes directly; there is no outbox, so an event can be lost when
// pubsub is down after the state change was written.
func New(pubsub mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer) *publisher {
	return &publisher{
		pubsub:    pubsub,
		enveloper: newEnveloper(nower, uuider),
	}
}

func (p *publisher) CreateTopic(c context.Context, topicName string) error {
	return p.pubsub.CreateTopic(c, topicName)
}

func (p *publisher) Publish(c context.Context, topic string, event myevents.Event) error {
	envelope, err := p.enveloper.do(topic, event)
	if err != nil {
		return fmt.Errorf("error creating envelope: %s", err)
	}

	jsonBytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("error serializing envelope %s: %s", envelope, err)
	}

	err = p.pubsub.Publish(c, envelope.Topic, string(jsonBytes))
	if err != nil {
		return fmt.Errorf("error publishing envelope %s: %s", envelope, err)
	}

	return nil
}
