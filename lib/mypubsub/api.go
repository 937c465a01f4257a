package mypubsub

import (
	"context"
	"os"
)

//go:generate mockgen -source=api.go -package mypubsub -destination pubsub_mock.go PubSub
type PubSub interface {
	CreateTopic(c context.Context, topic string) error
	Publish(c context.Context, topic string, data string) error
}

// New uses Cloud Pub/Sub when running in a gcloud project, otherwise a fake that drops messages.
func New(c context.Context) (PubSub, func(), error) {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID != "" {
		return newGcloudPubSub(c, projectID)
	}
	return newFakePubSub(c)
}
