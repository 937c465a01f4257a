package mypublisher

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/floresvictoria/shopbackend/lib/mypubsub"
	"github.com/floresvictoria/shopbackend/lib/mytime"
	"github.com/floresvictoria/shopbackend/lib/myuuid"
)

type flowerOrdered struct {
	FlowerUID string
}

func (e flowerOrdered) GetEventTypeName() string { return "flower.ordered" }
func (e flowerOrdered) GetAggregateName() string { return e.FlowerUID }

func TestPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := context.TODO()
	pubsub := mypubsub.NewMockPubSub(ctrl)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	sut := New(pubsub, nower, uuider)

	t.Run("Publish envelope", func(t *testing.T) {
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		uuider.EXPECT().Create().Return("event-1")
		pubsub.EXPECT().Publish(c, "flowers", `{"uid":"event-1","createdAt":"2023-02-27T23:58:59Z","topic":"flowers","aggregateUid":"rose","eventTypeName":"flower.ordered","eventPayload":"{\"FlowerUID\":\"rose\"}"}`).Return(nil)

		err := sut.Publish(c, "flowers", flowerOrdered{FlowerUID: "rose"})
		assert.NoError(t, err)
	})

	t.Run("Publish fails", func(t *testing.T) {
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		uuider.EXPECT().Create().Return("event-2")
		pubsub.EXPECT().Publish(c, "flowers", gomock.Any()).Return(fmt.Errorf("deadline exceeded"))

		err := sut.Publish(c, "flowers", flowerOrdered{FlowerUID: "rose"})
		assert.Error(t, err)
	})
}
