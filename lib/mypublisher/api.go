package mypublisher

import (
	"context"

	"github.com/paybridge/paybridge/lib/myevents"
)

//go:generate mockgen -source=api.go -package mypublisher -destination publisher_mock.go Publisher
type Publisher interface {
	CreateTopic(c context.Context, topic string) error
	Publish(c context.Context, topic string, event myevents.Event) error
}
