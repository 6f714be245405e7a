package orders

import (
	"github.com/paybridge/paybridge/lib/mylog"
	"github.com/paybridge/paybridge/lib/mypublisher"
	"github.com/paybridge/paybridge/lib/mypubsub"
	"github.com/paybridge/paybridge/lib/mystore"
	"github.com/paybridge/paybridge/lib/mytime"
	"github.com/paybridge/paybridge/lib/myuuid"
	"github.com/paybridge/paybridge/services/gateway"
	"github.com/paybridge/paybridge/services/orderapi"
)

type service struct {
	orderStore mystore.Store[orderapi.Order]
	publisher  mypublisher.Publisher
	subscriber mypubsub.PubSub
	nower      mytime.Nower
	uuider     myuuid.UUIDer
	logger     mylog.Logger
	renderer   gateway.StatusRenderer
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store mystore.Store[orderapi.Order], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, subscriber mypubsub.PubSub, pub mypublisher.Publisher, renderer gateway.StatusRenderer) *service {
	return &service{
		orderStore: store,
		publisher:  pub,
		subscriber: subscriber,
		nower:      nower,
		uuider:     uuider,
		logger:     logger,
		renderer:   renderer,
	}
}
