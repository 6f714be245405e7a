package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/paybridge/paybridge/lib/mypublisher"
	"github.com/paybridge/paybridge/lib/mypubsub"
	"github.com/paybridge/paybridge/lib/myqueue"
	"github.com/paybridge/paybridge/lib/mystore"
	"github.com/paybridge/paybridge/lib/mytime"
	"github.com/paybridge/paybridge/lib/myuuid"
	"github.com/paybridge/paybridge/services/checkoutstripe"
	"github.com/paybridge/paybridge/services/orderapi"
	"github.com/paybridge/paybridge/services/orders"
)

func main() {
	c := context.Background()

	router := mux.NewRouter()

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queue: %s", err)
	}
	defer queueCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	orderStore, orderStoreCleanup, err := mystore.New[orderapi.Order](c)
	if err != nil {
		log.Fatalf("Error creating order store: %s", err)
	}
	defer orderStoreCleanup()

	stripeGateway, err := checkoutstripe.NewWebService(checkoutstripe.Config{
		PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		SecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
	}, checkoutstripe.NewPayer(), nower, orderStore, publisher)
	if err != nil {
		log.Fatalf("Error creating stripe checkout service: %s", err)
	}
	err = stripeGateway.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering stripe checkout endpoints: %s", err)
	}

	orderService := orders.NewWebService(orderStore, nower, uuider, pubsub, publisher, stripeGateway)
	err = orderService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering order endpoints: %s", err)
	}

	startWebServerBlocking(router)
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
