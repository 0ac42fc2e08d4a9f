package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/workersdeploy/lib/mycontext"
	"github.com/MarcGrol/workersdeploy/lib/myevents"
	"github.com/MarcGrol/workersdeploy/lib/myhttp"
	"github.com/MarcGrol/workersdeploy/lib/mylog"
	"github.com/MarcGrol/workersdeploy/lib/mypubsub"
	"github.com/MarcGrol/workersdeploy/lib/myqueue"
	"github.com/MarcGrol/workersdeploy/lib/mystore"
	"github.com/MarcGrol/workersdeploy/lib/mytime"
)

const triggerDelay = 2 * time.Second

// TransactionalPublisher stores events in an outbox first and has a queued task move them to pubsub.
type TransactionalPublisher struct {
	outbox    mystore.Store[myevents.EventEnvelope]
	queue     myqueue.TaskQueuer
	pubsub    mypubsub.PubSub
	enveloper enveloper
	logger    mylog.Logger
	// inline publishes during Publish instead of waiting for the queued trigger
	inline bool
}

func New(c context.Context, pubsub mypubsub.PubSub, queue myqueue.TaskQueuer, nower mytime.Nower) (*TransactionalPublisher, func(), error) {
	outbox, outboxCleanup, err := mystore.New[myevents.EventEnvelope](c)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating outbox: %s", err)
	}

	p := NewWithOutbox(outbox, pubsub, queue, nower)
	// off GCP the fake queue never calls the trigger endpoint back
	p.inline = os.Getenv("GOOGLE_CLOUD_PROJECT") == ""

	return p, outboxCleanup, nil
}

func NewWithOutbox(outbox mystore.Store[myevents.EventEnvelope], pubsub mypubsub.PubSub, queue myqueue.TaskQueuer, nower mytime.Nower) *TransactionalPublisher {
	return &TransactionalPublisher{
		outbox:    outbox,
		queue:     queue,
		pubsub:    pubsub,
		enveloper: newEnveloper(nower),
		logger:    mylog.New("publisher"),
	}
}

func (p *TransactionalPublisher) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/tasks/outbox/{uid}", p.processTriggerPage()).Methods("PUT")
}

func (p *TransactionalPublisher) CreateTopic(c context.Context, topicName string) error {
	return p.pubsub.CreateTopic(c, topicName)
}

func (p *TransactionalPublisher) Publish(c context.Context, topic string, event myevents.Event) error {
	envelope, err := p.enveloper.do(topic, event)
	if err != nil {
		return fmt.Errorf("error creating envelope: %s", err)
	}

	err = p.outbox.Put(c, envelope.UID, envelope)
	if err != nil {
		return fmt.Errorf("error storing envelope: %s", err)
	}

	if p.inline {
		_, err = p.Flush(c)
		if err != nil {
			return fmt.Errorf("error publishing %s: %s", envelope.UID, err)
		}
		p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Published event %s", envelope)
		return nil
	}

	err = p.queue.Enqueue(c, myqueue.Task{
		UID:            envelope.UID,
		WebhookURLPath: fmt.Sprintf("/tasks/outbox/%s", envelope.UID),
		Delay:          triggerDelay,
	})
	if err != nil {
		return fmt.Errorf("error queueing publication-trigger %s: %s", envelope.UID, err)
	}

	p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Stored event %s", envelope)

	return nil
}

func (p *TransactionalPublisher) processTriggerPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(p.logger)

		count, err := p.Flush(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Published %d events (trigger %s)", count, mux.Vars(r)["uid"]),
		})
	}
}

// Flush publishes every envelope that has not been published yet, oldest first, and removes it from the outbox.
func (p *TransactionalPublisher) Flush(c context.Context) (int, error) {
	count := 0
	err := p.outbox.RunInTransaction(c, func(c context.Context) error {
		count = 0

		envelopes, err := p.outbox.Query(c, []mystore.Filter{{Field: "Published", Compare: "=", Value: false}}, "CreatedAt")
		if err != nil {
			return fmt.Errorf("error fetching unpublished envelopes: %s", err)
		}

		for _, envelope := range envelopes {
			jsonBytes, err := json.Marshal(envelope)
			if err != nil {
				return fmt.Errorf("error serializing envelope: %s", err)
			}

			err = p.pubsub.Publish(c, envelope.Topic, string(jsonBytes))
			if err != nil {
				return fmt.Errorf("error publishing envelope %s: %s", envelope.UID, err)
			}

			err = p.outbox.Delete(c, envelope.UID)
			if err != nil {
				return fmt.Errorf("error removing published envelope %s: %s", envelope.UID, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}
