// Package orderfeed carries order change notifications from the write path
// to live subscribers. Events travel over a Kafka topic so trackers keep
// working across service instances.
package orderfeed

import (
	"context"
	"encoding/json"
	"log"

	"github.com/m2-berezin/safedine-app/entities"
	"github.com/segmentio/kafka-go"
)

type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

type Event struct {
	Kind  EventKind      `json:"kind"`
	Order entities.Order `json:"order"`
}

type (
	Publisher interface {
		Publish(ctx context.Context, event Event) error
	}

	kafkaPublisher struct {
		writer *kafka.Writer
	}
)

func NewKafkaPublisher(writer *kafka.Writer) Publisher {
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Order.ID.String()),
		Value: payload,
	})
}

// NopPublisher drops events. Used when no broker is configured and in
// tests that do not care about the feed.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }

// Consumer reads order events off the topic and hands each one to the
// dispatch callback in arrival order.
type Consumer struct {
	reader   *kafka.Reader
	dispatch func(Event)
}

func NewConsumer(reader *kafka.Reader, dispatch func(Event)) *Consumer {
	return &Consumer{reader: reader, dispatch: dispatch}
}

func (c *Consumer) Start(ctx context.Context) {
	log.Println("Starting order feed consumer...")
	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Error reading order event: %v", err)
			continue
		}

		var event Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("Error unmarshaling order event: %v", err)
			continue
		}

		c.dispatch(event)
	}
}
