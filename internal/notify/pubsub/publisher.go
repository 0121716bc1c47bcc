// Package pubsub publishes run summaries to a Google Cloud Pub/Sub topic.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"

	"github.com/zperzan/scrape-wunderground/internal/notify"
)

// Publisher wraps a Pub/Sub topic.
type Publisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// New dials a Pub/Sub client for the project and binds the topic.
func New(ctx context.Context, projectID, topicName string) (*Publisher, error) {
	if projectID == "" || topicName == "" {
		return nil, fmt.Errorf("pubsub project id and topic are required")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return &Publisher{
		client: client,
		topic:  client.Topic(topicName),
	}, nil
}

// Publish marshals the summary to JSON and publishes it, waiting for the
// server acknowledgement.
func (p *Publisher) Publish(ctx context.Context, summary notify.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"station": summary.Station,
			"mode":    string(summary.Mode),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish run summary: %w", err)
	}
	return nil
}

// Close stops the topic's publish goroutines and releases the client.
func (p *Publisher) Close() error {
	p.topic.Stop()
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}
