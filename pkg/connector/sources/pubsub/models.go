package pubsub

import (
	"time"
)

// Subscription is a Pub/Sub subscription in the configured project
type Subscription struct {
	Name                     string            `json:"name"`
	ID                       string            `json:"id"`
	Topic                    string            `json:"topic"`
	AckDeadlineSeconds       int64             `json:"ackDeadlineSeconds"`
	Filter                   string            `json:"filter,omitempty"`
	MessageRetentionDuration string            `json:"messageRetentionDuration,omitempty"`
	EnableMessageOrdering    bool              `json:"enableMessageOrdering"`
	State                    string            `json:"state,omitempty"`
	Labels                   map[string]string `json:"labels,omitempty"`
}

func (s *Subscription) EntityID() string { return s.Name }

// Topic is a Pub/Sub topic in the configured project
type Topic struct {
	Name                     string            `json:"name"`
	ID                       string            `json:"id"`
	KmsKeyName               string            `json:"kmsKeyName,omitempty"`
	MessageRetentionDuration string            `json:"messageRetentionDuration,omitempty"`
	State                    string            `json:"state,omitempty"`
	Labels                   map[string]string `json:"labels,omitempty"`
}

func (t *Topic) EntityID() string { return t.Name }

// Message is a pulled message. AckID is what Acknowledge expects.
type Message struct {
	ID              string            `json:"messageId"`
	AckID           string            `json:"ackId"`
	Subscription    string            `json:"subscription"`
	Data            []byte            `json:"data"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	OrderingKey     string            `json:"orderingKey,omitempty"`
	PublishTime     time.Time         `json:"publishTime"`
	DeliveryAttempt int64             `json:"deliveryAttempt,omitempty"`
}

func (m *Message) EntityID() string { return m.ID }
