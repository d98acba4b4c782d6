package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Conveyor/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeDeployRequested MessageType = "deploy.requested"
	MessageTypeDeployCompleted MessageType = "deploy.completed"
)

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// DeployRequestedPayload — payload события о запрошенном deploy.
// Сам Deploy к этому моменту уже сохранён в БД, в очереди — только ID.
type DeployRequestedPayload struct {
	DeployID uuid.UUID `json:"deploy_id"`
}

// DeployCompletedPayload — payload события о завершённом deploy.
type DeployCompletedPayload struct {
	DeployID    uuid.UUID           `json:"deploy_id"`
	ServiceName string              `json:"service_name"`
	Status      domain.DeployStatus `json:"status"`
	Error       string              `json:"error,omitempty"`
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),
			string(routingKey),
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishDeployRequested публикует событие о новом deploy.
// Потребитель: агент.
func (p *Publisher) PublishDeployRequested(ctx context.Context, deployID uuid.UUID) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeDeployRequested,
		Payload:   DeployRequestedPayload{DeployID: deployID},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeDeploys, RoutingKeyRequested, msg)
}

// PublishDeployCompleted публикует событие о завершённом deploy.
// Потребители: CI и внешние наблюдатели.
func (p *Publisher) PublishDeployCompleted(ctx context.Context, payload DeployCompletedPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeDeployCompleted,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeDeploys, RoutingKeyCompleted, msg)
}
