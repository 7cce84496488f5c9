package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/config"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AmqpNotifier публикует уведомления в topic exchange платформы.
// Доставка до пользователя - ответственность сервиса уведомлений
type AmqpNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   out.LoggerPort
}

type notificationMessage struct {
	UserID  string                 `json:"userId"`
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	SentAt  time.Time              `json:"sentAt"`
}

func NewAmqpNotifier(cfg *config.Config, logger out.LoggerPort) (*AmqpNotifier, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, notifier will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.AmqpURI)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.AmqpURI,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	if err := channel.ExchangeDeclare(
		cfg.RabbitMQ.NotificationExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		channel.Close()
		conn.Close()
		logger.Error("rabbitmq.exchange.declare_failed", out.LogFields{
			"error":    err.Error(),
			"exchange": cfg.RabbitMQ.NotificationExchange,
		})
		return nil, err
	}

	return &AmqpNotifier{
		conn:     conn,
		channel:  channel,
		exchange: cfg.RabbitMQ.NotificationExchange,
		logger:   logger,
	}, nil
}

func (n *AmqpNotifier) Notify(ctx context.Context, userID uuid.UUID, event out.NotificationEvent, payload map[string]interface{}) error {
	body, err := json.Marshal(notificationMessage{
		UserID:  userID.String(),
		Event:   string(event),
		Payload: payload,
		SentAt:  time.Now(),
	})
	if err != nil {
		return err
	}

	err = n.channel.PublishWithContext(ctx,
		n.exchange,
		string(event), // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		n.logger.Error("notifier.publish.failed", out.LogFields{
			"userId": userID,
			"event":  event,
			"error":  err.Error(),
		})
		return err
	}

	n.logger.Debug("notifier.publish.success", out.LogFields{
		"userId": userID,
		"event":  event,
	})

	return nil
}

func (n *AmqpNotifier) Close() error {
	if n == nil || n.channel == nil {
		return nil
	}

	if err := n.channel.Close(); err != nil {
		return err
	}
	return n.conn.Close()
}
