package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/config"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/in"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
	amqp "github.com/rabbitmq/amqp091-go"
)

type EventType string

const (
	// События настроек доступности - инвалидация кэша конфигурации
	EventTypeAvailabilityUpdated EventType = "availability.updated"
	EventTypeExceptionCreated    EventType = "exception.created"
	EventTypeExceptionDeleted    EventType = "exception.deleted"

	// Отмена сессии ментором запускает поиск замены
	EventTypeBookingCancelledByMentor EventType = "booking.cancelled_by_mentor"

	// Решения менти по переназначению
	EventTypeReplacementAccepted EventType = "booking.replacement_accepted"
	EventTypeReplacementRejected EventType = "booking.replacement_rejected"
	EventTypeMenteePickedMentor  EventType = "booking.mentee_picked_mentor"
	EventTypeCancelledByMentee   EventType = "booking.cancelled_by_mentee"
)

// Для событий решений менти MentorID - выбранный менти ментор,
// State - текущее состояние переназначения
type AvailabilityEventMessage struct {
	Type     EventType                `json:"type"`
	MentorID uuid.UUID                `json:"mentorId"`
	Booking  *domain.Booking          `json:"booking,omitempty"`
	State    domain.ReassignmentState `json:"state,omitempty"`
}

var errMalformedMessage = errors.New("malformed event message")

// shouldRequeue - стоит ли возвращать сообщение в очередь.
// Невалидный JSON и недопустимый переход не чинятся повторной доставкой,
// такое сообщение зациклит консьюмер
func shouldRequeue(err error) bool {
	var transitionErr *domain.ErrInvalidTransition
	return !errors.Is(err, errMalformedMessage) && !errors.As(err, &transitionErr)
}

// AvailabilityListener слушает события платформы: изменения настроек
// доступности инвалидируют кэш, отмена ментором запускает переназначение
type AvailabilityListener struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	cachePort    out.CachePort
	reassignment in.ReassignmentUseCase
	cfg          *config.Config
	logger       out.LoggerPort
}

func NewAvailabilityListener(
	cachePort out.CachePort,
	reassignment in.ReassignmentUseCase,
	cfg *config.Config,
	logger out.LoggerPort,
) (*AvailabilityListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
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

	return &AvailabilityListener{
		conn:         conn,
		channel:      channel,
		cachePort:    cachePort,
		reassignment: reassignment,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

func (l *AvailabilityListener) Start(ctx context.Context) error {
	for _, queueName := range []string{l.cfg.RabbitMQ.AvailabilityQueue, l.cfg.RabbitMQ.BookingQueue} {
		queue, err := l.channel.QueueDeclare(
			queueName,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return err
		}

		msgs, err := l.channel.Consume(
			queue.Name,
			"",    // consumer
			false, // auto-ack
			false, // exclusive
			false, // no-local
			false, // no-wait
			nil,   // args
		)
		if err != nil {
			return err
		}

		go func(queueName string, msgs <-chan amqp.Delivery) {
			for {
				select {
				case <-ctx.Done():
					return
				case msg, open := <-msgs:
					if !open {
						return
					}
					if err := l.processMessage(ctx, msg); err != nil {
						l.logger.Error("rabbitmq.message.process_failed", out.LogFields{
							"queue":   queueName,
							"error":   err.Error(),
							"requeue": shouldRequeue(err),
						})
						msg.Nack(false, shouldRequeue(err))
						continue
					}
					msg.Ack(false)
				}
			}
		}(queueName, msgs)
	}

	return nil
}

func (l *AvailabilityListener) processMessage(ctx context.Context, msg amqp.Delivery) error {
	var event AvailabilityEventMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformedMessage, err)
	}

	l.logger.Debug("rabbitmq.message.received", out.LogFields{
		"type":     event.Type,
		"mentorId": event.MentorID,
	})

	switch event.Type {
	case EventTypeAvailabilityUpdated, EventTypeExceptionCreated, EventTypeExceptionDeleted:
		if l.cachePort != nil {
			l.cachePort.InvalidateScheduleBundle(ctx, event.MentorID)
		}
	case EventTypeBookingCancelledByMentor:
		if event.Booking == nil {
			l.logger.Warn("rabbitmq.message.missing_booking", out.LogFields{
				"type": event.Type,
			})
			return nil
		}
		if _, err := l.reassignment.HandleMentorCancellation(ctx, *event.Booking); err != nil {
			return err
		}
	case EventTypeReplacementAccepted, EventTypeReplacementRejected,
		EventTypeMenteePickedMentor, EventTypeCancelledByMentee:
		if event.Booking == nil {
			l.logger.Warn("rabbitmq.message.missing_booking", out.LogFields{
				"type": event.Type,
			})
			return nil
		}
		return l.processMenteeDecision(ctx, event)
	default:
		l.logger.Debug("rabbitmq.message.ignored", out.LogFields{
			"type": event.Type,
		})
	}

	return nil
}

func (l *AvailabilityListener) processMenteeDecision(ctx context.Context, event AvailabilityEventMessage) error {
	var err error
	switch event.Type {
	case EventTypeReplacementAccepted:
		_, err = l.reassignment.AcceptReplacement(ctx, *event.Booking, event.State)
	case EventTypeReplacementRejected:
		_, err = l.reassignment.RejectReplacement(ctx, *event.Booking, event.State)
	case EventTypeMenteePickedMentor:
		_, err = l.reassignment.PickMentor(ctx, *event.Booking, event.State, event.MentorID)
	case EventTypeCancelledByMentee:
		_, err = l.reassignment.CancelForRefund(ctx, *event.Booking, event.State)
	}
	return err
}

func (l *AvailabilityListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}
