package reassignment_service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/in"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
)

// ReassignmentService ведет сессию по машине состояний переназначения
// после отмены ментором: поиск замены, уведомление менти, обработка решения.
// Проведение возврата средств остается на стороне платформы,
// сервис только публикует событие
type ReassignmentService struct {
	replacement in.ReplacementUseCase
	notifier    out.NotifierPort
	logger      out.LoggerPort
}

func NewReassignmentService(
	replacement in.ReplacementUseCase,
	notifier out.NotifierPort,
	logger out.LoggerPort,
) *ReassignmentService {
	return &ReassignmentService{
		replacement: replacement,
		notifier:    notifier,
		logger:      logger.WithModule("ReassignmentService"),
	}
}

// HandleMentorCancellation ищет замену на точное время отмененной сессии
// и уведомляет менти о результате
func (s *ReassignmentService) HandleMentorCancellation(ctx context.Context, booking domain.Booking) (*in.ReassignmentOutcome, error) {
	s.logger.Info("reassignment.cancellation.received", out.LogFields{
		"bookingId":   booking.ID,
		"mentorId":    booking.MentorID,
		"scheduledAt": booking.ScheduledAt.Date,
	})

	state := domain.ReassignmentStateCancelledByMentor

	replacementID, err := s.replacement.FindReplacementMentor(ctx, booking.ScheduledAt.Date, booking.Duration, []uuid.UUID{booking.MentorID})
	if err != nil {
		return nil, fmt.Errorf("reassignment.replacement.search_failed: %w", err)
	}

	if replacementID == nil {
		state, err = domain.Transition(state, domain.ReassignmentEventNoReplacement)
		if err != nil {
			return nil, err
		}

		// Менти выбирает ментора вручную или отменяет с полным возвратом
		if notifyErr := s.notifier.Notify(ctx, booking.MenteeID, out.NotificationNoReplacement, map[string]interface{}{
			"bookingId": booking.ID.String(),
		}); notifyErr != nil {
			s.logger.Warn("reassignment.notify.failed", out.LogFields{
				"bookingId": booking.ID,
				"error":     notifyErr.Error(),
			})
		}

		state, err = domain.Transition(state, domain.ReassignmentEventOfferSent)
		if err != nil {
			return nil, err
		}
		return &in.ReassignmentOutcome{State: state}, nil
	}

	state, err = domain.Transition(state, domain.ReassignmentEventReplacementFound)
	if err != nil {
		return nil, err
	}

	if notifyErr := s.notifier.Notify(ctx, booking.MenteeID, out.NotificationReplacementOffered, map[string]interface{}{
		"bookingId":         booking.ID.String(),
		"replacementMentor": replacementID.String(),
	}); notifyErr != nil {
		s.logger.Warn("reassignment.notify.failed", out.LogFields{
			"bookingId": booking.ID,
			"error":     notifyErr.Error(),
		})
	}

	state, err = domain.Transition(state, domain.ReassignmentEventOfferSent)
	if err != nil {
		return nil, err
	}

	return &in.ReassignmentOutcome{State: state, ReplacementMentor: replacementID}, nil
}

// AcceptReplacement - менти принял предложенного ментора
func (s *ReassignmentService) AcceptReplacement(ctx context.Context, booking domain.Booking, state domain.ReassignmentState) (domain.ReassignmentState, error) {
	next, err := domain.Transition(state, domain.ReassignmentEventMenteeAccepted)
	if err != nil {
		return state, err
	}

	if notifyErr := s.notifier.Notify(ctx, booking.MenteeID, out.NotificationReassignConfirmed, map[string]interface{}{
		"bookingId": booking.ID.String(),
	}); notifyErr != nil {
		s.logger.Warn("reassignment.notify.failed", out.LogFields{
			"bookingId": booking.ID,
			"error":     notifyErr.Error(),
		})
	}

	return next, nil
}

// RejectReplacement - менти отклонил замену, сессия отменяется с полным возвратом
func (s *ReassignmentService) RejectReplacement(ctx context.Context, booking domain.Booking, state domain.ReassignmentState) (domain.ReassignmentState, error) {
	next, err := domain.Transition(state, domain.ReassignmentEventMenteeRejected)
	if err != nil {
		return state, err
	}

	return next, s.requestRefund(ctx, booking)
}

// PickMentor - менти сам выбрал нового ментора после неудачного поиска
func (s *ReassignmentService) PickMentor(ctx context.Context, booking domain.Booking, state domain.ReassignmentState, mentorID uuid.UUID) (domain.ReassignmentState, error) {
	next, err := domain.Transition(state, domain.ReassignmentEventMenteePickedMentor)
	if err != nil {
		return state, err
	}

	s.logger.Info("reassignment.mentee_picked", out.LogFields{
		"bookingId": booking.ID,
		"mentorId":  mentorID,
	})

	return next, nil
}

// CancelForRefund - менти отказался от переноса, сессия отменяется с полным возвратом
func (s *ReassignmentService) CancelForRefund(ctx context.Context, booking domain.Booking, state domain.ReassignmentState) (domain.ReassignmentState, error) {
	next, err := domain.Transition(state, domain.ReassignmentEventMenteeCancelled)
	if err != nil {
		return state, err
	}

	return next, s.requestRefund(ctx, booking)
}

func (s *ReassignmentService) requestRefund(ctx context.Context, booking domain.Booking) error {
	if err := s.notifier.Notify(ctx, booking.MenteeID, out.NotificationRefundRequested, map[string]interface{}{
		"bookingId": booking.ID.String(),
	}); err != nil {
		s.logger.Error("reassignment.refund_request.failed", out.LogFields{
			"bookingId": booking.ID,
			"error":     err.Error(),
		})
		return fmt.Errorf("reassignment.refund_request.failed: %w", err)
	}
	return nil
}
