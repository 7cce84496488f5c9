package in

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
)

type ReplacementUseCase interface {
	// Поиск замены ментора на точное время сессии.
	// nil без ошибки, если подходящих кандидатов нет
	FindReplacementMentor(ctx context.Context, at time.Time, duration int, excludeIDs []uuid.UUID) (*uuid.UUID, error)
}

// ReassignmentOutcome - результат обработки отмены сессии ментором
type ReassignmentOutcome struct {
	State             domain.ReassignmentState `json:"state"`
	ReplacementMentor *uuid.UUID               `json:"replacementMentor,omitempty"`
}

type ReassignmentUseCase interface {
	// Обработка отмены: поиск замены и уведомление менти
	HandleMentorCancellation(ctx context.Context, booking domain.Booking) (*ReassignmentOutcome, error)

	// Решения менти по предложенной замене
	AcceptReplacement(ctx context.Context, booking domain.Booking, state domain.ReassignmentState) (domain.ReassignmentState, error)
	RejectReplacement(ctx context.Context, booking domain.Booking, state domain.ReassignmentState) (domain.ReassignmentState, error)

	// Действия менти, когда замена не найдена
	PickMentor(ctx context.Context, booking domain.Booking, state domain.ReassignmentState, mentorID uuid.UUID) (domain.ReassignmentState, error)
	CancelForRefund(ctx context.Context, booking domain.Booking, state domain.ReassignmentState) (domain.ReassignmentState, error)
}
