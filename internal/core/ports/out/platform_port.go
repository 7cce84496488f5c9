package out

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
)

// PlatformPort - доступ к основному API маркетплейса.
// Персистентность живет на стороне платформы, сервис только читает.
type PlatformPort interface {
	// Методы для работы с настройками доступности
	// GetSchedule возвращает nil без ошибки, если ментор не настроил расписание
	GetSchedule(ctx context.Context, mentorID uuid.UUID) (*domain.AvailabilitySchedule, error)
	GetWeeklyPatterns(ctx context.Context, scheduleID uuid.UUID) ([]domain.WeeklyPattern, error)
	GetExceptions(ctx context.Context, scheduleID uuid.UUID, startDate, endDate time.Time) ([]domain.AvailabilityException, error)

	// Методы для работы с бронированиями
	GetBookingsInRange(ctx context.Context, mentorID uuid.UUID, startDate, endDate time.Time, statuses []domain.BookingStatus) ([]domain.Booking, error)

	// Батч-выборка кандидатов на замену: платформа возвращает
	// верифицированных активных менторов сразу с расписаниями,
	// шаблонами, исключениями и бронированиями вокруг целевого времени
	GetReplacementCandidates(ctx context.Context, at time.Time, duration int, excludeIDs []uuid.UUID) ([]domain.ReplacementCandidate, error)
}
