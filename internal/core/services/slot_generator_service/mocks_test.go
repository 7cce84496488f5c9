package slot_generator_service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/config"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
)

type noopLogger struct{}

func (noopLogger) Debug(string, out.LogFields)            {}
func (noopLogger) Info(string, out.LogFields)             {}
func (noopLogger) Warn(string, out.LogFields)             {}
func (noopLogger) Error(string, out.LogFields)            {}
func (l noopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l noopLogger) WithModule(string) out.LoggerPort        { return l }

type mockPlatform struct {
	schedule   *domain.AvailabilitySchedule
	patterns   []domain.WeeklyPattern
	exceptions []domain.AvailabilityException
	bookings   []domain.Booking
	candidates []domain.ReplacementCandidate

	scheduleErr error
	bookingsErr error
}

func (m *mockPlatform) GetSchedule(ctx context.Context, mentorID uuid.UUID) (*domain.AvailabilitySchedule, error) {
	return m.schedule, m.scheduleErr
}

func (m *mockPlatform) GetWeeklyPatterns(ctx context.Context, scheduleID uuid.UUID) ([]domain.WeeklyPattern, error) {
	return m.patterns, nil
}

func (m *mockPlatform) GetExceptions(ctx context.Context, scheduleID uuid.UUID, startDate, endDate time.Time) ([]domain.AvailabilityException, error) {
	return m.exceptions, nil
}

func (m *mockPlatform) GetBookingsInRange(ctx context.Context, mentorID uuid.UUID, startDate, endDate time.Time, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	return m.bookings, m.bookingsErr
}

func (m *mockPlatform) GetReplacementCandidates(ctx context.Context, at time.Time, duration int, excludeIDs []uuid.UUID) ([]domain.ReplacementCandidate, error) {
	return m.candidates, nil
}

func newTestService(platform *mockPlatform) *SlotGeneratorService {
	cfg := &config.Config{}
	return NewSlotGeneratorService(platform, nil, cfg, noopLogger{})
}
