package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/core/json_types"
)

type BookingStatus string

const (
	BookingStatusScheduled  BookingStatus = "scheduled"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusNoShow     BookingStatus = "no_show"
)

// OccupiesCalendar - занимает ли бронирование с этим статусом календарь ментора
func (s BookingStatus) OccupiesCalendar() bool {
	return s == BookingStatusScheduled || s == BookingStatusInProgress
}

// ActiveBookingStatuses - статусы, учитываемые при проверке конфликтов
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusScheduled,
	BookingStatusInProgress,
}

type Booking struct {
	ID          uuid.UUID                  `json:"id"`
	MentorID    uuid.UUID                  `json:"mentorId"`
	MenteeID    uuid.UUID                  `json:"menteeId"`
	ScheduledAt json_types.DateTime        `json:"scheduledAt"`
	Duration    int                        `json:"duration"`
	Status      BookingStatus              `json:"status"`
	CancelledAt json_types.DateTimeOrEmpty `json:"cancelledAt"`
}

// EndsAt возвращает момент окончания сессии
func (b Booking) EndsAt() time.Time {
	return b.ScheduledAt.Date.Add(time.Duration(b.Duration) * time.Minute)
}
