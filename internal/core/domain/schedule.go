package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/core/json_types"
)

// WeeklyPattern - повторяющаяся доступность ментора на один день недели.
// DayOfWeek: 0=воскресенье .. 6=суббота.
type WeeklyPattern struct {
	ID         uuid.UUID   `json:"id"`
	ScheduleID uuid.UUID   `json:"scheduleId"`
	DayOfWeek  int         `json:"dayOfWeek"`
	IsEnabled  bool        `json:"isEnabled"`
	TimeBlocks []TimeBlock `json:"timeBlocks"`
}

type ExceptionType = TimeBlockType

// AvailabilityException - переопределение недельного шаблона на диапазон дат.
// Исключения одного расписания не могут пересекаться по датам.
type AvailabilityException struct {
	ID         uuid.UUID           `json:"id"`
	ScheduleID uuid.UUID           `json:"scheduleId"`
	StartDate  json_types.DateTime `json:"startDate"`
	EndDate    json_types.DateTime `json:"endDate"`
	Type       ExceptionType       `json:"type"`
	IsFullDay  bool                `json:"isFullDay"`
	TimeBlocks []TimeBlock         `json:"timeBlocks,omitempty"`
	Reason     string              `json:"reason,omitempty"`
}

// CoversDate - покрывает ли исключение календарный день day (начало дня в таймзоне расписания)
func (e AvailabilityException) CoversDate(day time.Time) bool {
	dayEnd := day.AddDate(0, 0, 1)
	return e.StartDate.Date.Before(dayEnd) && !e.EndDate.Date.Before(day)
}

// AvailabilitySchedule - настройки доступности ментора, одно на ментора.
type AvailabilitySchedule struct {
	ID                        uuid.UUID `json:"id"`
	MentorID                  uuid.UUID `json:"mentorId"`
	Timezone                  string    `json:"timezone"`
	DefaultSessionDuration    int       `json:"defaultSessionDuration"`
	BufferTimeBetweenSessions int       `json:"bufferTimeBetweenSessions"`
	MinAdvanceBookingHours    int       `json:"minAdvanceBookingHours"`
	MaxAdvanceBookingDays     int       `json:"maxAdvanceBookingDays"`
	IsActive                  bool      `json:"isActive"`
}

// Location возвращает таймзону расписания, UTC при некорректной зоне
func (s AvailabilitySchedule) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ScheduleBundle - расписание со всеми шаблонами и исключениями,
// единица кэширования конфигурации ментора.
type ScheduleBundle struct {
	Schedule   AvailabilitySchedule    `json:"schedule"`
	Patterns   []WeeklyPattern         `json:"patterns"`
	Exceptions []AvailabilityException `json:"exceptions"`
}

// PatternForDay возвращает шаблон для дня недели, nil если не задан
func (b *ScheduleBundle) PatternForDay(dayOfWeek int) *WeeklyPattern {
	for i := range b.Patterns {
		if b.Patterns[i].DayOfWeek == dayOfWeek {
			return &b.Patterns[i]
		}
	}
	return nil
}
