package slot_generator_service

import (
	"time"

	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
)

// HasBookingConflict проверяет пересечение кандидата [start, end)
// с бронированиями, расширенными буфером ментора с обеих сторон.
// Первое совпадение завершает проверку
func HasBookingConflict(start, end time.Time, bookings []domain.Booking, bufferMinutes int) bool {
	buffer := time.Duration(bufferMinutes) * time.Minute

	for _, booking := range bookings {
		if !booking.Status.OccupiesCalendar() {
			continue
		}

		bufferedStart := booking.ScheduledAt.Date.Add(-buffer)
		bufferedEnd := booking.EndsAt().Add(buffer)

		// Стандартная проверка пересечения полуоткрытых интервалов
		if start.Before(bufferedEnd) && end.After(bufferedStart) {
			return true
		}
	}

	return false
}
