package slot_generator_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/in"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
	"github.com/mentorloop/mentor-slots-generator/internal/utils"
)

func (s *SlotGeneratorService) generateSlotsForBundle(ctx context.Context, debugInfo *SlotGeneratorServiceDebug, mentorID uuid.UUID, bundle *domain.ScheduleBundle, query in.SlotQuery) ([]domain.Slot, error) {
	schedule := bundle.Schedule
	location := schedule.Location()

	duration := query.Duration
	if duration == 0 {
		duration = schedule.DefaultSessionDuration
	}
	buffer := schedule.BufferTimeBetweenSessions

	rangeStart := query.StartDate.In(location)
	rangeEnd := query.EndDate.In(location)

	get_bookings_debug := domain.DebugInfo{
		Event: "slots.generate.bookings.fetch",
	}
	get_bookings_debug.Start()

	// Бронирования запрашиваем с запасом в сутки по краям,
	// чтобы буферы граничных бронирований попали в проверку
	bookings, err := s.platformPort.GetBookingsInRange(ctx,
		mentorID,
		rangeStart.AddDate(0, 0, -1),
		rangeEnd.AddDate(0, 0, 1),
		domain.ActiveBookingStatuses,
	)
	if err != nil {
		s.logger.Error("slots.generate.bookings.fetch_failed", out.LogFields{
			"mentorId": mentorID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("slots.generate.bookings.fetch_failed: %w", err)
	}
	get_bookings_debug.Elapse()
	get_bookings_debug.AddOption("count", fmt.Sprintf("%d", len(bookings)))
	debugInfo.AddDebugInfo(get_bookings_debug)

	now := s.now()
	minBookableStart := now.Add(time.Duration(schedule.MinAdvanceBookingHours) * time.Hour)
	maxBookableStart := now.AddDate(0, 0, schedule.MaxAdvanceBookingDays)

	generate_debug := domain.DebugInfo{
		Event: "slots.generate.walk",
	}
	generate_debug.Start()

	slots := make([]domain.Slot, 0)
	lastDay := utils.StartCurrentDay(rangeEnd)
	for day := utils.StartCurrentDay(rangeStart); !day.After(lastDay); day = utils.StartNextDay(day) {
		fragments := s.resolveDayFragments(bundle, day)

		for _, fragment := range fragments {
			// Курсор идет непрерывным шагом duration+buffer от начала фрагмента:
			// так расстояние между соседними слотами никогда не меньше буфера
			cursor := fragment.StartTime.Minutes()
			fragmentEnd := fragment.EndTime.Minutes()

			for cursor+duration <= fragmentEnd {
				slotStart := time.Date(day.Year(), day.Month(), day.Day(), cursor/60, cursor%60, 0, 0, location)
				slotEnd := slotStart.Add(time.Duration(duration) * time.Minute)
				cursor += duration + buffer

				// Слот за пределами запрошенного диапазона
				if slotStart.Before(rangeStart) || slotEnd.After(rangeEnd) {
					continue
				}
				// Окно бронирования: не раньше минимального упреждения,
				// не дальше максимального горизонта
				if slotStart.Before(minBookableStart) || slotStart.After(maxBookableStart) {
					continue
				}

				slot := domain.Slot{
					StartTime: slotStart,
					EndTime:   slotEnd,
					Available: true,
				}
				if HasBookingConflict(slotStart, slotEnd, bookings, buffer) {
					slot.Available = false
					slot.Reason = domain.SlotReasonBooked
				}

				slots = append(slots, slot)
			}
		}
	}

	generate_debug.Elapse()
	generate_debug.AddOption("slots", fmt.Sprintf("%d", len(slots)))
	debugInfo.AddDebugInfo(generate_debug)

	return slots, nil
}
