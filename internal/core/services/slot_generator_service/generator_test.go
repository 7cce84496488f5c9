package slot_generator_service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/json_types"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/in"
)

var (
	testMentorID   = uuid.MustParse("6f9619ff-8b86-4d01-b42d-00cf4fc964ff")
	testScheduleID = uuid.MustParse("e0c9035a-0001-4d01-b42d-00cf4fc964ff")

	// 2026-03-01 - воскресенье, тестовый день 2026-03-02 - понедельник
	testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
)

func testSchedule() *domain.AvailabilitySchedule {
	return &domain.AvailabilitySchedule{
		ID:                        testScheduleID,
		MentorID:                  testMentorID,
		Timezone:                  "UTC",
		DefaultSessionDuration:    60,
		BufferTimeBetweenSessions: 15,
		MinAdvanceBookingHours:    0,
		MaxAdvanceBookingDays:     30,
		IsActive:                  true,
	}
}

func pattern(day time.Time, enabled bool, blocks ...domain.TimeBlock) domain.WeeklyPattern {
	return domain.WeeklyPattern{
		ID:         uuid.New(),
		ScheduleID: testScheduleID,
		DayOfWeek:  int(day.Weekday()),
		IsEnabled:  enabled,
		TimeBlocks: blocks,
	}
}

func dayQuery() in.SlotQuery {
	return in.SlotQuery{
		StartDate: testDay,
		EndDate:   testDay.AddDate(0, 0, 1),
	}
}

func generate(t *testing.T, platform *mockPlatform, query in.SlotQuery) *domain.SlotsResult {
	t.Helper()

	s := newTestService(platform)
	s.now = func() time.Time { return testNow }

	result, _, err := s.GenerateSlots(context.Background(), testMentorID, query)
	require.NoError(t, err)
	return result
}

func TestGenerateSlots_ContiguousStride(t *testing.T) {
	platform := &mockPlatform{
		schedule: testSchedule(),
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true, available("09:00", "12:00")),
		},
	}

	result := generate(t, platform, dayQuery())

	// 09:00-10:00, затем буфер 15 минут, 10:15-11:15; следующий
	// кандидат 11:30-12:30 не помещается
	require.Len(t, result.Slots, 2)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), result.Slots[0].StartTime)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), result.Slots[0].EndTime)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC), result.Slots[1].StartTime)
	assert.Equal(t, time.Date(2026, 3, 2, 11, 15, 0, 0, time.UTC), result.Slots[1].EndTime)
	assert.True(t, result.Slots[0].Available)
	assert.True(t, result.Slots[1].Available)
}

func TestGenerateSlots_BlockedCarveResetsCursor(t *testing.T) {
	platform := &mockPlatform{
		schedule: testSchedule(),
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true,
				available("09:00", "12:00"),
				block("10:00", "10:30", domain.TimeBlockTypeBlocked),
			),
		},
	}

	result := generate(t, platform, dayQuery())

	// Курсор перезапускается на границе каждого фрагмента
	require.Len(t, result.Slots, 2)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), result.Slots[0].StartTime)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC), result.Slots[1].StartTime)
	assert.Equal(t, time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC), result.Slots[1].EndTime)
}

func TestGenerateSlots_SlotSpacingInvariant(t *testing.T) {
	platform := &mockPlatform{
		schedule: testSchedule(),
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true, available("08:00", "18:00")),
		},
	}

	result := generate(t, platform, dayQuery())
	require.NotEmpty(t, result.Slots)

	buffer := 15 * time.Minute
	for i := 1; i < len(result.Slots); i++ {
		gap := result.Slots[i].StartTime.Sub(result.Slots[i-1].EndTime)
		assert.GreaterOrEqual(t, gap, buffer,
			"slot %d starts %s after previous end", i, gap)
	}
}

func TestGenerateSlots_BookingConflictMarked(t *testing.T) {
	platform := &mockPlatform{
		schedule: testSchedule(),
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true, available("12:00", "16:00")),
		},
		bookings: []domain.Booking{
			{
				ID:          uuid.New(),
				MentorID:    testMentorID,
				ScheduledAt: json_types.DateTime{Date: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)},
				Duration:    60,
				Status:      domain.BookingStatusScheduled,
			},
		},
	}

	result := generate(t, platform, dayQuery())

	// 12:00-13:00 свободен; 13:15-14:15 и 14:30-15:30 пересекают
	// буферизованное бронирование 13:45-15:15
	require.Len(t, result.Slots, 3)
	assert.True(t, result.Slots[0].Available)
	assert.False(t, result.Slots[1].Available)
	assert.Equal(t, domain.SlotReasonBooked, result.Slots[1].Reason)
	assert.False(t, result.Slots[2].Available)
}

func TestGenerateSlots_CancelledBookingIgnored(t *testing.T) {
	platform := &mockPlatform{
		schedule: testSchedule(),
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true, available("12:00", "16:00")),
		},
		bookings: []domain.Booking{
			{
				ID:          uuid.New(),
				MentorID:    testMentorID,
				ScheduledAt: json_types.DateTime{Date: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)},
				Duration:    60,
				Status:      domain.BookingStatusCancelled,
			},
		},
	}

	result := generate(t, platform, dayQuery())

	for _, slot := range result.Slots {
		assert.True(t, slot.Available)
	}
}

func TestGenerateAvailableSlots_FiltersBooked(t *testing.T) {
	platform := &mockPlatform{
		schedule: testSchedule(),
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true, available("12:00", "16:00")),
		},
		bookings: []domain.Booking{
			{
				ID:          uuid.New(),
				MentorID:    testMentorID,
				ScheduledAt: json_types.DateTime{Date: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)},
				Duration:    60,
				Status:      domain.BookingStatusInProgress,
			},
		},
	}

	s := newTestService(platform)
	s.now = func() time.Time { return testNow }

	result, err := s.GenerateAvailableSlots(context.Background(), testMentorID, dayQuery())
	require.NoError(t, err)

	require.Len(t, result.Slots, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), result.Slots[0].StartTime)
}

func TestGenerateSlots_DisabledPatternShortCircuits(t *testing.T) {
	platform := &mockPlatform{
		schedule: testSchedule(),
		patterns: []domain.WeeklyPattern{
			// Выключенный шаблон с непустыми блоками - случай рассинхрона данных
			pattern(testDay, false, available("09:00", "12:00")),
		},
	}

	result := generate(t, platform, dayQuery())
	assert.Empty(t, result.Slots)
}

func TestGenerateSlots_FullDayExceptionShortCircuits(t *testing.T) {
	platform := &mockPlatform{
		schedule: testSchedule(),
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true, available("09:00", "12:00")),
		},
		exceptions: []domain.AvailabilityException{
			{
				ID:         uuid.New(),
				ScheduleID: testScheduleID,
				StartDate:  json_types.DateTime{Date: testDay},
				EndDate:    json_types.DateTime{Date: testDay.Add(23 * time.Hour)},
				Type:       domain.TimeBlockTypeBlocked,
				IsFullDay:  true,
				Reason:     "vacation",
			},
		},
	}

	result := generate(t, platform, dayQuery())
	assert.Empty(t, result.Slots)
}

func TestGenerateSlots_PartialExceptionCarves(t *testing.T) {
	platform := &mockPlatform{
		schedule: testSchedule(),
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true, available("09:00", "12:00")),
		},
		exceptions: []domain.AvailabilityException{
			{
				ID:         uuid.New(),
				ScheduleID: testScheduleID,
				StartDate:  json_types.DateTime{Date: testDay},
				EndDate:    json_types.DateTime{Date: testDay.Add(23 * time.Hour)},
				Type:       domain.TimeBlockTypeBlocked,
				IsFullDay:  false,
				TimeBlocks: []domain.TimeBlock{
					block("10:00", "10:30", domain.TimeBlockTypeBlocked),
				},
			},
		},
	}

	result := generate(t, platform, dayQuery())

	require.Len(t, result.Slots, 2)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), result.Slots[0].StartTime)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC), result.Slots[1].StartTime)
}

func TestGenerateSlots_NoScheduleYieldsReason(t *testing.T) {
	result := generate(t, &mockPlatform{}, dayQuery())

	assert.Empty(t, result.Slots)
	assert.Equal(t, domain.ReasonNoSchedule, result.Reason)
}

func TestGenerateSlots_InactiveScheduleYieldsReason(t *testing.T) {
	schedule := testSchedule()
	schedule.IsActive = false

	result := generate(t, &mockPlatform{schedule: schedule}, dayQuery())

	assert.Empty(t, result.Slots)
	assert.Equal(t, domain.ReasonScheduleInactive, result.Reason)
}

func TestGenerateSlots_RangeCap(t *testing.T) {
	platform := &mockPlatform{schedule: testSchedule()}
	s := newTestService(platform)
	s.now = func() time.Time { return testNow }

	// Ровно 90 дней допустимо
	_, _, err := s.GenerateSlots(context.Background(), testMentorID, in.SlotQuery{
		StartDate: testDay,
		EndDate:   testDay.AddDate(0, 0, 90),
	})
	require.NoError(t, err)

	// 91 день - ошибка валидации
	_, _, err = s.GenerateSlots(context.Background(), testMentorID, in.SlotQuery{
		StartDate: testDay,
		EndDate:   testDay.AddDate(0, 0, 91),
	})
	assert.ErrorIs(t, err, ErrRangeTooLong)
}

func TestGenerateSlots_InvalidRange(t *testing.T) {
	s := newTestService(&mockPlatform{schedule: testSchedule()})

	_, _, err := s.GenerateSlots(context.Background(), testMentorID, in.SlotQuery{
		StartDate: testDay,
		EndDate:   testDay,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestGenerateSlots_UnknownTimezone(t *testing.T) {
	s := newTestService(&mockPlatform{schedule: testSchedule()})

	query := dayQuery()
	query.Timezone = "Mars/Olympus_Mons"

	_, _, err := s.GenerateSlots(context.Background(), testMentorID, query)
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestGenerateSlots_TimezoneConversion(t *testing.T) {
	platform := &mockPlatform{
		schedule: testSchedule(),
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true, available("09:00", "12:00")),
		},
	}

	query := dayQuery()
	query.Timezone = "America/New_York"

	result := generate(t, platform, query)
	require.NotEmpty(t, result.Slots)

	// 09:00 UTC - это 04:00 в Нью-Йорке (EST, до весеннего перевода)
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 4, 0, 0, 0, newYork).Format(time.RFC3339), result.Slots[0].StartTime.Format(time.RFC3339))
	assert.True(t, result.Slots[0].StartTime.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)))
}

func TestGenerateSlots_AdvanceBookingWindow(t *testing.T) {
	schedule := testSchedule()
	schedule.MinAdvanceBookingHours = 48

	platform := &mockPlatform{
		schedule: schedule,
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true, available("09:00", "12:00")),
		},
	}

	// Окно начинается 2026-03-03 00:00, все слоты 2 марта отсекаются
	result := generate(t, platform, dayQuery())
	assert.Empty(t, result.Slots)
}

func TestGenerateSlots_MaxAdvanceHorizon(t *testing.T) {
	schedule := testSchedule()
	schedule.MaxAdvanceBookingDays = 1

	platform := &mockPlatform{
		schedule: schedule,
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true, available("09:00", "12:00")),
			pattern(testDay.AddDate(0, 0, 1), true, available("09:00", "12:00")),
		},
	}

	query := in.SlotQuery{
		StartDate: testDay,
		EndDate:   testDay.AddDate(0, 0, 2),
	}

	result := generate(t, platform, query)

	// Горизонт now+1 день = 2026-03-02 00:00, все слоты начинаются позже
	assert.Empty(t, result.Slots)
}

func TestGenerateSlots_SortedAscending(t *testing.T) {
	platform := &mockPlatform{
		schedule: testSchedule(),
		patterns: []domain.WeeklyPattern{
			pattern(testDay, true,
				available("13:00", "15:00"),
				available("09:00", "11:00"),
			),
		},
	}

	result := generate(t, platform, dayQuery())
	require.NotEmpty(t, result.Slots)

	for i := 1; i < len(result.Slots); i++ {
		assert.True(t, result.Slots[i].StartTime.After(result.Slots[i-1].StartTime))
	}
}
