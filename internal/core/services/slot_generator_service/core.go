package slot_generator_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/config"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/in"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
	"github.com/mentorloop/mentor-slots-generator/internal/utils"
)

// MaxRangeDays - жесткий лимит диапазона запроса слотов.
// Ровно 90 дней допустимо, 91 - ошибка валидации
const MaxRangeDays = 90

var (
	ErrInvalidRange    = errors.New("end date must be after start date")
	ErrRangeTooLong    = fmt.Errorf("date range exceeds %d days", MaxRangeDays)
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrUnknownTimezone = errors.New("unknown timezone")
)

type SlotGeneratorService struct {
	platformPort out.PlatformPort
	cachePort    out.CachePort
	logger       out.LoggerPort
	cfg          *config.Config

	// Источник текущего времени, подменяется в тестах
	now func() time.Time
}

func NewSlotGeneratorService(
	platformPort out.PlatformPort,
	cachePort out.CachePort,
	cfg *config.Config,
	logger out.LoggerPort,
) *SlotGeneratorService {
	return &SlotGeneratorService{
		platformPort: platformPort,
		cachePort:    cachePort,
		cfg:          cfg,
		logger:       logger.WithModule("SlotGeneratorService"),
		now:          time.Now,
	}
}

// GenerateSlots возвращает все слоты за период, включая занятые (detailed-режим)
func (s *SlotGeneratorService) GenerateSlots(ctx context.Context, mentorID uuid.UUID, query in.SlotQuery) (*domain.SlotsResult, []domain.DebugInfo, error) {
	debugInfo := SlotGeneratorServiceDebug{
		data: make([]domain.DebugInfo, 0),
	}

	s.logger.Info("slots.generate.started", out.LogFields{
		"mentorId":  mentorID,
		"startDate": query.StartDate,
		"endDate":   query.EndDate,
	})

	result, err := s.generate(ctx, &debugInfo, mentorID, query)
	if err != nil {
		return nil, nil, err
	}

	return result, debugInfo.data, nil
}

// GenerateAvailableSlots возвращает только свободные слоты за период
func (s *SlotGeneratorService) GenerateAvailableSlots(ctx context.Context, mentorID uuid.UUID, query in.SlotQuery) (*domain.SlotsResult, error) {
	debugInfo := SlotGeneratorServiceDebug{
		data: make([]domain.DebugInfo, 0),
	}

	result, err := s.generate(ctx, &debugInfo, mentorID, query)
	if err != nil {
		return nil, err
	}

	available := make([]domain.Slot, 0, len(result.Slots))
	for _, slot := range result.Slots {
		if slot.Available {
			available = append(available, slot)
		}
	}
	result.Slots = available

	return result, nil
}

func (s *SlotGeneratorService) generate(ctx context.Context, debugInfo *SlotGeneratorServiceDebug, mentorID uuid.UUID, query in.SlotQuery) (*domain.SlotsResult, error) {
	targetLocation, err := s.validateQuery(query)
	if err != nil {
		return nil, err
	}

	get_bundle_debug := domain.DebugInfo{
		Event: "slots.generate.schedule.fetch",
	}
	get_bundle_debug.Start()

	bundle, err := s.getScheduleBundle(ctx, mentorID)
	if err != nil {
		s.logger.Error("slots.generate.schedule.fetch_failed", out.LogFields{
			"mentorId": mentorID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("slots.generate.schedule.fetch_failed: %w", err)
	}
	get_bundle_debug.Elapse()
	debugInfo.AddDebugInfo(get_bundle_debug)

	// Ненастроенный ментор - валидное состояние, не ошибка
	if bundle == nil {
		return &domain.SlotsResult{Slots: []domain.Slot{}, Reason: domain.ReasonNoSchedule}, nil
	}
	if !bundle.Schedule.IsActive {
		return &domain.SlotsResult{Slots: []domain.Slot{}, Reason: domain.ReasonScheduleInactive}, nil
	}

	slots, err := s.generateSlotsForBundle(ctx, debugInfo, mentorID, bundle, query)
	if err != nil {
		return nil, err
	}

	sort_slots_debug := domain.DebugInfo{
		Event: "slots.generate.sort",
	}
	sort_slots_debug.Start()
	slots = SlotSlice(slots).quickSort()
	sort_slots_debug.Elapse()
	debugInfo.AddDebugInfo(sort_slots_debug)

	// Перевод границ слотов в запрошенную таймзону
	if targetLocation != nil {
		for i := range slots {
			slots[i].StartTime = slots[i].StartTime.In(targetLocation)
			slots[i].EndTime = slots[i].EndTime.In(targetLocation)
		}
	}

	s.logger.Info("slots.generate.finished", out.LogFields{
		"mentorId":   mentorID,
		"slotsCount": len(slots),
	})

	return &domain.SlotsResult{Slots: slots}, nil
}

// validateQuery проверяет диапазон, длительность и таймзону запроса.
// Возвращает целевую локацию или nil, если конверсия не нужна
func (s *SlotGeneratorService) validateQuery(query in.SlotQuery) (*time.Location, error) {
	if !query.EndDate.After(query.StartDate) {
		return nil, ErrInvalidRange
	}
	if utils.DaysBetween(query.StartDate, query.EndDate) > MaxRangeDays {
		return nil, ErrRangeTooLong
	}
	if query.Duration < 0 {
		return nil, ErrInvalidDuration
	}

	if query.Timezone == "" {
		return nil, nil
	}
	location, err := time.LoadLocation(query.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, query.Timezone)
	}
	return location, nil
}

// getScheduleBundle загружает конфигурацию ментора, используя кэш, если он включен.
// nil без ошибки означает, что ментор не настроил расписание
func (s *SlotGeneratorService) getScheduleBundle(ctx context.Context, mentorID uuid.UUID) (*domain.ScheduleBundle, error) {
	if s.cachePort != nil && s.cfg.Cache.Enabled {
		if bundle, exists := s.cachePort.GetScheduleBundle(ctx, mentorID); exists {
			s.logger.Debug("slots.generate.cache.hit", out.LogFields{
				"mentorId": mentorID,
			})
			return bundle, nil
		}
		s.logger.Debug("slots.generate.cache.miss", out.LogFields{
			"mentorId": mentorID,
		})
	}

	schedule, err := s.platformPort.GetSchedule(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, nil
	}

	patterns, err := s.platformPort.GetWeeklyPatterns(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}

	// Окно исключений покрывает максимально бронируемый горизонт
	horizonDays := schedule.MaxAdvanceBookingDays
	if horizonDays < MaxRangeDays {
		horizonDays = MaxRangeDays
	}
	now := s.now()
	exceptions, err := s.platformPort.GetExceptions(ctx, schedule.ID, utils.StartCurrentDay(now), now.AddDate(0, 0, horizonDays+1))
	if err != nil {
		return nil, err
	}

	bundle := &domain.ScheduleBundle{
		Schedule:   *schedule,
		Patterns:   patterns,
		Exceptions: exceptions,
	}

	if s.cachePort != nil && s.cfg.Cache.Enabled {
		s.cachePort.StoreScheduleBundle(ctx, mentorID, *bundle)
	}

	return bundle, nil
}
