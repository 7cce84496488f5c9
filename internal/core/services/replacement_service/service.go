package replacement_service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
	"github.com/mentorloop/mentor-slots-generator/internal/core/services/slot_generator_service"
	"github.com/mentorloop/mentor-slots-generator/internal/utils"
)

// ReplacementService подбирает замену ментора на точное время отмененной сессии.
// Кандидаты загружаются одним батч-запросом, фильтрация выполняется в памяти.
type ReplacementService struct {
	platformPort out.PlatformPort
	logger       out.LoggerPort

	// Инжектируемый источник случайности для детерминированных тестов
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewReplacementService(
	platformPort out.PlatformPort,
	logger out.LoggerPort,
	rng *rand.Rand,
) *ReplacementService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ReplacementService{
		platformPort: platformPort,
		logger:       logger.WithModule("ReplacementService"),
		rng:          rng,
	}
}

// FindReplacementMentor возвращает id подходящего ментора или nil,
// если замены нет. Отсутствие замены - валидный исход, не ошибка.
// Выбор среди подходящих равномерно случайный: честность распределения
// между свободными менторами, а не балансировка по нагрузке
func (s *ReplacementService) FindReplacementMentor(ctx context.Context, at time.Time, duration int, excludeIDs []uuid.UUID) (*uuid.UUID, error) {
	s.logger.Info("replacement.find.started", out.LogFields{
		"scheduledAt": at,
		"duration":    duration,
		"excluded":    len(excludeIDs),
	})

	candidates, err := s.platformPort.GetReplacementCandidates(ctx, at, duration, excludeIDs)
	if err != nil {
		s.logger.Error("replacement.find.candidates.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("replacement.find.candidates.fetch_failed: %w", err)
	}

	excluded := make(map[uuid.UUID]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	eligible := make([]uuid.UUID, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := excluded[candidate.UserID]; ok {
			continue
		}
		if s.isEligible(candidate, at, duration) {
			eligible = append(eligible, candidate.UserID)
		}
	}

	if len(eligible) == 0 {
		s.logger.Info("replacement.find.no_candidates", out.LogFields{
			"scheduledAt": at,
			"scanned":     len(candidates),
		})
		return nil, nil
	}

	s.rngMu.Lock()
	chosen := eligible[s.rng.Intn(len(eligible))]
	s.rngMu.Unlock()

	s.logger.Info("replacement.find.chosen", out.LogFields{
		"mentorId": chosen,
		"eligible": len(eligible),
	})

	return &chosen, nil
}

func (s *ReplacementService) isEligible(candidate domain.ReplacementCandidate, at time.Time, duration int) bool {
	if !candidate.IsAvailable || candidate.VerificationStatus != domain.VerificationStatusVerified {
		return false
	}
	if !candidate.Schedule.IsActive {
		return false
	}

	location := candidate.Schedule.Location()
	localStart := at.In(location)
	localEnd := localStart.Add(time.Duration(duration) * time.Minute)

	// Сессия через полночь не помещается ни в один дневной блок
	if localEnd.Day() != localStart.Day() && !localEnd.Equal(utils.StartNextDay(localStart)) {
		return false
	}

	if !s.patternContains(candidate.Patterns, localStart, localEnd) {
		return false
	}

	// Любое блокирующее исключение на эту дату дисквалифицирует кандидата.
	// Частичные блокирующие исключения тоже - принятая консервативная политика,
	// подинтервальная проверка здесь не выполняется
	day := utils.StartCurrentDay(localStart)
	for _, exception := range candidate.Exceptions {
		if exception.Type.IsBlocking() && exception.CoversDate(day) {
			return false
		}
	}

	if slot_generator_service.HasBookingConflict(at, at.Add(time.Duration(duration)*time.Minute), candidate.Bookings, candidate.Schedule.BufferTimeBetweenSessions) {
		return false
	}

	return true
}

// patternContains проверяет, что [start, end] целиком помещается
// в AVAILABLE блок недельного шаблона нужного дня.
// Сравнение строк "HH:MM" корректно благодаря ведущим нулям
func (s *ReplacementService) patternContains(patterns []domain.WeeklyPattern, localStart, localEnd time.Time) bool {
	dayOfWeek := int(localStart.Weekday())

	for _, pattern := range patterns {
		if pattern.DayOfWeek != dayOfWeek || !pattern.IsEnabled {
			continue
		}

		startStr := localStart.Format("15:04")
		endStr := localEnd.Format("15:04")
		if endStr == "00:00" {
			endStr = "24:00"
		}

		for _, block := range pattern.TimeBlocks {
			if block.Type != domain.TimeBlockTypeAvailable {
				continue
			}
			if block.StartTime.String() <= startStr && endStr <= block.EndTime.String() {
				return true
			}
		}
	}

	return false
}
