package slot_generator_service

import (
	"time"

	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
)

// resolveDayFragments вычисляет эффективные AVAILABLE фрагменты
// для календарного дня day (начало дня в таймзоне расписания).
// Пустой результат - валидное состояние, не ошибка
func (s *SlotGeneratorService) resolveDayFragments(bundle *domain.ScheduleBundle, day time.Time) []domain.TimeBlock {
	pattern := bundle.PatternForDay(int(day.Weekday()))

	// Нет шаблона, шаблон выключен или пуст - день без доступности.
	// Выключенный шаблон с непустыми блоками тоже дает ноль
	if pattern == nil || !pattern.IsEnabled || len(pattern.TimeBlocks) == 0 {
		return nil
	}

	dayExceptions := make([]domain.AvailabilityException, 0)
	for _, exception := range bundle.Exceptions {
		if exception.CoversDate(day) {
			dayExceptions = append(dayExceptions, exception)
		}
	}

	// Полнодневное блокирующее исключение перекрывает недельный шаблон целиком
	for _, exception := range dayExceptions {
		if exception.IsFullDay && exception.Type.IsBlocking() {
			s.logger.Debug("slots.resolve.full_day_exception", out.LogFields{
				"date":   day.Format("2006-01-02"),
				"type":   exception.Type,
				"reason": exception.Reason,
			})
			return nil
		}
	}

	available := make([]domain.TimeBlock, 0, len(pattern.TimeBlocks))
	blockers := make([]domain.TimeBlock, 0, len(pattern.TimeBlocks))
	for _, block := range pattern.TimeBlocks {
		if block.Type == domain.TimeBlockTypeAvailable {
			available = append(available, block)
		} else if block.Type.IsBlocking() {
			blockers = append(blockers, block)
		}
	}

	// Блоки частичных исключений наслаиваются на блокирующий набор дня.
	// Блок без собственного блокирующего типа наследует тип исключения
	for _, exception := range dayExceptions {
		if exception.IsFullDay {
			continue
		}
		for _, block := range exception.TimeBlocks {
			blockType := block.Type
			if !blockType.IsBlocking() && exception.Type.IsBlocking() {
				blockType = exception.Type
			}
			if !blockType.IsBlocking() {
				continue
			}
			blockers = append(blockers, domain.TimeBlock{
				StartTime: block.StartTime,
				EndTime:   block.EndTime,
				Type:      blockType,
			})
		}
	}

	return s.ApplyBlockedTimes(available, blockers)
}
