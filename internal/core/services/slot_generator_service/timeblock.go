package slot_generator_service

import (
	"fmt"
	"sort"

	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/json_types"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
)

// CheckOverlap проверяет пересечение двух блоков.
// Интервалы полуоткрытые: блоки, соприкасающиеся границами, не пересекаются.
// Возвращает nil, если пересечения нет
func CheckOverlap(a, b domain.TimeBlock) (*domain.OverlapInfo, error) {
	aStart, aEnd := a.StartTime.Minutes(), a.EndTime.Minutes()
	bStart, bEnd := b.StartTime.Minutes(), b.EndTime.Minutes()

	if aEnd <= aStart {
		return nil, &domain.InvalidTimeBlockError{Block: a, Message: "end time must be after start time"}
	}
	if bEnd <= bStart {
		return nil, &domain.InvalidTimeBlockError{Block: b, Message: "end time must be after start time"}
	}

	// Нет пересечения
	if aStart >= bEnd || bStart >= aEnd {
		return nil, nil
	}

	var overlapType domain.OverlapType
	switch {
	case aStart == bStart && aEnd == bEnd:
		overlapType = domain.OverlapTypeFull
	case aStart <= bStart && aEnd >= bEnd:
		overlapType = domain.OverlapTypeContains
	case bStart <= aStart && bEnd >= aEnd:
		overlapType = domain.OverlapTypeContained
	default:
		overlapType = domain.OverlapTypePartial
	}

	return &domain.OverlapInfo{
		Type:   overlapType,
		Start:  json_types.TimeOfDayFromMinutes(max(aStart, bStart)),
		End:    json_types.TimeOfDayFromMinutes(min(aEnd, bEnd)),
		BlockA: a,
		BlockB: b,
	}, nil
}

// ValidateTimeBlock валидирует новый блок против существующих.
// Ошибки валидации накапливаются в результате, метод не возвращает ошибку:
// некорректные существующие блоки логируются и пропускаются
func (s *SlotGeneratorService) ValidateTimeBlock(newBlock domain.TimeBlock, existing []domain.TimeBlock, allowedOverlapTypes []domain.TimeBlockType) domain.ValidationResult {
	result := domain.ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Overlaps: []domain.OverlapInfo{},
	}

	if newBlock.EndTime.Minutes() <= newBlock.StartTime.Minutes() {
		result.IsValid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("end time %s must be after start time %s", newBlock.EndTime, newBlock.StartTime))
		return result
	}

	allowed := make(map[domain.TimeBlockType]struct{}, len(allowedOverlapTypes))
	for _, t := range allowedOverlapTypes {
		allowed[t] = struct{}{}
	}

	for _, block := range existing {
		overlap, err := CheckOverlap(newBlock, block)
		if err != nil {
			// Некорректный исторический блок не должен ронять валидацию
			s.logger.Warn("timeblock.validate.malformed_existing_block", out.LogFields{
				"start": block.StartTime.String(),
				"end":   block.EndTime.String(),
				"error": err.Error(),
			})
			continue
		}
		if overlap == nil {
			continue
		}

		result.Overlaps = append(result.Overlaps, *overlap)

		_, newAllowed := allowed[newBlock.Type]
		_, existingAllowed := allowed[block.Type]
		if !newAllowed || !existingAllowed {
			result.IsValid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("block %s-%s overlaps existing %s block %s-%s",
					newBlock.StartTime, newBlock.EndTime, block.Type, block.StartTime, block.EndTime))
		}
	}

	return result
}

// ApplyBlockedTimes вырезает BLOCKED/BREAK блоки из доступных интервалов.
// BUFFER не вырезается: буфер учитывается на этапе генерации слотов.
// Результат - отсортированные объединенные AVAILABLE фрагменты
func (s *SlotGeneratorService) ApplyBlockedTimes(availableBlocks, blockedBlocks []domain.TimeBlock) []domain.TimeBlock {
	type fragment struct {
		start       int
		end         int
		maxBookings int
	}

	fragments := make([]fragment, 0, len(availableBlocks))
	for _, block := range availableBlocks {
		if block.Type != domain.TimeBlockTypeAvailable {
			continue
		}
		if block.EndTime.Minutes() <= block.StartTime.Minutes() {
			s.logger.Warn("timeblock.carve.malformed_available_block", out.LogFields{
				"start": block.StartTime.String(),
				"end":   block.EndTime.String(),
			})
			continue
		}
		fragments = append(fragments, fragment{
			start:       block.StartTime.Minutes(),
			end:         block.EndTime.Minutes(),
			maxBookings: block.MaxBookings,
		})
	}

	for _, blocker := range blockedBlocks {
		if !blocker.Type.IsBlocking() {
			continue
		}
		blockStart, blockEnd := blocker.StartTime.Minutes(), blocker.EndTime.Minutes()
		if blockEnd <= blockStart {
			s.logger.Warn("timeblock.carve.malformed_blocked_block", out.LogFields{
				"start": blocker.StartTime.String(),
				"end":   blocker.EndTime.String(),
			})
			continue
		}

		next := make([]fragment, 0, len(fragments))
		for _, frag := range fragments {
			// Блокер не задевает фрагмент
			if blockStart >= frag.end || blockEnd <= frag.start {
				next = append(next, frag)
				continue
			}
			// Левый остаток
			if blockStart > frag.start {
				next = append(next, fragment{start: frag.start, end: blockStart, maxBookings: frag.maxBookings})
			}
			// Правый остаток
			if blockEnd < frag.end {
				next = append(next, fragment{start: blockEnd, end: frag.end, maxBookings: frag.maxBookings})
			}
		}
		fragments = next
	}

	result := make([]domain.TimeBlock, 0, len(fragments))
	for _, frag := range fragments {
		if frag.end <= frag.start {
			continue
		}
		result = append(result, domain.TimeBlock{
			StartTime:   json_types.TimeOfDayFromMinutes(frag.start),
			EndTime:     json_types.TimeOfDayFromMinutes(frag.end),
			Type:        domain.TimeBlockTypeAvailable,
			MaxBookings: frag.maxBookings,
		})
	}

	return MergeAndSort(result)
}

// MergeAndSort сортирует блоки по началу и объединяет соприкасающиеся
// или пересекающиеся AVAILABLE блоки с одинаковым MaxBookings.
// Блоки других типов остаются как есть в отсортированном порядке
func MergeAndSort(blocks []domain.TimeBlock) []domain.TimeBlock {
	sorted := make([]domain.TimeBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Minutes() < sorted[j].StartTime.Minutes()
	})

	merged := make([]domain.TimeBlock, 0, len(sorted))
	for _, block := range sorted {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			canMerge := last.Type == domain.TimeBlockTypeAvailable &&
				block.Type == domain.TimeBlockTypeAvailable &&
				last.MaxBookings == block.MaxBookings &&
				block.StartTime.Minutes() <= last.EndTime.Minutes()
			if canMerge {
				if block.EndTime.Minutes() > last.EndTime.Minutes() {
					last.EndTime = block.EndTime
				}
				continue
			}
		}
		merged = append(merged, block)
	}

	return merged
}
