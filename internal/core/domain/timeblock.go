package domain

import (
	"fmt"

	"github.com/mentorloop/mentor-slots-generator/internal/core/json_types"
)

type TimeBlockType string

const (
	TimeBlockTypeAvailable TimeBlockType = "AVAILABLE"
	TimeBlockTypeBreak     TimeBlockType = "BREAK"
	TimeBlockTypeBuffer    TimeBlockType = "BUFFER"
	TimeBlockTypeBlocked   TimeBlockType = "BLOCKED"
)

// IsBlocking - вырезается ли блок этого типа из доступного времени.
// BUFFER не вырезается: буфер учитывается на этапе генерации слотов,
// а не как вырезанный интервал.
func (t TimeBlockType) IsBlocking() bool {
	return t == TimeBlockTypeBlocked || t == TimeBlockTypeBreak
}

// TimeBlock - именованный интервал внутри одного дня.
// Время локальное ("стеночные часы"), интерпретируется в таймзоне расписания.
// Инвариант: EndTime строго позже StartTime, блоки не пересекают полночь.
type TimeBlock struct {
	StartTime   json_types.TimeOfDay `json:"startTime"`
	EndTime     json_types.TimeOfDay `json:"endTime"`
	Type        TimeBlockType        `json:"type"`
	MaxBookings int                  `json:"maxBookings,omitempty"`
}

type InvalidTimeBlockError struct {
	Block   TimeBlock
	Message string
}

func (e *InvalidTimeBlockError) Error() string {
	return fmt.Sprintf("invalid time block %s-%s: %s", e.Block.StartTime, e.Block.EndTime, e.Message)
}

type OverlapType string

const (
	OverlapTypeFull      OverlapType = "full"
	OverlapTypeContains  OverlapType = "contains"
	OverlapTypeContained OverlapType = "contained"
	OverlapTypePartial   OverlapType = "partial"
)

// OverlapInfo - результат проверки пересечения двух блоков.
// Start и End - границы пересекающегося подинтервала.
type OverlapInfo struct {
	Type   OverlapType          `json:"type"`
	Start  json_types.TimeOfDay `json:"start"`
	End    json_types.TimeOfDay `json:"end"`
	BlockA TimeBlock            `json:"blockA"`
	BlockB TimeBlock            `json:"blockB"`
}

// ValidationResult - результат валидации нового блока против существующих.
// Ошибки валидации не являются ошибками исполнения: IsValid=false + Errors.
type ValidationResult struct {
	IsValid  bool          `json:"isValid"`
	Errors   []string      `json:"errors"`
	Overlaps []OverlapInfo `json:"overlaps"`
}
