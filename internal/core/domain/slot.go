package domain

import "time"

const (
	// SlotReasonBooked - причина недоступности слота, пересекающегося с бронированием
	SlotReasonBooked = "Already booked"

	// ReasonNoSchedule - ментор не настроил доступность
	ReasonNoSchedule = "Mentor has not set up availability"
	// ReasonScheduleInactive - расписание ментора выключено
	ReasonScheduleInactive = "Mentor is currently unavailable"
)

// Slot - дискретный потенциально бронируемый интервал.
// Эфемерный: пересчитывается на каждый запрос, никогда не кэшируется.
type Slot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
}

// SlotsResult - результат генерации слотов.
// Reason заполняется только при пустом списке по конфигурационной причине.
type SlotsResult struct {
	Slots  []Slot `json:"slots"`
	Reason string `json:"reason,omitempty"`
}
