package json_types

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Формат времени внутри дня - "HH:MM", 24 часа.
// Ведущие нули обязательны: строковое сравнение границ блоков
// корректно только для строк фиксированной ширины.
var timeOfDayRegexp = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay парсит строку "HH:MM" в TimeOfDay
func ParseTimeOfDay(str string) (TimeOfDay, error) {
	if !timeOfDayRegexp.MatchString(str) {
		return TimeOfDay{}, fmt.Errorf("invalid time of day format: %q", str)
	}

	var hour, minute int
	if _, err := fmt.Sscanf(str, "%d:%d", &hour, &minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day format: %q", str)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// TimeOfDayFromMinutes создает TimeOfDay из минут с начала дня
func TimeOfDayFromMinutes(minutes int) TimeOfDay {
	return TimeOfDay{Hour: minutes / 60, Minute: minutes % 60}
}

// Minutes возвращает количество минут с начала дня
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// String возвращает время в формате "HH:MM" с ведущими нулями
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("failed to parse time of day: %v", err)
	}

	parsed, err := ParseTimeOfDay(str)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
