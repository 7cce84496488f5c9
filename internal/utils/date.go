package utils

import (
	"fmt"
	"time"
)

// StartCurrentDay возвращает начало дня для t в его таймзоне
func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartNextDay возвращает начало следующего дня для t в его таймзоне
func StartNextDay(t time.Time) time.Time {
	newDate := t.AddDate(0, 0, 1)
	return time.Date(newDate.Year(), newDate.Month(), newDate.Day(), 0, 0, 0, 0, newDate.Location())
}

// DaysBetween возвращает количество календарных дней между началом start и началом end
func DaysBetween(start, end time.Time) int {
	startDay := StartCurrentDay(start)
	endDay := StartCurrentDay(end)
	return int(endDay.Sub(startDay).Hours() / 24)
}

// ParseDate парсит дату из строки: RFC3339, дата со временем без таймзоны или просто дата
func ParseDate(str string, loc *time.Location) (time.Time, error) {
	parsedDate, err := time.Parse(time.RFC3339, str)
	if err != nil {
		parsedDate, err = time.ParseInLocation("2006-01-02T15:04:05", str, loc)
		if err != nil {
			parsedDate, err = time.ParseInLocation("2006-01-02", str, loc)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse time: %v", err)
			}
		}
	}

	return parsedDate, nil
}
