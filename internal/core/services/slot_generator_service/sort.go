package slot_generator_service

import "github.com/mentorloop/mentor-slots-generator/internal/core/domain"

type SlotSlice []domain.Slot

// quickSort - сортировка слотов по времени начала
func (s SlotSlice) quickSort() SlotSlice {
	if len(s) < 2 {
		return s
	}

	// Выбираем опорный элемент
	pivot := s[len(s)/2]

	less := SlotSlice{}
	equal := SlotSlice{}
	greater := SlotSlice{}

	for _, slot := range s {
		if slot.StartTime.Before(pivot.StartTime) {
			less = append(less, slot)
		} else if slot.StartTime.Equal(pivot.StartTime) {
			equal = append(equal, slot)
		} else {
			greater = append(greater, slot)
		}
	}

	// Рекурсивно сортируем подмассивы и объединяем их
	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}
