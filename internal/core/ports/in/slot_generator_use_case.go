package in

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
)

// SlotQuery - параметры запроса слотов.
// Duration=0 означает длительность по умолчанию из расписания,
// Timezone="" - таймзону расписания.
type SlotQuery struct {
	StartDate time.Time
	EndDate   time.Time
	Duration  int
	Timezone  string
}

type SlotGeneratorUseCase interface {
	// Генерация всех слотов за период, включая занятые (detailed-режим)
	GenerateSlots(ctx context.Context, mentorID uuid.UUID, query SlotQuery) (*domain.SlotsResult, []domain.DebugInfo, error)

	// Генерация только свободных слотов за период
	GenerateAvailableSlots(ctx context.Context, mentorID uuid.UUID, query SlotQuery) (*domain.SlotsResult, error)

	// Валидация нового блока времени против существующих
	ValidateTimeBlock(newBlock domain.TimeBlock, existing []domain.TimeBlock, allowedOverlapTypes []domain.TimeBlockType) domain.ValidationResult
}
