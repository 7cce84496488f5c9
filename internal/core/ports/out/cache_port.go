package out

import (
	"context"

	"github.com/google/uuid"
	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
)

// CachePort - кэширование конфигурации доступности ментора.
// Слоты не кэшируются: каждый запрос пересчитывает их заново,
// кэшируется только медленно меняющаяся конфигурация.
type CachePort interface {
	GetScheduleBundle(ctx context.Context, mentorID uuid.UUID) (*domain.ScheduleBundle, bool)
	StoreScheduleBundle(ctx context.Context, mentorID uuid.UUID, bundle domain.ScheduleBundle)
	InvalidateScheduleBundle(ctx context.Context, mentorID uuid.UUID)
}
