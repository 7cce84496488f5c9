package domain

import "github.com/google/uuid"

type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "PENDING"
	VerificationStatusVerified VerificationStatus = "VERIFIED"
	VerificationStatusRejected VerificationStatus = "REJECTED"
)

// ReplacementCandidate - кандидат на замену ментора со всеми данными,
// необходимыми для проверки пригодности. Загружается одним батч-запросом,
// фильтрация выполняется в памяти.
type ReplacementCandidate struct {
	UserID             uuid.UUID               `json:"userId"`
	IsAvailable        bool                    `json:"isAvailable"`
	VerificationStatus VerificationStatus      `json:"verificationStatus"`
	Schedule           AvailabilitySchedule    `json:"schedule"`
	Patterns           []WeeklyPattern         `json:"patterns"`
	Exceptions         []AvailabilityException `json:"exceptions"`
	Bookings           []Booking               `json:"bookings"`
}
