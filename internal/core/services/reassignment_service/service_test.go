package reassignment_service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorloop/mentor-slots-generator/internal/core/domain"
	"github.com/mentorloop/mentor-slots-generator/internal/core/json_types"
	"github.com/mentorloop/mentor-slots-generator/internal/core/ports/out"
)

type noopLogger struct{}

func (noopLogger) Debug(string, out.LogFields)               {}
func (noopLogger) Info(string, out.LogFields)                {}
func (noopLogger) Warn(string, out.LogFields)                {}
func (noopLogger) Error(string, out.LogFields)               {}
func (l noopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l noopLogger) WithModule(string) out.LoggerPort        { return l }

type mockReplacement struct {
	mentorID *uuid.UUID
	err      error

	excludedSeen []uuid.UUID
}

func (m *mockReplacement) FindReplacementMentor(ctx context.Context, at time.Time, duration int, excludeIDs []uuid.UUID) (*uuid.UUID, error) {
	m.excludedSeen = excludeIDs
	return m.mentorID, m.err
}

type sentNotification struct {
	userID  uuid.UUID
	event   out.NotificationEvent
	payload map[string]interface{}
}

type mockNotifier struct {
	err  error
	sent []sentNotification
}

func (m *mockNotifier) Notify(ctx context.Context, userID uuid.UUID, event out.NotificationEvent, payload map[string]interface{}) error {
	m.sent = append(m.sent, sentNotification{userID: userID, event: event, payload: payload})
	return m.err
}

func testBooking() domain.Booking {
	return domain.Booking{
		ID:          uuid.New(),
		MentorID:    uuid.New(),
		MenteeID:    uuid.New(),
		ScheduledAt: json_types.DateTime{Date: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)},
		Duration:    60,
		Status:      domain.BookingStatusCancelled,
	}
}

func TestHandleMentorCancellation_ReplacementFound(t *testing.T) {
	replacementID := uuid.New()
	replacement := &mockReplacement{mentorID: &replacementID}
	notifier := &mockNotifier{}
	booking := testBooking()

	s := NewReassignmentService(replacement, notifier, noopLogger{})

	outcome, err := s.HandleMentorCancellation(context.Background(), booking)
	require.NoError(t, err)

	assert.Equal(t, domain.ReassignmentStatePendingMenteeAcceptance, outcome.State)
	require.NotNil(t, outcome.ReplacementMentor)
	assert.Equal(t, replacementID, *outcome.ReplacementMentor)

	// Отменивший ментор исключен из поиска
	assert.Equal(t, []uuid.UUID{booking.MentorID}, replacement.excludedSeen)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, booking.MenteeID, notifier.sent[0].userID)
	assert.Equal(t, out.NotificationReplacementOffered, notifier.sent[0].event)
	assert.Equal(t, replacementID.String(), notifier.sent[0].payload["replacementMentor"])
}

func TestHandleMentorCancellation_NoReplacement(t *testing.T) {
	notifier := &mockNotifier{}
	booking := testBooking()

	s := NewReassignmentService(&mockReplacement{}, notifier, noopLogger{})

	outcome, err := s.HandleMentorCancellation(context.Background(), booking)
	require.NoError(t, err)

	assert.Equal(t, domain.ReassignmentStateAwaitingMenteeAction, outcome.State)
	assert.Nil(t, outcome.ReplacementMentor)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, out.NotificationNoReplacement, notifier.sent[0].event)
}

func TestHandleMentorCancellation_SearchErrorPropagates(t *testing.T) {
	replacement := &mockReplacement{err: errors.New("platform down")}
	s := NewReassignmentService(replacement, &mockNotifier{}, noopLogger{})

	_, err := s.HandleMentorCancellation(context.Background(), testBooking())
	assert.Error(t, err)
}

func TestHandleMentorCancellation_NotifyFailureIsNotFatal(t *testing.T) {
	replacementID := uuid.New()
	notifier := &mockNotifier{err: errors.New("broker down")}

	s := NewReassignmentService(&mockReplacement{mentorID: &replacementID}, notifier, noopLogger{})

	outcome, err := s.HandleMentorCancellation(context.Background(), testBooking())
	require.NoError(t, err)
	assert.Equal(t, domain.ReassignmentStatePendingMenteeAcceptance, outcome.State)
}

func TestAcceptReplacement(t *testing.T) {
	notifier := &mockNotifier{}
	s := NewReassignmentService(&mockReplacement{}, notifier, noopLogger{})

	next, err := s.AcceptReplacement(context.Background(), testBooking(), domain.ReassignmentStatePendingMenteeAcceptance)
	require.NoError(t, err)
	assert.Equal(t, domain.ReassignmentStateScheduledWithNewMentor, next)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, out.NotificationReassignConfirmed, notifier.sent[0].event)
}

func TestRejectReplacement_RequestsRefund(t *testing.T) {
	notifier := &mockNotifier{}
	s := NewReassignmentService(&mockReplacement{}, notifier, noopLogger{})

	next, err := s.RejectReplacement(context.Background(), testBooking(), domain.ReassignmentStatePendingMenteeAcceptance)
	require.NoError(t, err)
	assert.Equal(t, domain.ReassignmentStateCancelledRefunded, next)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, out.NotificationRefundRequested, notifier.sent[0].event)
}

func TestPickMentor(t *testing.T) {
	s := NewReassignmentService(&mockReplacement{}, &mockNotifier{}, noopLogger{})

	next, err := s.PickMentor(context.Background(), testBooking(), domain.ReassignmentStateAwaitingMenteeAction, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.ReassignmentStateScheduled, next)
}

func TestCancelForRefund(t *testing.T) {
	notifier := &mockNotifier{}
	s := NewReassignmentService(&mockReplacement{}, notifier, noopLogger{})

	next, err := s.CancelForRefund(context.Background(), testBooking(), domain.ReassignmentStateAwaitingMenteeAction)
	require.NoError(t, err)
	assert.Equal(t, domain.ReassignmentStateCancelledRefunded, next)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, out.NotificationRefundRequested, notifier.sent[0].event)
}

func TestInvalidTransitionsRejected(t *testing.T) {
	s := NewReassignmentService(&mockReplacement{}, &mockNotifier{}, noopLogger{})
	booking := testBooking()

	var invalid *domain.ErrInvalidTransition

	_, err := s.AcceptReplacement(context.Background(), booking, domain.ReassignmentStateAwaitingMenteeAction)
	assert.ErrorAs(t, err, &invalid)

	_, err = s.PickMentor(context.Background(), booking, domain.ReassignmentStatePendingMenteeAcceptance, uuid.New())
	assert.ErrorAs(t, err, &invalid)

	_, err = s.CancelForRefund(context.Background(), booking, domain.ReassignmentStateScheduled)
	assert.ErrorAs(t, err, &invalid)
}

func TestRefundRequestFailurePropagates(t *testing.T) {
	notifier := &mockNotifier{err: errors.New("broker down")}
	s := NewReassignmentService(&mockReplacement{}, notifier, noopLogger{})

	next, err := s.RejectReplacement(context.Background(), testBooking(), domain.ReassignmentStatePendingMenteeAcceptance)
	assert.Error(t, err)
	// Переход состоялся, упал только запрос возврата
	assert.Equal(t, domain.ReassignmentStateCancelledRefunded, next)
}
