package domain

import "fmt"

// Машина состояний переназначения сессии после отмены ментором.

type ReassignmentState string

const (
	ReassignmentStateCancelledByMentor       ReassignmentState = "CANCELLED_BY_MENTOR"
	ReassignmentStateReplacementFound        ReassignmentState = "REPLACEMENT_FOUND"
	ReassignmentStatePendingMenteeAcceptance ReassignmentState = "PENDING_MENTEE_ACCEPTANCE"
	ReassignmentStateScheduledWithNewMentor  ReassignmentState = "SCHEDULED_WITH_NEW_MENTOR"
	ReassignmentStateNoReplacementFound      ReassignmentState = "NO_REPLACEMENT_FOUND"
	ReassignmentStateAwaitingMenteeAction    ReassignmentState = "AWAITING_MENTEE_ACTION"
	ReassignmentStateScheduled               ReassignmentState = "SCHEDULED"
	ReassignmentStateCancelledRefunded       ReassignmentState = "CANCELLED_REFUNDED"
)

type ReassignmentEvent string

const (
	ReassignmentEventReplacementFound   ReassignmentEvent = "replacement_found"
	ReassignmentEventNoReplacement      ReassignmentEvent = "no_replacement"
	ReassignmentEventOfferSent          ReassignmentEvent = "offer_sent"
	ReassignmentEventMenteeAccepted     ReassignmentEvent = "mentee_accepted"
	ReassignmentEventMenteeRejected     ReassignmentEvent = "mentee_rejected"
	ReassignmentEventMenteePickedMentor ReassignmentEvent = "mentee_picked_mentor"
	ReassignmentEventMenteeCancelled    ReassignmentEvent = "mentee_cancelled"
)

type ErrInvalidTransition struct {
	State ReassignmentState
	Event ReassignmentEvent
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid reassignment transition: state=%s event=%s", e.State, e.Event)
}

var reassignmentTransitions = map[ReassignmentState]map[ReassignmentEvent]ReassignmentState{
	ReassignmentStateCancelledByMentor: {
		ReassignmentEventReplacementFound: ReassignmentStateReplacementFound,
		ReassignmentEventNoReplacement:    ReassignmentStateNoReplacementFound,
	},
	ReassignmentStateReplacementFound: {
		ReassignmentEventOfferSent: ReassignmentStatePendingMenteeAcceptance,
	},
	ReassignmentStatePendingMenteeAcceptance: {
		ReassignmentEventMenteeAccepted: ReassignmentStateScheduledWithNewMentor,
		ReassignmentEventMenteeRejected: ReassignmentStateCancelledRefunded,
	},
	ReassignmentStateNoReplacementFound: {
		ReassignmentEventOfferSent: ReassignmentStateAwaitingMenteeAction,
	},
	ReassignmentStateAwaitingMenteeAction: {
		ReassignmentEventMenteePickedMentor: ReassignmentStateScheduled,
		ReassignmentEventMenteeCancelled:    ReassignmentStateCancelledRefunded,
	},
}

// Transition возвращает следующее состояние или ошибку для недопустимого перехода
func Transition(state ReassignmentState, event ReassignmentEvent) (ReassignmentState, error) {
	events, ok := reassignmentTransitions[state]
	if !ok {
		return "", &ErrInvalidTransition{State: state, Event: event}
	}

	next, ok := events[event]
	if !ok {
		return "", &ErrInvalidTransition{State: state, Event: event}
	}

	return next, nil
}
