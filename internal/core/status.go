package core

import "fmt"

// Status is a lifecycle state of an order or quote.
//
// Orders:  DRAFT → CONFIRMED → PAID → READY → DELIVERED, with CANCELLED
// reachable from every non-terminal state.
// Quotes:  DRAFT → SENT → ACCEPTED | DECLINED | EXPIRED, with CANCELLED
// reachable from DRAFT or SENT. An ACCEPTED quote may be converted into a
// new order; conversion creates a distinct aggregate, not a quote state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusPaid      Status = "PAID"
	StatusReady     Status = "READY"
	StatusDelivered Status = "DELIVERED"
	StatusSent      Status = "SENT"
	StatusAccepted  Status = "ACCEPTED"
	StatusDeclined  Status = "DECLINED"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// Action is a status-changing command applied to an aggregate.
type Action string

const (
	ActionConfirm   Action = "confirm"
	ActionMarkPaid  Action = "mark_paid"
	ActionMarkReady Action = "mark_ready"
	ActionDeliver   Action = "deliver"
	ActionSend      Action = "send"
	ActionAccept    Action = "accept"
	ActionDecline   Action = "decline"
	ActionExpire    Action = "expire"
	ActionCancel    Action = "cancel"
)

// transitions is the complete legal transition table. Any (kind, status,
// action) triple absent from it is rejected. Terminal states (DELIVERED,
// ACCEPTED, DECLINED, EXPIRED, CANCELLED) have no outgoing entries.
var transitions = map[Kind]map[Status]map[Action]Status{
	KindOrder: {
		StatusDraft: {
			ActionConfirm: StatusConfirmed,
			ActionCancel:  StatusCancelled,
		},
		StatusConfirmed: {
			ActionMarkPaid: StatusPaid,
			ActionCancel:   StatusCancelled,
		},
		StatusPaid: {
			ActionMarkReady: StatusReady,
			ActionCancel:    StatusCancelled,
		},
		StatusReady: {
			ActionDeliver: StatusDelivered,
			ActionCancel:  StatusCancelled,
		},
	},
	KindQuote: {
		StatusDraft: {
			ActionSend:   StatusSent,
			ActionCancel: StatusCancelled,
		},
		StatusSent: {
			ActionAccept:  StatusAccepted,
			ActionDecline: StatusDeclined,
			ActionExpire:  StatusExpired,
			ActionCancel:  StatusCancelled,
		},
	},
}

// Transition resolves the next status for an aggregate of the given kind.
// It is pure: the StatusChanged audit entry that accompanies every applied
// transition is written by the aggregate operation, inside the same database
// transaction as the status update.
func Transition(kind Kind, current Status, action Action) (Status, error) {
	next, ok := transitions[kind][current][action]
	if !ok {
		return "", fmt.Errorf("%w: %s %s does not allow %q", ErrIllegalTransition, kind, current, action)
	}
	return next, nil
}

// ValidStatus reports whether s belongs to the legal state set for kind.
func ValidStatus(kind Kind, s Status) bool {
	switch kind {
	case KindOrder:
		switch s {
		case StatusDraft, StatusConfirmed, StatusPaid, StatusReady, StatusDelivered, StatusCancelled:
			return true
		}
	case KindQuote:
		switch s {
		case StatusDraft, StatusSent, StatusAccepted, StatusDeclined, StatusExpired, StatusCancelled:
			return true
		}
	}
	return false
}
