package models

// Request statuses. A request is created as "in progress" (open for
// applications), moves to "pre-begin" once an application is accepted,
// to "active" when the artisan starts the job and to "completed" when the
// last task is done. Requests are never hard-deleted; cancel is a status.
const (
	StatusPending    = "pending"
	StatusInProgress = "in progress"
	StatusPreBegin   = "pre-begin"
	StatusActive     = "active"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Task statuses.
const (
	TaskPending   = "pending"
	TaskCompleted = "completed"
)

// Application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

var requestTransitions = map[string][]string{
	StatusInProgress: {StatusPreBegin, StatusCancelled},
	StatusPreBegin:   {StatusActive, StatusCancelled},
	StatusActive:     {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a request may move from one status to another.
// Terminal statuses (completed, cancelled) have no outgoing transitions.
func CanTransition(from, to string) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
