package tracking

import (
	"time"

	"github.com/m2-berezin/safedine-app/entities"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type statusConfig struct {
	label            string
	progress         int
	remainingMinutes int
}

// Progress percentages are display hints, not business invariants.
var statusTable = map[string]statusConfig{
	StatusPending:   {label: "Order Placed", progress: 20, remainingMinutes: 25},
	StatusConfirmed: {label: "Order Confirmed", progress: 40, remainingMinutes: 20},
	StatusPreparing: {label: "Preparing", progress: 70, remainingMinutes: 10},
	StatusReady:     {label: "Ready for Pickup", progress: 90, remainingMinutes: 0},
	StatusCompleted: {label: "Completed", progress: 100, remainingMinutes: 0},
	StatusCancelled: {label: "Cancelled", progress: 0, remainingMinutes: 0},
}

func configFor(status string) statusConfig {
	if cfg, ok := statusTable[status]; ok {
		return cfg
	}
	// Unknown statuses render as freshly placed.
	return statusTable[StatusPending]
}

func Progress(status string) int {
	return configFor(status).progress
}

func Label(status string) string {
	return configFor(status).label
}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// CanTransition reports whether the kitchen-side status change is legal:
// the linear pending → confirmed → preparing → ready → completed chain,
// with cancelled reachable from any non-terminal state.
func CanTransition(from, to string) bool {
	if IsTerminal(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	next := map[string]string{
		StatusPending:   StatusConfirmed,
		StatusConfirmed: StatusPreparing,
		StatusPreparing: StatusReady,
		StatusReady:     StatusCompleted,
	}
	return next[from] == to
}

// EstimatedCompletion prefers the order's explicit estimate; otherwise it
// derives one from the creation time plus the minutes remaining for the
// current status. Recomputed on every render, never persisted.
func EstimatedCompletion(order *entities.Order) time.Time {
	if order.EstimatedCompletionAt != nil {
		return *order.EstimatedCompletionAt
	}
	remaining := configFor(order.Status).remainingMinutes
	return order.CreatedAt.Add(time.Duration(remaining) * time.Minute)
}
