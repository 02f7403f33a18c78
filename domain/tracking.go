package domain

import (
	"time"
)

var (
	MessageSuccessGetTracking = "order tracking retrieved successfully"
	MessageFailedGetTracking  = "failed to retrieve order tracking"
)

type (
	// TrackedOrderResponse is the display projection the tracker pushes to
	// clients: raw order fields plus the derived progress and ETA.
	TrackedOrderResponse struct {
		ID            string              `json:"id"`
		TableCode     string              `json:"table_code"`
		Items         []OrderItemResponse `json:"items"`
		TotalAmount   float64             `json:"total_amount"`
		Status        string              `json:"status"`
		StatusLabel   string              `json:"status_label"`
		Progress      int                 `json:"progress"`
		EstimatedAt   time.Time           `json:"estimated_at"`
		Notes         string              `json:"notes,omitempty"`
		CreatedAt     time.Time           `json:"created_at"`
	}

	TrackingSnapshotResponse struct {
		Orders []TrackedOrderResponse `json:"orders"`
	}
)
