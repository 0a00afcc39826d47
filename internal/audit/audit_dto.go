package audit

import (
	"encoding/json"
	"time"
)

type AuditEntryResponse struct {
	ID          string          `json:"id"`
	LeaveID     string          `json:"leave_id"`
	Action      string          `json:"action"`
	PerformedBy string          `json:"performed_by"`
	Timestamp   string          `json:"timestamp"`
	OldData     json.RawMessage `json:"old_data,omitempty"`
	NewData     json.RawMessage `json:"new_data,omitempty"`
	Remarks     string          `json:"remarks,omitempty"`
}

func mapToResponse(e AuditLogEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:          e.ID.String(),
		LeaveID:     e.LeaveID.String(),
		Action:      e.Action,
		PerformedBy: e.PerformedBy.String(),
		Timestamp:   e.Timestamp.UTC().Format(time.RFC3339),
		OldData:     e.OldData,
		NewData:     e.NewData,
		Remarks:     e.Remarks,
	}
}

func mapToListResponse(entries []AuditLogEntry) []AuditEntryResponse {
	resp := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapToResponse(e)
	}
	return resp
}
