package holiday

import (
	"time"

	"github.com/google/uuid"
)

// Holiday rows are maintained by the organization calendar, not by this
// service. They are served for display only; no business-day math consumes
// them.
type Holiday struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(150);not null"`
	Date time.Time `gorm:"type:date;not null;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID.String(),
		Name: h.Name,
		Date: h.Date.Format("2006-01-02"),
	}
}
