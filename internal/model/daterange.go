package model

import (
	"fmt"
	"math"
	"time"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
)

// DateRange is a closed interval of time covered by a report.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Validate ensures the range is not inverted.
func (r DateRange) Validate() error {
	if r.StartDate.After(r.EndDate) {
		return fmt.Errorf("%w: %s is after %s",
			common.ErrInvertedDateRange,
			r.StartDate.Format(time.RFC3339),
			r.EndDate.Format(time.RFC3339))
	}
	return nil
}

// DaysInPeriod returns the number of days the range spans, rounded up and never below 1.
func (r DateRange) DaysInPeriod() int {
	days := int(math.Ceil(r.EndDate.Sub(r.StartDate).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
