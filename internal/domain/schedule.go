package domain

import "time"

type ScheduleType string

const (
	ScheduleTypeClass            ScheduleType = "CLASS"
	ScheduleTypePersonalTraining ScheduleType = "PERSONAL_TRAINING"
	ScheduleTypeFreeTime         ScheduleType = "FREE_TIME"
	ScheduleTypeMaintenance      ScheduleType = "MAINTENANCE"
)

type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "SCHEDULED"
	ScheduleStatusCompleted ScheduleStatus = "COMPLETED"
	ScheduleStatusCancelled ScheduleStatus = "CANCELLED"
)

type ScheduleInstance struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Type            ScheduleType   `json:"type"`
	StaffID         int64          `json:"staffID"`
	BranchID        int64          `json:"branchID"`
	Date            string         `json:"date"`
	StartTime       string         `json:"startTime"`
	EndTime         string         `json:"endTime"`
	Status          ScheduleStatus `json:"status"`
	MaxCapacity     int32          `json:"maxCapacity"`
	CurrentBookings int32          `json:"currentBookings"`
	Notes           string         `json:"notes,omitempty"`
	IsRecurring     bool           `json:"isRecurring"`
	CreatedAt       time.Time      `json:"createdAt"`
	Version         int32          `json:"-"`
}
