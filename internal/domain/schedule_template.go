package domain

import (
	"time"
)

// TemplateShiftGroup 是模板 notes 字段中多班次载荷的一项，
// 字段名需要和已有的存量模板数据保持兼容，不能随意改动
type TemplateShiftGroup struct {
	ShiftType  string    `json:"shiftType"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	DaysOfWeek []Weekday `json:"daysOfWeek"`
}

type AutoGenerateSetting struct {
	Enabled     bool   `json:"enabled"`
	AdvanceDays int32  `json:"advanceDays"`
	EndDate     string `json:"endDate,omitempty"`
}

type ScheduleTemplate struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        ScheduleType `json:"type"`
	BranchID    int64        `json:"branchID"`
	// StaffID 和 ClassID 互斥：绑定员工的模板应用时会锁定员工字段
	StaffID      *int64              `json:"staffID,omitempty"`
	ClassID      *int64              `json:"classID,omitempty"`
	DaysOfWeek   []Weekday           `json:"daysOfWeek"`
	StartTime    string              `json:"startTime"`
	EndTime      string              `json:"endTime"`
	Notes        string              `json:"notes"`
	AutoGenerate AutoGenerateSetting `json:"autoGenerate"`
	UsageCount   int32               `json:"usageCount"`
	CreatedAt    time.Time           `json:"createdAt"`
	Version      int32               `json:"-"`
}
