package domain

import "time"

type Weekday string

const (
	WeekdayMonday    Weekday = "MONDAY"
	WeekdayTuesday   Weekday = "TUESDAY"
	WeekdayWednesday Weekday = "WEDNESDAY"
	WeekdayThursday  Weekday = "THURSDAY"
	WeekdayFriday    Weekday = "FRIDAY"
	WeekdaySaturday  Weekday = "SATURDAY"
	WeekdaySunday    Weekday = "SUNDAY"
)

// 固定的星期遍历顺序，保证展开结果的顺序稳定
var WeekdayOrder = []Weekday{
	WeekdayMonday,
	WeekdayTuesday,
	WeekdayWednesday,
	WeekdayThursday,
	WeekdayFriday,
	WeekdaySaturday,
	WeekdaySunday,
}

var weekday2time = map[Weekday]time.Weekday{
	WeekdayMonday:    time.Monday,
	WeekdayTuesday:   time.Tuesday,
	WeekdayWednesday: time.Wednesday,
	WeekdayThursday:  time.Thursday,
	WeekdayFriday:    time.Friday,
	WeekdaySaturday:  time.Saturday,
	WeekdaySunday:    time.Sunday,
}

func (d Weekday) TimeWeekday() time.Weekday {
	return weekday2time[d]
}

func IsValidWeekday(d Weekday) bool {
	_, exists := weekday2time[d]
	return exists
}

type WeekdayAvailability struct {
	Enabled bool `json:"enabled"`
	// 班次 key 列表，保留插入顺序且不允许重复
	Shifts    []string `json:"shifts"`
	StartTime string   `json:"startTime,omitempty"`
	EndTime   string   `json:"endTime,omitempty"`
}

// ScheduleDraft 是一次编辑会话中的排班草稿，只在内存中存在，提交后即被丢弃
type ScheduleDraft struct {
	Title        string                           `json:"title"`
	StaffID      int64                            `json:"staffID"`
	BranchID     int64                            `json:"branchID"`
	ScheduleDate string                           `json:"scheduleDate"`
	Type         ScheduleType                     `json:"type"`
	Notes        string                           `json:"notes,omitempty"`
	Timezone     string                           `json:"timezone,omitempty"`
	StartTime    string                           `json:"startTime,omitempty"`
	EndTime      string                           `json:"endTime,omitempty"`
	Availability map[Weekday]*WeekdayAvailability `json:"availability"`
}

func NewScheduleDraft() *ScheduleDraft {
	draft := &ScheduleDraft{
		Availability: make(map[Weekday]*WeekdayAvailability, len(WeekdayOrder)),
	}

	for _, day := range WeekdayOrder {
		draft.Availability[day] = &WeekdayAvailability{
			Shifts: make([]string, 0),
		}
	}

	return draft
}
