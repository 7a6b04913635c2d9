package scheduler

import (
	"testing"
	"time"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandWeekBasic(t *testing.T) {
	// 2025-06-02 是周一
	draft := domain.NewScheduleDraft()
	draft.Title = "王教练的排班"
	draft.StaffID = 7
	draft.BranchID = 1
	draft.ScheduleDate = "2025-06-02"
	draft.Type = domain.ScheduleTypeClass

	monday := draft.Availability[domain.WeekdayMonday]
	monday.Enabled = true
	monday.Shifts = []string{ShiftMorning, ShiftAfternoon}

	wednesday := draft.Availability[domain.WeekdayWednesday]
	wednesday.Enabled = true
	wednesday.Shifts = []string{ShiftEvening}

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	instances, err := ExpandWeek(draft, NewCustomTimeTable(), now)
	require.NoError(t, err)
	require.Len(t, instances, 3)

	assert.Equal(t, "王教练的排班 - 早班", instances[0].Name)
	assert.Equal(t, "2025-06-02", instances[0].Date)
	assert.Equal(t, "08:00", instances[0].StartTime)
	assert.Equal(t, "12:00", instances[0].EndTime)

	assert.Equal(t, "王教练的排班 - 午班", instances[1].Name)
	assert.Equal(t, "2025-06-02", instances[1].Date)
	assert.Equal(t, "13:00", instances[1].StartTime)
	assert.Equal(t, "17:00", instances[1].EndTime)

	assert.Equal(t, "王教练的排班 - 晚班", instances[2].Name)
	assert.Equal(t, "2025-06-04", instances[2].Date)
	assert.Equal(t, "18:00", instances[2].StartTime)
	assert.Equal(t, "22:00", instances[2].EndTime)

	for _, instance := range instances {
		assert.Equal(t, int64(7), instance.StaffID)
		assert.Equal(t, int64(1), instance.BranchID)
		assert.Equal(t, domain.ScheduleTypeClass, instance.Type)
		assert.Equal(t, domain.ScheduleStatusScheduled, instance.Status)
		assert.Equal(t, int32(1), instance.MaxCapacity)
		assert.Equal(t, int32(0), instance.CurrentBookings)
		assert.False(t, instance.IsRecurring)
	}
}

func TestExpandWeekSynthesizedCustomShift(t *testing.T) {
	draft := domain.NewScheduleDraft()
	draft.Title = "李前台的排班"
	draft.ScheduleDate = "2025-06-02"
	draft.Type = domain.ScheduleTypeFreeTime

	friday := draft.Availability[domain.WeekdayFriday]
	friday.Enabled = true
	friday.Shifts = []string{"CUSTOM_09:30-11:00"}

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	instances, err := ExpandWeek(draft, nil, now)
	require.NoError(t, err)
	require.Len(t, instances, 1)

	assert.Equal(t, "李前台的排班 - 自定义班次 09:30-11:00", instances[0].Name)
	assert.Equal(t, "2025-06-06", instances[0].Date)
	assert.Equal(t, "09:30", instances[0].StartTime)
	assert.Equal(t, "11:00", instances[0].EndTime)
}

func TestExpandWeekOverrideWins(t *testing.T) {
	draft := domain.NewScheduleDraft()
	draft.Title = "张教练的排班"
	draft.ScheduleDate = "2025-06-02"
	draft.Type = domain.ScheduleTypePersonalTraining

	monday := draft.Availability[domain.WeekdayMonday]
	monday.Enabled = true
	monday.Shifts = []string{ShiftMorning}

	overrides := NewCustomTimeTable()
	overrides.SetOverride(domain.WeekdayMonday, ShiftMorning, &ShiftTime{Start: "07:00", End: "11:00"})

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	instances, err := ExpandWeek(draft, overrides, now)
	require.NoError(t, err)
	require.Len(t, instances, 1)

	assert.Equal(t, "07:00", instances[0].StartTime)
	assert.Equal(t, "11:00", instances[0].EndTime)
}

func TestExpandWeekSkipsDaysBeforeToday(t *testing.T) {
	draft := domain.NewScheduleDraft()
	draft.Title = "排班"
	draft.ScheduleDate = "2025-06-02"
	draft.Type = domain.ScheduleTypeClass

	for _, day := range []domain.Weekday{domain.WeekdayMonday, domain.WeekdayWednesday, domain.WeekdayFriday} {
		entry := draft.Availability[day]
		entry.Enabled = true
		entry.Shifts = []string{ShiftMorning}
	}

	// 今天是周三，周一的排班应该被跳过，周三当天的保留
	now := time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)
	instances, err := ExpandWeek(draft, nil, now)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	assert.Equal(t, "2025-06-04", instances[0].Date)
	assert.Equal(t, "2025-06-06", instances[1].Date)
}

func TestExpandWeekTodayAcrossTimezones(t *testing.T) {
	draft := domain.NewScheduleDraft()
	draft.Title = "排班"
	draft.ScheduleDate = "2025-06-02"
	draft.Type = domain.ScheduleTypeClass

	monday := draft.Availability[domain.WeekdayMonday]
	monday.Enabled = true
	monday.Shifts = []string{ShiftMorning}

	// 西五区凌晨：UTC 已经是第二天，但当天的排班不能被跳过
	est := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2025, 6, 2, 1, 0, 0, 0, est)
	instances, err := ExpandWeek(draft, nil, now)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "2025-06-02", instances[0].Date)

	// 东八区深夜：当天还没过完，同样保留
	cst := time.FixedZone("UTC+8", 8*60*60)
	now = time.Date(2025, 6, 2, 23, 0, 0, 0, cst)
	instances, err = ExpandWeek(draft, nil, now)
	require.NoError(t, err)
	require.Len(t, instances, 1)

	// 东八区第二天凌晨：昨天的排班要被跳过
	now = time.Date(2025, 6, 3, 1, 0, 0, 0, cst)
	instances, err = ExpandWeek(draft, nil, now)
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestExpandWeekDisabledAndEmptyDaysProduceNothing(t *testing.T) {
	draft := domain.NewScheduleDraft()
	draft.Title = "排班"
	draft.ScheduleDate = "2025-06-02"

	// 启用但没有班次
	draft.Availability[domain.WeekdayMonday].Enabled = true

	// 有班次但没有启用
	tuesday := draft.Availability[domain.WeekdayTuesday]
	tuesday.Shifts = []string{ShiftMorning}

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	instances, err := ExpandWeek(draft, nil, now)
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestExpandWeekAnchorMidWeekRollsForward(t *testing.T) {
	// 2025-06-05 是周四，周一滚动到下一个周一而不是回到过去
	draft := domain.NewScheduleDraft()
	draft.Title = "排班"
	draft.ScheduleDate = "2025-06-05"
	draft.Type = domain.ScheduleTypeClass

	monday := draft.Availability[domain.WeekdayMonday]
	monday.Enabled = true
	monday.Shifts = []string{ShiftMorning}

	thursday := draft.Availability[domain.WeekdayThursday]
	thursday.Enabled = true
	thursday.Shifts = []string{ShiftMorning}

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	instances, err := ExpandWeek(draft, nil, now)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	assert.Equal(t, "2025-06-09", instances[0].Date)
	assert.Equal(t, "2025-06-05", instances[1].Date)
}

func TestExpandWeekInvalidAnchorDate(t *testing.T) {
	draft := domain.NewScheduleDraft()
	draft.ScheduleDate = "06/02/2025"

	_, err := ExpandWeek(draft, nil, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "排班日期格式错误")
}
