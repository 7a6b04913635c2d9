package scheduler

import (
	"testing"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTemplateMultiShift(t *testing.T) {
	payload, err := EncodeTemplatePayload([]domain.TemplateShiftGroup{
		{
			ShiftType:  ShiftMorning,
			StartTime:  "07:00",
			EndTime:    "11:00",
			DaysOfWeek: []domain.Weekday{domain.WeekdayMonday, domain.WeekdayTuesday},
		},
	})
	require.NoError(t, err)

	template := &domain.ScheduleTemplate{
		BranchID: 1,
		Type:     domain.ScheduleTypeClass,
		Notes:    payload,
	}

	applied := ApplyTemplate(template)
	require.NotNil(t, applied)
	assert.False(t, applied.StaffLocked)

	for _, day := range []domain.Weekday{domain.WeekdayMonday, domain.WeekdayTuesday} {
		entry := applied.Draft.Availability[day]
		assert.True(t, entry.Enabled)
		assert.Equal(t, []string{ShiftMorning}, entry.Shifts)

		st, exists := applied.Overrides.Override(day, ShiftMorning)
		require.True(t, exists)
		assert.Equal(t, ShiftTime{Start: "07:00", End: "11:00"}, st)
	}

	// 其他天保持停用
	assert.False(t, applied.Draft.Availability[domain.WeekdayWednesday].Enabled)
	assert.Equal(t, domain.ScheduleTypeClass, applied.Draft.Type)
	assert.Equal(t, int64(1), applied.Draft.BranchID)
}

func TestApplyTemplateLegacySingleShift(t *testing.T) {
	template := &domain.ScheduleTemplate{
		BranchID:   2,
		Type:       domain.ScheduleTypeFreeTime,
		DaysOfWeek: []domain.Weekday{domain.WeekdaySaturday},
		StartTime:  "09:00",
		EndTime:    "18:00",
		Notes:      "这是一条普通备注",
	}

	applied := ApplyTemplate(template)

	entry := applied.Draft.Availability[domain.WeekdaySaturday]
	assert.True(t, entry.Enabled)
	assert.Equal(t, []string{ShiftMorning, ShiftAfternoon}, entry.Shifts)
	assert.Equal(t, "09:00", entry.StartTime)
	assert.Equal(t, "18:00", entry.EndTime)

	assert.Equal(t, "09:00", applied.Draft.StartTime)
	assert.Equal(t, "18:00", applied.Draft.EndTime)
}

func TestApplyTemplateStaffLock(t *testing.T) {
	staffID := int64(42)
	template := &domain.ScheduleTemplate{
		BranchID: 1,
		StaffID:  &staffID,
	}

	applied := ApplyTemplate(template)
	assert.True(t, applied.StaffLocked)
	assert.Equal(t, int64(42), applied.Draft.StaffID)
}

func TestBuildTemplateFromDraftGrouping(t *testing.T) {
	draft := domain.NewScheduleDraft()
	draft.StaffID = 7
	draft.BranchID = 1
	draft.Type = domain.ScheduleTypeClass

	for _, day := range []domain.Weekday{domain.WeekdayMonday, domain.WeekdayWednesday} {
		entry := draft.Availability[day]
		entry.Enabled = true
		entry.Shifts = []string{ShiftMorning, ShiftEvening}
	}

	template, err := BuildTemplateFromDraft(draft, NewCustomTimeTable(), BuildTemplateOptions{
		Name:        "工作日模板",
		Description: "周一周三上早晚班",
	})
	require.NoError(t, err)

	assert.Equal(t, "工作日模板", template.Name)
	assert.Equal(t, []domain.Weekday{domain.WeekdayMonday, domain.WeekdayWednesday}, template.DaysOfWeek)
	require.NotNil(t, template.StaffID)
	assert.Equal(t, int64(7), *template.StaffID)

	groups := DecodeTemplatePayload(template.Notes)
	require.Len(t, groups, 2)

	assert.Equal(t, ShiftMorning, groups[0].ShiftType)
	assert.Equal(t, "08:00", groups[0].StartTime)
	assert.Equal(t, "12:00", groups[0].EndTime)
	assert.Equal(t, []domain.Weekday{domain.WeekdayMonday, domain.WeekdayWednesday}, groups[0].DaysOfWeek)

	assert.Equal(t, ShiftEvening, groups[1].ShiftType)
	assert.Equal(t, []domain.Weekday{domain.WeekdayMonday, domain.WeekdayWednesday}, groups[1].DaysOfWeek)

	// 模板摘要时间取第一组
	assert.Equal(t, "08:00", template.StartTime)
	assert.Equal(t, "12:00", template.EndTime)
}

func TestBuildTemplateFromDraftOverrideWins(t *testing.T) {
	draft := domain.NewScheduleDraft()
	draft.BranchID = 1

	monday := draft.Availability[domain.WeekdayMonday]
	monday.Enabled = true
	monday.Shifts = []string{ShiftMorning}

	tuesday := draft.Availability[domain.WeekdayTuesday]
	tuesday.Enabled = true
	tuesday.Shifts = []string{ShiftMorning}

	// 周一没有覆盖，周二有覆盖：分组时间应该采用覆盖值
	overrides := NewCustomTimeTable()
	overrides.SetOverride(domain.WeekdayTuesday, ShiftMorning, &ShiftTime{Start: "07:00", End: "11:00"})

	template, err := BuildTemplateFromDraft(draft, overrides, BuildTemplateOptions{Name: "模板"})
	require.NoError(t, err)

	groups := DecodeTemplatePayload(template.Notes)
	require.Len(t, groups, 1)
	assert.Equal(t, "07:00", groups[0].StartTime)
	assert.Equal(t, "11:00", groups[0].EndTime)
	assert.Equal(t, []domain.Weekday{domain.WeekdayMonday, domain.WeekdayTuesday}, groups[0].DaysOfWeek)
}

func TestBuildTemplateFromDraftClassTakesPrecedence(t *testing.T) {
	draft := domain.NewScheduleDraft()
	draft.StaffID = 7
	draft.BranchID = 1

	monday := draft.Availability[domain.WeekdayMonday]
	monday.Enabled = true
	monday.Shifts = []string{ShiftMorning}

	classID := int64(3)
	template, err := BuildTemplateFromDraft(draft, nil, BuildTemplateOptions{Name: "课程模板", ClassID: &classID})
	require.NoError(t, err)

	require.NotNil(t, template.ClassID)
	assert.Equal(t, int64(3), *template.ClassID)
	assert.Nil(t, template.StaffID)
}

func TestApplyThenBuildRoundTrip(t *testing.T) {
	payload, err := EncodeTemplatePayload([]domain.TemplateShiftGroup{
		{
			ShiftType:  ShiftAfternoon,
			StartTime:  "14:00",
			EndTime:    "18:00",
			DaysOfWeek: []domain.Weekday{domain.WeekdayTuesday, domain.WeekdayThursday},
		},
	})
	require.NoError(t, err)

	original := &domain.ScheduleTemplate{
		BranchID: 1,
		Type:     domain.ScheduleTypeClass,
		Notes:    payload,
	}

	applied := ApplyTemplate(original)
	rebuilt, err := BuildTemplateFromDraft(applied.Draft, applied.Overrides, BuildTemplateOptions{Name: "重建"})
	require.NoError(t, err)

	assert.Equal(t, DecodeTemplatePayload(original.Notes), DecodeTemplatePayload(rebuilt.Notes))
}
