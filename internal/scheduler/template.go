package scheduler

import (
	"slices"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
)

// AppliedTemplate 是模板套用到空白草稿后的结果
type AppliedTemplate struct {
	Draft     *domain.ScheduleDraft `json:"draft"`
	Overrides CustomTimeTable       `json:"customTimes"`
	// 绑定了员工的模板会锁定员工字段，禁止继续编辑
	StaffLocked bool `json:"staffLocked"`
}

// ApplyTemplate 把一个已保存的模板展开成排班草稿。
// notes 载荷能解析出多班次配置时走多班次路径，
// 否则按旧版单班次模板处理：启用模板记录的每一天并给默认的早午两个班次
func ApplyTemplate(template *domain.ScheduleTemplate) *AppliedTemplate {
	draft := domain.NewScheduleDraft()
	draft.BranchID = template.BranchID
	draft.Type = template.Type

	overrides := NewCustomTimeTable()

	groups := DecodeTemplatePayload(template.Notes)
	if groups != nil {
		for _, group := range groups {
			window := ShiftTime{Start: group.StartTime, End: group.EndTime}
			for _, day := range group.DaysOfWeek {
				if !domain.IsValidWeekday(day) {
					continue
				}

				entry := draft.Availability[day]
				entry.Enabled = true
				if !slices.Contains(entry.Shifts, group.ShiftType) {
					entry.Shifts = append(entry.Shifts, group.ShiftType)
				}

				overrides.SetOverride(day, group.ShiftType, &window)
			}
		}
	} else {
		// 旧版单班次模板
		for _, day := range template.DaysOfWeek {
			if !domain.IsValidWeekday(day) {
				continue
			}

			entry := draft.Availability[day]
			entry.Enabled = true
			entry.Shifts = []string{ShiftMorning, ShiftAfternoon}
			entry.StartTime = template.StartTime
			entry.EndTime = template.EndTime
		}

		draft.StartTime = template.StartTime
		draft.EndTime = template.EndTime
	}

	applied := &AppliedTemplate{
		Draft:     draft,
		Overrides: overrides,
	}

	if template.StaffID != nil {
		draft.StaffID = *template.StaffID
		applied.StaffLocked = true
	}

	return applied
}

// BuildTemplateOptions 是把草稿保存为模板时的附加参数
type BuildTemplateOptions struct {
	Name         string
	Description  string
	AutoGenerate domain.AutoGenerateSetting
	ClassID      *int64
}

// BuildTemplateFromDraft 把当前草稿归并成一条模板记录：
// 按首次出现的顺序收集所有启用天用到的班次种类，对每一种求出使用它的
// 星期集合；时间窗口取任意一天提供的覆盖值，没有覆盖则用默认解析值。
// 模板记录自身的起止时间取第一组的时间，仅作旧版兼容的摘要展示
func BuildTemplateFromDraft(draft *domain.ScheduleDraft, overrides CustomTimeTable, opts BuildTemplateOptions) (*domain.ScheduleTemplate, error) {
	groups := make([]*domain.TemplateShiftGroup, 0)
	groupIndex := make(map[string]int)
	overridden := make(map[string]bool)
	allDays := make([]domain.Weekday, 0)

	for _, day := range domain.WeekdayOrder {
		entry, exists := draft.Availability[day]
		if !exists || !entry.Enabled || len(entry.Shifts) == 0 {
			continue
		}

		allDays = append(allDays, day)

		for _, shiftKey := range entry.Shifts {
			idx, exists := groupIndex[shiftKey]
			if !exists {
				window := ResolveShiftTime(day, shiftKey, overrides)
				groups = append(groups, &domain.TemplateShiftGroup{
					ShiftType:  shiftKey,
					StartTime:  window.Start,
					EndTime:    window.End,
					DaysOfWeek: make([]domain.Weekday, 0, 1),
				})
				idx = len(groups) - 1
				groupIndex[shiftKey] = idx
				if _, hasOverride := overrides.Override(day, shiftKey); hasOverride {
					overridden[shiftKey] = true
				}
			} else if !overridden[shiftKey] {
				// 后面的天带覆盖值时，用它替换默认解析出的时间
				if window, hasOverride := overrides.Override(day, shiftKey); hasOverride {
					groups[idx].StartTime = window.Start
					groups[idx].EndTime = window.End
					overridden[shiftKey] = true
				}
			}

			groups[idx].DaysOfWeek = append(groups[idx].DaysOfWeek, day)
		}
	}

	shiftGroups := make([]domain.TemplateShiftGroup, len(groups))
	for i, group := range groups {
		shiftGroups[i] = *group
	}

	payload, err := EncodeTemplatePayload(shiftGroups)
	if err != nil {
		return nil, err
	}

	template := &domain.ScheduleTemplate{
		Name:         opts.Name,
		Description:  opts.Description,
		Type:         draft.Type,
		BranchID:     draft.BranchID,
		DaysOfWeek:   allDays,
		Notes:        payload,
		AutoGenerate: opts.AutoGenerate,
	}

	if opts.ClassID != nil {
		template.ClassID = opts.ClassID
	} else if draft.StaffID != 0 {
		staffID := draft.StaffID
		template.StaffID = &staffID
	}

	if len(shiftGroups) > 0 {
		template.StartTime = shiftGroups[0].StartTime
		template.EndTime = shiftGroups[0].EndTime
	}

	return template, nil
}
