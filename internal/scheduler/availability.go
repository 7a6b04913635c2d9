package scheduler

import (
	"slices"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
)

// 草稿中每周空闲配置的变更操作。这些操作共同维护两条不变量：
//   - 某天未启用时，它的班次列表一定为空
//   - 某天启用时，它的班次列表至少有一个班次
// 所有操作都是幂等收敛的，不存在错误分支

func dayAvailability(draft *domain.ScheduleDraft, day domain.Weekday) *domain.WeekdayAvailability {
	entry, exists := draft.Availability[day]
	if !exists {
		entry = &domain.WeekdayAvailability{Shifts: make([]string, 0)}
		draft.Availability[day] = entry
	}
	return entry
}

// ToggleDay 只翻转启用状态，不动班次列表，
// 服务于只使用单一时间段而不选班次的旧版交互
func ToggleDay(draft *domain.ScheduleDraft, day domain.Weekday) {
	entry := dayAvailability(draft, day)
	entry.Enabled = !entry.Enabled
}

// ToggleShift 增删某天的一个班次：删掉最后一个班次会顺带停用这一天，
// 往停用的天上加班次会顺带启用这一天
func ToggleShift(draft *domain.ScheduleDraft, day domain.Weekday, shiftKey string) {
	entry := dayAvailability(draft, day)

	idx := slices.Index(entry.Shifts, shiftKey)
	if idx >= 0 {
		entry.Shifts = slices.Delete(entry.Shifts, idx, idx+1)
		if len(entry.Shifts) == 0 {
			entry.Enabled = false
		}
		return
	}

	entry.Shifts = append(entry.Shifts, shiftKey)
	if !entry.Enabled {
		entry.Enabled = true
	}
}

// AddCustomShift 为某天添加一个自定义时间窗口：
// 班次列表中插入合成 key，同时在覆盖表中登记 custom 条目
func AddCustomShift(draft *domain.ScheduleDraft, overrides CustomTimeTable, day domain.Weekday, st ShiftTime) string {
	key := MakeCustomShiftKey(st)

	entry := dayAvailability(draft, day)
	if !slices.Contains(entry.Shifts, key) {
		ToggleShift(draft, day, key)
	}

	overrides.SetOverride(day, customOverrideKey, &st)

	return key
}

// SetTimeRange 设置某天的旧版起止时间，day 处于启用状态时
// 同步写入草稿顶层的单一时间段，保持两处展示一致
func SetTimeRange(draft *domain.ScheduleDraft, day domain.Weekday, field string, value string) {
	entry := dayAvailability(draft, day)

	switch field {
	case "startTime":
		entry.StartTime = value
		if entry.Enabled {
			draft.StartTime = value
		}
	case "endTime":
		entry.EndTime = value
		if entry.Enabled {
			draft.EndTime = value
		}
	}
}
