package scheduler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
)

const (
	ShiftMorning   = "MORNING"
	ShiftAfternoon = "AFTERNOON"
	ShiftEvening   = "EVENING"
	// ShiftCustom 是旧版前端使用的字面量 key，时间窗口存放在覆盖表的 custom 条目中
	ShiftCustom = "CUSTOM"

	customShiftPrefix = "CUSTOM_"
	customOverrideKey = "custom"
)

type ShiftTime struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// 各个命名班次的默认时间窗口
var shiftTimeRegistry = map[string]ShiftTime{
	ShiftMorning:   {Start: "08:00", End: "12:00"},
	ShiftAfternoon: {Start: "13:00", End: "17:00"},
	ShiftEvening:   {Start: "18:00", End: "22:00"},
}

// 查不到任何时间窗口时的兜底值，保证解析永远不会失败
var fallbackShiftTime = ShiftTime{Start: "08:00", End: "17:00"}

func DefaultShiftTime(shiftKey string) (ShiftTime, bool) {
	st, exists := shiftTimeRegistry[shiftKey]
	return st, exists
}

func IsNamedShift(shiftKey string) bool {
	_, exists := shiftTimeRegistry[shiftKey]
	return exists
}

func IsSynthesizedCustomShift(shiftKey string) bool {
	return strings.HasPrefix(shiftKey, customShiftPrefix)
}

var customShiftKeyPattern = regexp.MustCompile(`^CUSTOM_(\d{2}:\d{2})-(\d{2}:\d{2})$`)

// ParseCustomShiftKey 从 CUSTOM_HH:MM-HH:MM 形式的 key 中解析出时间窗口
func ParseCustomShiftKey(shiftKey string) (ShiftTime, bool) {
	matches := customShiftKeyPattern.FindStringSubmatch(shiftKey)
	if matches == nil {
		return ShiftTime{}, false
	}

	return ShiftTime{Start: matches[1], End: matches[2]}, true
}

func MakeCustomShiftKey(st ShiftTime) string {
	return fmt.Sprintf("%s%s-%s", customShiftPrefix, st.Start, st.End)
}

// CustomTimeTable 按 (星期, 班次 key) 记录时间覆盖，没有条目时使用注册表默认值。
// 某天的班次被移除后留下的过期条目允许存在，但永远不会被查询到
type CustomTimeTable map[domain.Weekday]map[string]ShiftTime

func NewCustomTimeTable() CustomTimeTable {
	return make(CustomTimeTable)
}

// SetOverride 设置某个 (星期, 班次) 的时间覆盖，传入 nil 表示清除覆盖并恢复默认值
func (t CustomTimeTable) SetOverride(day domain.Weekday, shiftKey string, st *ShiftTime) {
	if st == nil {
		if dayOverrides, exists := t[day]; exists {
			delete(dayOverrides, shiftKey)
			if len(dayOverrides) == 0 {
				delete(t, day)
			}
		}
		return
	}

	if _, exists := t[day]; !exists {
		t[day] = make(map[string]ShiftTime)
	}
	t[day][shiftKey] = *st
}

func (t CustomTimeTable) Override(day domain.Weekday, shiftKey string) (ShiftTime, bool) {
	dayOverrides, exists := t[day]
	if !exists {
		return ShiftTime{}, false
	}

	st, exists := dayOverrides[shiftKey]
	return st, exists
}

// ResolveShiftTime 解析某天某个班次最终使用的时间窗口，永远不会返回错误：
//   - 命名班次：覆盖条目优先，其次注册表默认值，最后兜底值
//   - 字面量 CUSTOM：使用 custom 覆盖条目，没有则为 00:00-00:00
//   - 合成 key（CUSTOM_HH:MM-HH:MM）：直接从 key 本身解析，解析失败用兜底值
func ResolveShiftTime(day domain.Weekday, shiftKey string, overrides CustomTimeTable) ShiftTime {
	if shiftKey == ShiftCustom {
		if st, exists := overrides.Override(day, customOverrideKey); exists {
			return st
		}
		return ShiftTime{Start: "00:00", End: "00:00"}
	}

	if IsSynthesizedCustomShift(shiftKey) {
		if st, ok := ParseCustomShiftKey(shiftKey); ok {
			return st
		}
		return fallbackShiftTime
	}

	if st, exists := overrides.Override(day, shiftKey); exists {
		return st
	}

	if st, exists := shiftTimeRegistry[shiftKey]; exists {
		return st
	}

	return fallbackShiftTime
}

// ShiftLabel 返回班次在排班名称中展示的文案
func ShiftLabel(shiftKey string) string {
	switch shiftKey {
	case ShiftMorning:
		return "早班"
	case ShiftAfternoon:
		return "午班"
	case ShiftEvening:
		return "晚班"
	case ShiftCustom:
		return "自定义班次"
	}

	if st, ok := ParseCustomShiftKey(shiftKey); ok {
		return fmt.Sprintf("自定义班次 %s-%s", st.Start, st.End)
	}

	return shiftKey
}
