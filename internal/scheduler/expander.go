package scheduler

import (
	"fmt"
	"time"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
)

const dateLayout = "2006-01-02"

// truncateToDate 取 t 所在时区的日历日期，归一化成 UTC 零点，
// 这样才能和解析锚定日期得到的 UTC 时刻直接比较
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ExpandWeek 把一周的空闲配置展开成锚定日期所在一周内的具体排班。
// 纯函数：每个启用且有班次、且落在今天（含）之后的 (星期, 班次) 组合
// 产生一条排班记录，输出顺序固定为星期序加班次插入序。
// 没有任何可展开的天时返回空列表，这不是错误
func ExpandWeek(draft *domain.ScheduleDraft, overrides CustomTimeTable, now time.Time) ([]*domain.ScheduleInstance, error) {
	anchor, err := time.Parse(dateLayout, draft.ScheduleDate)
	if err != nil {
		return nil, fmt.Errorf("排班日期格式错误: %s", draft.ScheduleDate)
	}

	today := truncateToDate(now)
	anchorWeekday := int(anchor.Weekday())

	instances := make([]*domain.ScheduleInstance, 0)

	for _, day := range domain.WeekdayOrder {
		entry, exists := draft.Availability[day]
		if !exists || !entry.Enabled || len(entry.Shifts) == 0 {
			continue
		}

		// 从锚定日期按星期差值滚动到本周的具体日期
		offset := (int(day.TimeWeekday()) - anchorWeekday + 7) % 7
		targetDate := anchor.AddDate(0, 0, offset)

		// 整天落在今天之前时直接跳过，不产生部分周的历史排班
		if targetDate.Before(today) {
			continue
		}

		for _, shiftKey := range entry.Shifts {
			window := ResolveShiftTime(day, shiftKey, overrides)

			instances = append(instances, &domain.ScheduleInstance{
				Name:            fmt.Sprintf("%s - %s", draft.Title, ShiftLabel(shiftKey)),
				Type:            draft.Type,
				StaffID:         draft.StaffID,
				BranchID:        draft.BranchID,
				Date:            targetDate.Format(dateLayout),
				StartTime:       window.Start,
				EndTime:         window.End,
				Status:          domain.ScheduleStatusScheduled,
				MaxCapacity:     1,
				CurrentBookings: 0,
				Notes:           draft.Notes,
				IsRecurring:     false,
			})
		}
	}

	return instances, nil
}
