package utils

import (
	"errors"
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// truncateToDate 取 t 所在时区的日历日期，归一化成 UTC 零点，
// 和 time.Parse 解析日期字符串得到的时刻落在同一时间线上
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidateScheduleDate 检查排班日期必须严格晚于今天，今天本身也不允许
func ValidateScheduleDate(date string, now time.Time) error {
	if date == "" {
		return errors.New("排班日期不能为空")
	}

	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return errors.New("排班日期格式错误")
	}

	if !parsed.After(truncateToDate(now)) {
		return errors.New("排班日期必须晚于今天")
	}

	return nil
}

// ValidateTimeRange 检查结束时间必须晚于开始时间，不支持跨天的时间段
func ValidateTimeRange(startTime string, endTime string) error {
	start, err := time.Parse(clockLayout, startTime)
	if err != nil {
		return fmt.Errorf("开始时间格式错误: %s", startTime)
	}

	end, err := time.Parse(clockLayout, endTime)
	if err != nil {
		return fmt.Errorf("结束时间格式错误: %s", endTime)
	}

	startMinutes := start.Hour()*60 + start.Minute()
	endMinutes := end.Hour()*60 + end.Minute()

	if endMinutes <= startMinutes {
		return errors.New("结束时间必须晚于开始时间")
	}

	return nil
}

// ValidateAutoGenerateEndDate 检查自动生成的结束日期：
// 给定排班日期时，结束日期必须至少晚于排班日期一个自然月；
// 没有排班日期时退化为要求结束日期晚于明天
func ValidateAutoGenerateEndDate(endDate string, scheduleDate string, now time.Time) error {
	if endDate == "" {
		return errors.New("自动生成的结束日期不能为空")
	}

	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return errors.New("自动生成的结束日期格式错误")
	}

	if scheduleDate != "" {
		anchor, err := time.Parse(dateLayout, scheduleDate)
		if err != nil {
			return errors.New("排班日期格式错误")
		}

		if !end.After(anchor) {
			return errors.New("自动生成的结束日期必须晚于排班日期")
		}

		if end.Before(anchor.AddDate(0, 1, 0)) {
			return errors.New("自动生成的结束日期必须至少晚于排班日期一个月")
		}

		return nil
	}

	if !end.After(truncateToDate(now).AddDate(0, 0, 1)) {
		return errors.New("自动生成的结束日期必须晚于明天")
	}

	return nil
}

// ValidateAdvanceDays 检查提前生成天数必须在 1 到 30 之间
func ValidateAdvanceDays(advanceDays int32) error {
	if advanceDays < 1 || advanceDays > 30 {
		return errors.New("提前生成天数必须在 1 到 30 之间")
	}

	return nil
}
