package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
	"github.com/sgms-2025/staff-scheduler/backend/internal/repository"
	"github.com/sgms-2025/staff-scheduler/backend/internal/scheduler"
	"github.com/sgms-2025/staff-scheduler/backend/internal/utils"
)

var scheduleTypes = []domain.ScheduleType{
	domain.ScheduleTypeClass,
	domain.ScheduleTypePersonalTraining,
	domain.ScheduleTypeFreeTime,
	domain.ScheduleTypeMaintenance,
}

var namedShifts = []string{
	scheduler.ShiftMorning,
	scheduler.ShiftAfternoon,
	scheduler.ShiftEvening,
}

// GenerateRandomScheduleTemplate 生成一条带多班次载荷的随机模板
func GenerateRandomScheduleTemplate(branchID int64) (*domain.ScheduleTemplate, error) {
	days := utils.GenerateRandomWeekdays()

	shiftsNum := rand.Intn(len(namedShifts)) + 1
	groups := make([]domain.TemplateShiftGroup, 0, shiftsNum)
	for i := 0; i < shiftsNum; i++ {
		shiftKey := namedShifts[i]
		window := scheduler.ResolveShiftTime(days[0], shiftKey, nil)
		groups = append(groups, domain.TemplateShiftGroup{
			ShiftType:  shiftKey,
			StartTime:  window.Start,
			EndTime:    window.End,
			DaysOfWeek: days,
		})
	}

	payload, err := scheduler.EncodeTemplatePayload(groups)
	if err != nil {
		return nil, err
	}

	template := &domain.ScheduleTemplate{
		Name:        "排班模板" + utils.GenerateRandomID(3, 3),
		Description: "排班模板描述" + utils.GenerateRandomID(20, 10),
		Type:        scheduleTypes[rand.Intn(len(scheduleTypes))],
		BranchID:    branchID,
		DaysOfWeek:  days,
		StartTime:   groups[0].StartTime,
		EndTime:     groups[0].EndTime,
		Notes:       payload,
	}

	return template, nil
}

// SeedDemoSchedules 为每个员工随机生成一份下周的空闲配置并展开成排班。
// 演示数据不走 coordinator 的校验流程，直接展开后落库
func SeedDemoSchedules(r *repository.Repository) {
	staffs, err := r.GetAllStaffs()
	if err != nil {
		slog.Error("无法获取所有员工", "error", err)
		return
	}

	// 下周一作为排班锚点
	now := time.Now()
	daysUntilMonday := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if daysUntilMonday == 0 {
		daysUntilMonday = 7
	}
	anchor := now.AddDate(0, 0, daysUntilMonday).Format("2006-01-02")

	total := 0
	for _, staff := range staffs {
		draft := domain.NewScheduleDraft()
		draft.Title = staff.FullName + "的排班"
		draft.StaffID = staff.ID
		draft.BranchID = staff.BranchID
		draft.ScheduleDate = anchor
		draft.Type = scheduleTypes[rand.Intn(len(scheduleTypes))]

		for _, day := range utils.GenerateRandomWeekdays() {
			entry := draft.Availability[day]
			entry.Enabled = true
			entry.Shifts = []string{namedShifts[rand.Intn(len(namedShifts))]}
		}

		instances, err := scheduler.ExpandWeek(draft, nil, now)
		if err != nil {
			slog.Error("无法展开排班", "staffID", staff.ID, "error", err)
			continue
		}

		if err := r.CreateSchedulesBatch(instances); err != nil {
			slog.Error("无法插入排班", "staffID", staff.ID, "error", err)
			continue
		}

		total += len(instances)
	}

	slog.Info("插入演示排班完成", "count", total)
}
