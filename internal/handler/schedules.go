package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
	"github.com/sgms-2025/staff-scheduler/backend/internal/scheduler"
)

// SubmitSchedule 接收一周空闲配置的完整提交：
// 校验、展开、批量建排班、可选保存模板都由 coordinator 串联执行
func (h *Handler) SubmitSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Staff)

	var req struct {
		Title        string `json:"title" validate:"required"`
		StaffID      int64  `json:"staffID" validate:"required"`
		BranchID     int64  `json:"branchID" validate:"required"`
		ScheduleDate string `json:"scheduleDate" validate:"required"`
		Type         string `json:"type" validate:"required,oneof=CLASS PERSONAL_TRAINING FREE_TIME MAINTENANCE"`
		Notes        string `json:"notes"`
		Timezone     string `json:"timezone"`
		StartTime    string `json:"startTime"`
		EndTime      string `json:"endTime"`
		Availability map[string]struct {
			Enabled   bool     `json:"enabled"`
			Shifts    []string `json:"shifts"`
			StartTime string   `json:"startTime"`
			EndTime   string   `json:"endTime"`
		} `json:"availability" validate:"required"`
		CustomTimes map[string]map[string]struct {
			Start string `json:"start" validate:"required"`
			End   string `json:"end" validate:"required"`
		} `json:"customTimes"`
		SaveAsTemplate      bool   `json:"saveAsTemplate"`
		TemplateName        string `json:"templateName"`
		TemplateDescription string `json:"templateDescription"`
		AutoGenerate        struct {
			Enabled     bool   `json:"enabled"`
			AdvanceDays int32  `json:"advanceDays"`
			EndDate     string `json:"endDate"`
		} `json:"autoGenerate"`
		SourceTemplateID *int64 `json:"sourceTemplateID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 把请求中的每周配置整理成草稿，同时收敛不变量：
	// 未启用的天不保留班次，没有班次的天不允许处于启用状态
	draft := domain.NewScheduleDraft()
	draft.Title = req.Title
	draft.StaffID = req.StaffID
	draft.BranchID = req.BranchID
	draft.ScheduleDate = req.ScheduleDate
	draft.Type = domain.ScheduleType(req.Type)
	draft.Notes = req.Notes
	draft.Timezone = req.Timezone
	draft.StartTime = req.StartTime
	draft.EndTime = req.EndTime

	for dayKey, dayReq := range req.Availability {
		day := domain.Weekday(dayKey)
		if !domain.IsValidWeekday(day) {
			h.errorResponse(w, r, fmt.Sprintf("无效的星期: %s", dayKey))
			return
		}

		applyDayAvailability(draft, day, dayReq.Enabled, dayReq.Shifts, dayReq.StartTime, dayReq.EndTime)
	}

	overrides := scheduler.NewCustomTimeTable()
	for dayKey, dayOverrides := range req.CustomTimes {
		day := domain.Weekday(dayKey)
		if !domain.IsValidWeekday(day) {
			h.errorResponse(w, r, fmt.Sprintf("无效的星期: %s", dayKey))
			return
		}

		for shiftKey, window := range dayOverrides {
			overrides.SetOverride(day, shiftKey, &scheduler.ShiftTime{Start: window.Start, End: window.End})
		}
	}

	outcome, err := h.coordinator.Submit(&scheduler.SubmissionRequest{
		Draft:               draft,
		Overrides:           overrides,
		SaveAsTemplate:      req.SaveAsTemplate,
		TemplateName:        req.TemplateName,
		TemplateDescription: req.TemplateDescription,
		AutoGenerate: domain.AutoGenerateSetting{
			Enabled:     req.AutoGenerate.Enabled,
			AdvanceDays: req.AutoGenerate.AdvanceDays,
			EndDate:     req.AutoGenerate.EndDate,
		},
		SourceTemplateID: req.SourceTemplateID,
	})
	if err != nil {
		var validationErr *scheduler.ValidationError
		var persistenceErr *scheduler.PersistenceError
		switch {
		case errors.As(err, &validationErr):
			h.errorResponse(w, r, validationErr.Message)
		case errors.As(err, &persistenceErr):
			h.logInternalServerError(r, persistenceErr)
			if persistenceErr.CreatedCount > 0 {
				// 排班已经批量创建成功，后续步骤失败不会回滚已创建的排班
				h.errorResponse(w, r, fmt.Sprintf("已创建 %d 个排班，但%s失败", persistenceErr.CreatedCount, persistenceErr.Stage))
			} else {
				h.errorResponse(w, r, fmt.Sprintf("%s失败，请稍后重试", persistenceErr.Stage))
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 模板有变化时让该门店的模板列表缓存失效
	if outcome.Template != nil {
		h.invalidateTemplateCache(draft.BranchID)
	}

	if outcome.Warning != "" {
		h.warningResponse(w, r, "提交成功", outcome.Warning, outcome)
		return
	}

	// 给被排班的员工发一封排班通知邮件，失败只记录日志，不影响提交结果
	h.notifyScheduleCreated(myInfo, outcome.Created)

	h.successResponse(w, r, fmt.Sprintf("成功创建 %d 个排班", len(outcome.Created)), outcome)
}

// applyDayAvailability 把请求中某天的配置合并进草稿。
// 班次的增删统一走 ToggleShift，由它维护启用状态和班次列表的不变量：
// 请求里重复的班次 key 只取第一次出现，明确停用的天清空全部班次
func applyDayAvailability(draft *domain.ScheduleDraft, day domain.Weekday, enabled bool, shifts []string, startTime string, endTime string) {
	entry := draft.Availability[day]
	entry.StartTime = startTime
	entry.EndTime = endTime

	for _, shiftKey := range shifts {
		if !slices.Contains(entry.Shifts, shiftKey) {
			scheduler.ToggleShift(draft, day, shiftKey)
		}
	}

	if !enabled {
		entry.Enabled = false
		entry.Shifts = entry.Shifts[:0]
	}
}

func (h *Handler) notifyScheduleCreated(submitter *domain.Staff, created []*domain.ScheduleInstance) {
	if len(created) == 0 {
		return
	}

	target := submitter
	if created[0].StaffID != submitter.ID {
		staff, err := h.repository.GetStaffByID(created[0].StaffID)
		if err != nil {
			slog.Warn("无法获取被排班员工的信息，跳过排班通知邮件", "staffID", created[0].StaffID, "error", err)
			return
		}
		target = staff
	}

	items := make([]domain.ScheduleCreatedMailItem, 0, len(created))
	for _, instance := range created {
		items = append(items, domain.ScheduleCreatedMailItem{
			Name:      instance.Name,
			Date:      instance.Date,
			StartTime: instance.StartTime,
			EndTime:   instance.EndTime,
		})
	}

	mailMessage := domain.MailMessage{
		Type: "schedule_created",
		To:   target.Email,
		Data: domain.ScheduleCreatedMailData{
			FullName: target.FullName,
			Count:    len(items),
			Items:    items,
		},
	}

	if err := h.publishMailMessage(mailMessage); err != nil {
		slog.Warn("排班通知邮件投递失败", "to", target.Email, "error", err)
	}
}

func (h *Handler) invalidateTemplateCache(branchID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	key := fmt.Sprintf("schedule_templates_branch_%d", branchID)
	if err := h.redisClient.Del(ctx, key).Err(); err != nil {
		slog.Warn("模板列表缓存失效失败", "key", key, "error", err)
	}
}

// GetSchedules 按员工或门店查询排班，两个维度必须且只能提供一个，
// 日期范围是可选的过滤条件
func (h *Handler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	staffIDParam := r.URL.Query().Get("staffID")
	branchIDParam := r.URL.Query().Get("branchID")
	fromDate := r.URL.Query().Get("from")
	toDate := r.URL.Query().Get("to")

	var schedules []*domain.ScheduleInstance

	switch {
	case staffIDParam != "":
		staffID, err := strconv.ParseInt(staffIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "员工ID无效")
			return
		}
		if schedules, err = h.repository.GetSchedulesByStaff(staffID, fromDate, toDate); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	case branchIDParam != "":
		branchID, err := strconv.ParseInt(branchIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "门店ID无效")
			return
		}
		if schedules, err = h.repository.GetSchedulesByBranch(branchID, fromDate, toDate); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	default:
		h.errorResponse(w, r, "必须指定员工ID或门店ID")
		return
	}

	h.successResponse(w, r, "获取排班列表成功", schedules)
}
