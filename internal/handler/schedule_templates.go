package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
	"github.com/sgms-2025/staff-scheduler/backend/internal/scheduler"
)

// GetScheduleTemplatesByBranch 返回指定门店的模板列表。
// 列表查询非常频繁且模板很少变动，所以先查 redis 缓存，
// 未命中再查数据库并回填
func (h *Handler) GetScheduleTemplatesByBranch(w http.ResponseWriter, r *http.Request) {
	branchIDParam := r.URL.Query().Get("branchID")
	branchID, err := strconv.ParseInt(branchIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "门店ID无效")
		return
	}

	cacheKey := fmt.Sprintf("schedule_templates_branch_%d", branchID)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	cached, err := h.redisClient.Get(ctx, cacheKey).Result()
	if err == nil {
		templates := make([]*domain.ScheduleTemplate, 0)
		if err := json.Unmarshal([]byte(cached), &templates); err == nil {
			h.successResponse(w, r, "获取模板列表成功", templates)
			return
		}
		// 缓存内容损坏时当作未命中处理
		slog.Warn("模板列表缓存内容无法解析", "key", cacheKey, "error", err)
	} else if !errors.Is(err, redis.Nil) {
		// redis 异常不应该影响查询，降级为直接查库
		slog.Warn("读取模板列表缓存失败", "key", cacheKey, "error", err)
	}

	templates, err := h.repository.GetScheduleTemplatesByBranch(branchID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if data, err := json.Marshal(templates); err == nil {
		expiration := time.Duration(h.config.TemplateCache.Expiration) * time.Second
		if err := h.redisClient.Set(ctx, cacheKey, data, expiration).Err(); err != nil {
			slog.Warn("回填模板列表缓存失败", "key", cacheKey, "error", err)
		}
	}

	h.successResponse(w, r, "获取模板列表成功", templates)
}

func (h *Handler) GetScheduleTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(ScheduleTemplateCtx).(*domain.ScheduleTemplate)

	h.successResponse(w, r, "获取模板成功", template)
}

// ApplyScheduleTemplate 把模板展开成可编辑的排班草稿返回给前端。
// 模板绑定了员工时一并返回员工姓名，前端用它展示被锁定的员工字段
func (h *Handler) ApplyScheduleTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(ScheduleTemplateCtx).(*domain.ScheduleTemplate)

	applied := scheduler.ApplyTemplate(template)

	var staffName string
	if applied.StaffLocked {
		staff, err := h.repository.GetStaffByID(*template.StaffID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				// 模板绑定的员工已被删除，草稿仍可用，只是没有姓名提示
				slog.Warn("模板绑定的员工不存在", "templateID", template.ID, "staffID", *template.StaffID)
			default:
				h.internalServerError(w, r, err)
				return
			}
		} else {
			staffName = staff.FullName
		}
	}

	h.successResponse(w, r, "套用模板成功", struct {
		*scheduler.AppliedTemplate
		StaffName string `json:"staffName,omitempty"`
	}{
		AppliedTemplate: applied,
		StaffName:       staffName,
	})
}

func (h *Handler) DeleteScheduleTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(ScheduleTemplateCtx).(*domain.ScheduleTemplate)

	if err := h.repository.DeleteScheduleTemplate(template.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateTemplateCache(template.BranchID)

	h.successResponse(w, r, "删除模板成功", nil)
}
