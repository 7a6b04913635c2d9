package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
	"github.com/sgms-2025/staff-scheduler/backend/internal/utils"
)

// ScheduleStore 是排班的持久化接口，一次提交只调用一次 CreateSchedulesBatch，
// 零条记录也要调用，由存储端保证单次调用内的原子性
type ScheduleStore interface {
	CreateSchedulesBatch(instances []*domain.ScheduleInstance) error
}

type TemplateStore interface {
	CreateScheduleTemplate(template *domain.ScheduleTemplate) error
	IncrementTemplateUsage(id int64) error
}

// ValidationError 是提交前的校验失败，带有出错的字段名，
// 此时还没有发生任何 I/O
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PersistenceError 是持久化阶段的失败。排班批量创建成功之后的阶段失败时，
// CreatedCount 会带上已经创建的数量：已创建的排班不会被回滚，
// 这是提交流程已知且被保留的非事务性缺口
type PersistenceError struct {
	Stage        string
	CreatedCount int
	Err          error
}

func (e *PersistenceError) Error() string {
	if e.CreatedCount > 0 {
		return fmt.Sprintf("%s失败（已创建 %d 个排班，不会回滚）: %v", e.Stage, e.CreatedCount, e.Err)
	}
	return fmt.Sprintf("%s失败: %v", e.Stage, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// SubmissionRequest 是一次完整的排班提交
type SubmissionRequest struct {
	Draft     *domain.ScheduleDraft
	Overrides CustomTimeTable

	// 保存为模板
	SaveAsTemplate      bool
	TemplateName        string
	TemplateDescription string
	AutoGenerate        domain.AutoGenerateSetting
	ClassID             *int64

	// 草稿来源于某个已有模板时记录其 ID，提交成功后累加该模板的使用次数
	SourceTemplateID *int64
}

type SubmissionOutcome struct {
	Created  []*domain.ScheduleInstance
	Template *domain.ScheduleTemplate
	// 一条排班都没有展开出来时的软提示，不算失败
	Warning string
}

// Coordinator 按固定顺序串联校验、展开和两次持久化副作用，
// 任何一步失败立即短路，各步骤之间严格串行
type Coordinator struct {
	schedules ScheduleStore
	templates TemplateStore
	now       func() time.Time
}

func NewCoordinator(schedules ScheduleStore, templates TemplateStore) *Coordinator {
	return &Coordinator{
		schedules: schedules,
		templates: templates,
		now:       time.Now,
	}
}

func (c *Coordinator) validate(req *SubmissionRequest) error {
	now := c.now()

	if err := utils.ValidateScheduleDate(req.Draft.ScheduleDate, now); err != nil {
		return &ValidationError{Field: "scheduleDate", Message: err.Error()}
	}

	// 旧版单一时间段存在时才校验
	if req.Draft.StartTime != "" || req.Draft.EndTime != "" {
		if err := utils.ValidateTimeRange(req.Draft.StartTime, req.Draft.EndTime); err != nil {
			return &ValidationError{Field: "timeRange", Message: err.Error()}
		}
	}

	if req.SaveAsTemplate {
		if strings.TrimSpace(req.TemplateName) == "" {
			return &ValidationError{Field: "templateName", Message: "模板名称不能为空"}
		}

		if req.AutoGenerate.Enabled {
			if err := utils.ValidateAutoGenerateEndDate(req.AutoGenerate.EndDate, req.Draft.ScheduleDate, now); err != nil {
				return &ValidationError{Field: "autoGenerateEndDate", Message: err.Error()}
			}
			if err := utils.ValidateAdvanceDays(req.AutoGenerate.AdvanceDays); err != nil {
				return &ValidationError{Field: "advanceDays", Message: err.Error()}
			}
		}
	}

	return nil
}

// Submit 执行一次完整的提交：校验 → 展开 → 批量创建排班 →
// （可选）保存模板 → 累加模板使用次数。
// 步骤 N+1 一定在步骤 N 完成之后才开始，中途没有取消机制，
// 批量创建成功之后的失败不会回滚已创建的排班
func (c *Coordinator) Submit(req *SubmissionRequest) (*SubmissionOutcome, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}

	instances, err := ExpandWeek(req.Draft, req.Overrides, c.now())
	if err != nil {
		return nil, &ValidationError{Field: "scheduleDate", Message: err.Error()}
	}

	if err := c.schedules.CreateSchedulesBatch(instances); err != nil {
		return nil, &PersistenceError{Stage: "创建排班", Err: err}
	}

	outcome := &SubmissionOutcome{Created: instances}
	if len(instances) == 0 {
		outcome.Warning = "本次提交没有创建任何排班"
	}

	if req.SaveAsTemplate {
		template, err := BuildTemplateFromDraft(req.Draft, req.Overrides, BuildTemplateOptions{
			Name:         req.TemplateName,
			Description:  req.TemplateDescription,
			AutoGenerate: req.AutoGenerate,
			ClassID:      req.ClassID,
		})
		if err != nil {
			return outcome, &PersistenceError{Stage: "保存模板", CreatedCount: len(instances), Err: err}
		}

		if err := c.templates.CreateScheduleTemplate(template); err != nil {
			return outcome, &PersistenceError{Stage: "保存模板", CreatedCount: len(instances), Err: err}
		}
		outcome.Template = template

		// 模板创建当次的使用也计入使用次数
		if len(instances) > 0 {
			if err := c.templates.IncrementTemplateUsage(template.ID); err != nil {
				return outcome, &PersistenceError{Stage: "累加模板使用次数", CreatedCount: len(instances), Err: err}
			}
		}
	}

	if req.SourceTemplateID != nil {
		if err := c.templates.IncrementTemplateUsage(*req.SourceTemplateID); err != nil {
			return outcome, &PersistenceError{Stage: "累加模板使用次数", CreatedCount: len(instances), Err: err}
		}
	}

	return outcome, nil
}
