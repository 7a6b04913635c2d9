package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockScheduleStore struct {
	batches [][]*domain.ScheduleInstance
	err     error
}

func (m *mockScheduleStore) CreateSchedulesBatch(instances []*domain.ScheduleInstance) error {
	m.batches = append(m.batches, instances)
	if m.err != nil {
		return m.err
	}

	for i, instance := range instances {
		instance.ID = int64(i + 1)
	}
	return nil
}

type mockTemplateStore struct {
	created     []*domain.ScheduleTemplate
	createErr   error
	incremented []int64
	usageErr    error
}

func (m *mockTemplateStore) CreateScheduleTemplate(template *domain.ScheduleTemplate) error {
	if m.createErr != nil {
		return m.createErr
	}
	template.ID = int64(len(m.created) + 1)
	m.created = append(m.created, template)
	return nil
}

func (m *mockTemplateStore) IncrementTemplateUsage(id int64) error {
	if m.usageErr != nil {
		return m.usageErr
	}
	m.incremented = append(m.incremented, id)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func validDraft() *domain.ScheduleDraft {
	draft := domain.NewScheduleDraft()
	draft.Title = "王教练的排班"
	draft.StaffID = 7
	draft.BranchID = 1
	draft.ScheduleDate = "2025-06-02"
	draft.Type = domain.ScheduleTypeClass

	monday := draft.Availability[domain.WeekdayMonday]
	monday.Enabled = true
	monday.Shifts = []string{ShiftMorning}

	return draft
}

func newTestCoordinator(schedules *mockScheduleStore, templates *mockTemplateStore) *Coordinator {
	c := NewCoordinator(schedules, templates)
	c.now = fixedNow
	return c
}

func TestSubmitCreatesSchedules(t *testing.T) {
	schedules := &mockScheduleStore{}
	templates := &mockTemplateStore{}
	c := newTestCoordinator(schedules, templates)

	outcome, err := c.Submit(&SubmissionRequest{Draft: validDraft()})
	require.NoError(t, err)

	require.Len(t, schedules.batches, 1)
	require.Len(t, outcome.Created, 1)
	assert.Empty(t, outcome.Warning)
	assert.Nil(t, outcome.Template)
	assert.Empty(t, templates.created)
}

func TestSubmitValidationFailsBeforeAnyIO(t *testing.T) {
	schedules := &mockScheduleStore{}
	templates := &mockTemplateStore{}
	c := newTestCoordinator(schedules, templates)

	draft := validDraft()
	draft.ScheduleDate = "2025-06-01" // 等于今天，必须严格晚于今天

	_, err := c.Submit(&SubmissionRequest{Draft: draft})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "scheduleDate", validationErr.Field)

	// 校验失败时没有任何持久化调用
	assert.Empty(t, schedules.batches)
	assert.Empty(t, templates.created)
}

func TestSubmitTimeRangeOnlyValidatedWhenPresent(t *testing.T) {
	schedules := &mockScheduleStore{}
	c := newTestCoordinator(schedules, &mockTemplateStore{})

	// 没有旧版时间段时不校验
	_, err := c.Submit(&SubmissionRequest{Draft: validDraft()})
	require.NoError(t, err)

	// 有时间段且非法时拒绝
	draft := validDraft()
	draft.StartTime = "17:00"
	draft.EndTime = "09:00"

	_, err = c.Submit(&SubmissionRequest{Draft: draft})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "timeRange", validationErr.Field)
}

func TestSubmitEmptyExpansionStillCallsBatch(t *testing.T) {
	schedules := &mockScheduleStore{}
	c := newTestCoordinator(schedules, &mockTemplateStore{})

	draft := validDraft()
	draft.Availability[domain.WeekdayMonday].Enabled = false
	draft.Availability[domain.WeekdayMonday].Shifts = nil

	outcome, err := c.Submit(&SubmissionRequest{Draft: draft})
	require.NoError(t, err)

	// 零条记录也要调用一次批量创建
	require.Len(t, schedules.batches, 1)
	assert.Empty(t, schedules.batches[0])
	assert.Empty(t, outcome.Created)
	assert.Equal(t, "本次提交没有创建任何排班", outcome.Warning)
}

func TestSubmitSaveAsTemplate(t *testing.T) {
	schedules := &mockScheduleStore{}
	templates := &mockTemplateStore{}
	c := newTestCoordinator(schedules, templates)

	outcome, err := c.Submit(&SubmissionRequest{
		Draft:               validDraft(),
		SaveAsTemplate:      true,
		TemplateName:        "周一早班模板",
		TemplateDescription: "每周一上早班",
	})
	require.NoError(t, err)

	require.NotNil(t, outcome.Template)
	assert.Equal(t, "周一早班模板", outcome.Template.Name)
	require.Len(t, templates.created, 1)

	// 模板创建当次的使用也计入使用次数
	assert.Equal(t, []int64{outcome.Template.ID}, templates.incremented)
}

func TestSubmitSaveAsTemplateRequiresName(t *testing.T) {
	c := newTestCoordinator(&mockScheduleStore{}, &mockTemplateStore{})

	_, err := c.Submit(&SubmissionRequest{
		Draft:          validDraft(),
		SaveAsTemplate: true,
		TemplateName:   "   ",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "templateName", validationErr.Field)
}

func TestSubmitAutoGenerateValidation(t *testing.T) {
	c := newTestCoordinator(&mockScheduleStore{}, &mockTemplateStore{})

	// 结束日期距离排班日期不足一个自然月
	_, err := c.Submit(&SubmissionRequest{
		Draft:          validDraft(),
		SaveAsTemplate: true,
		TemplateName:   "模板",
		AutoGenerate: domain.AutoGenerateSetting{
			Enabled:     true,
			AdvanceDays: 7,
			EndDate:     "2025-07-01",
		},
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "autoGenerateEndDate", validationErr.Field)

	// 恰好一个自然月之后可以通过
	outcome, err := c.Submit(&SubmissionRequest{
		Draft:          validDraft(),
		SaveAsTemplate: true,
		TemplateName:   "模板",
		AutoGenerate: domain.AutoGenerateSetting{
			Enabled:     true,
			AdvanceDays: 7,
			EndDate:     "2025-07-03",
		},
	})
	require.NoError(t, err)
	assert.True(t, outcome.Template.AutoGenerate.Enabled)

	// 提前生成天数越界
	_, err = c.Submit(&SubmissionRequest{
		Draft:          validDraft(),
		SaveAsTemplate: true,
		TemplateName:   "模板",
		AutoGenerate: domain.AutoGenerateSetting{
			Enabled:     true,
			AdvanceDays: 31,
			EndDate:     "2025-07-03",
		},
	})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "advanceDays", validationErr.Field)
}

func TestSubmitBatchFailure(t *testing.T) {
	schedules := &mockScheduleStore{err: errors.New("数据库连接中断")}
	c := newTestCoordinator(schedules, &mockTemplateStore{})

	outcome, err := c.Submit(&SubmissionRequest{Draft: validDraft()})
	assert.Nil(t, outcome)

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "创建排班", persistenceErr.Stage)
	assert.Equal(t, 0, persistenceErr.CreatedCount)
}

func TestSubmitTemplateFailureDoesNotRollBackSchedules(t *testing.T) {
	schedules := &mockScheduleStore{}
	templates := &mockTemplateStore{createErr: errors.New("模板表写入失败")}
	c := newTestCoordinator(schedules, templates)

	outcome, err := c.Submit(&SubmissionRequest{
		Draft:          validDraft(),
		SaveAsTemplate: true,
		TemplateName:   "模板",
	})

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "保存模板", persistenceErr.Stage)
	assert.Equal(t, 1, persistenceErr.CreatedCount)

	// 已经创建的排班保留在结果里，没有回滚
	require.NotNil(t, outcome)
	require.Len(t, outcome.Created, 1)
	require.Len(t, schedules.batches, 1)
}

func TestSubmitSourceTemplateIncrementsUsage(t *testing.T) {
	templates := &mockTemplateStore{}
	c := newTestCoordinator(&mockScheduleStore{}, templates)

	sourceID := int64(99)
	_, err := c.Submit(&SubmissionRequest{
		Draft:            validDraft(),
		SourceTemplateID: &sourceID,
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{99}, templates.incremented)
}

func TestSubmitUsageIncrementFailure(t *testing.T) {
	schedules := &mockScheduleStore{}
	templates := &mockTemplateStore{usageErr: errors.New("模板不存在")}
	c := newTestCoordinator(schedules, templates)

	sourceID := int64(99)
	outcome, err := c.Submit(&SubmissionRequest{
		Draft:            validDraft(),
		SourceTemplateID: &sourceID,
	})

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "累加模板使用次数", persistenceErr.Stage)
	assert.Equal(t, 1, persistenceErr.CreatedCount)

	require.NotNil(t, outcome)
	require.Len(t, outcome.Created, 1)
}
