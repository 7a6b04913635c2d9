package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
)

func (r *Repository) CreateScheduleTemplate(template *domain.ScheduleTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO schedule_templates (name, description, type, branch_id, staff_id, class_id, start_time, end_time, notes, auto_generate_enabled, auto_generate_advance_days, auto_generate_end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, usage_count, created_at, version
	`

	args := []any{
		template.Name,
		template.Description,
		template.Type,
		template.BranchID,
		template.StaffID,
		template.ClassID,
		template.StartTime,
		template.EndTime,
		template.Notes,
		template.AutoGenerate.Enabled,
		template.AutoGenerate.AdvanceDays,
		template.AutoGenerate.EndDate,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&template.ID, &template.UsageCount, &template.CreatedAt, &template.Version); err != nil {
		return err
	}

	for _, day := range template.DaysOfWeek {
		query = `
			INSERT INTO schedule_template_days (template_id, day)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, template.ID, day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleTemplate(id int64) (*domain.ScheduleTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			st.name,
			st.description,
			st.type,
			st.branch_id,
			st.staff_id,
			st.class_id,
			st.start_time,
			st.end_time,
			st.notes,
			st.auto_generate_enabled,
			st.auto_generate_advance_days,
			st.auto_generate_end_date,
			st.usage_count,
			st.created_at,
			st.version,
			std.day
		FROM schedule_templates st
		LEFT JOIN schedule_template_days std ON st.id = std.template_id
		WHERE st.id = $1
		ORDER BY std.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	template := &domain.ScheduleTemplate{
		ID:         id,
		DaysOfWeek: make([]domain.Weekday, 0),
	}
	found := false

	for rows.Next() {
		var day sql.NullString

		dst := []any{
			&template.Name,
			&template.Description,
			&template.Type,
			&template.BranchID,
			&template.StaffID,
			&template.ClassID,
			&template.StartTime,
			&template.EndTime,
			&template.Notes,
			&template.AutoGenerate.Enabled,
			&template.AutoGenerate.AdvanceDays,
			&template.AutoGenerate.EndDate,
			&template.UsageCount,
			&template.CreatedAt,
			&template.Version,
			&day,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		found = true

		// day 为空表示这个模板没有记录任何适用的星期
		if !day.Valid {
			continue
		}

		template.DaysOfWeek = append(template.DaysOfWeek, domain.Weekday(day.String))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return template, nil
}

func (r *Repository) GetScheduleTemplatesByBranch(branchID int64) ([]*domain.ScheduleTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			st.id,
			st.name,
			st.description,
			st.type,
			st.branch_id,
			st.staff_id,
			st.class_id,
			st.start_time,
			st.end_time,
			st.notes,
			st.auto_generate_enabled,
			st.auto_generate_advance_days,
			st.auto_generate_end_date,
			st.usage_count,
			st.created_at,
			st.version,
			std.day
		FROM schedule_templates st
		LEFT JOIN schedule_template_days std ON st.id = std.template_id
		WHERE st.branch_id = $1
		ORDER BY st.id, std.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templatesMap := make(map[int64]*domain.ScheduleTemplate)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID          int64
			Name        string
			Description string
			Type        domain.ScheduleType
			BranchID    int64
			StaffID     *int64
			ClassID     *int64
			StartTime   string
			EndTime     string
			Notes       string
			AGEnabled   bool
			AGAdvance   int32
			AGEndDate   string
			UsageCount  int32
			CreatedAt   time.Time
			Version     int32

			Day sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.Description,
			&row.Type,
			&row.BranchID,
			&row.StaffID,
			&row.ClassID,
			&row.StartTime,
			&row.EndTime,
			&row.Notes,
			&row.AGEnabled,
			&row.AGAdvance,
			&row.AGEndDate,
			&row.UsageCount,
			&row.CreatedAt,
			&row.Version,
			&row.Day,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		template, exists := templatesMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个模板，需要在 map 中初始化这个模板
			template = &domain.ScheduleTemplate{
				ID:          row.ID,
				Name:        row.Name,
				Description: row.Description,
				Type:        row.Type,
				BranchID:    row.BranchID,
				StaffID:     row.StaffID,
				ClassID:     row.ClassID,
				StartTime:   row.StartTime,
				EndTime:     row.EndTime,
				Notes:       row.Notes,
				AutoGenerate: domain.AutoGenerateSetting{
					Enabled:     row.AGEnabled,
					AdvanceDays: row.AGAdvance,
					EndDate:     row.AGEndDate,
				},
				UsageCount: row.UsageCount,
				CreatedAt:  row.CreatedAt,
				Version:    row.Version,
				DaysOfWeek: make([]domain.Weekday, 0),
			}
			templatesMap[row.ID] = template
			order = append(order, row.ID)
		}

		if !row.Day.Valid {
			continue
		}

		template.DaysOfWeek = append(template.DaysOfWeek, domain.Weekday(row.Day.String))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	templates := make([]*domain.ScheduleTemplate, 0, len(order))
	for _, id := range order {
		templates = append(templates, templatesMap[id])
	}

	return templates, nil
}

func (r *Repository) IncrementTemplateUsage(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE schedule_templates
		SET usage_count = usage_count + 1
		WHERE id = $1
		RETURNING usage_count
	`

	var usageCount int32
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&usageCount); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteScheduleTemplate(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM schedule_templates WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
