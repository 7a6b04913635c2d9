package repository

import (
	"context"
	"time"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
)

// CreateSchedulesBatch 在单个事务中批量插入排班，要么全部成功要么全部失败。
// 允许传入空列表，此时事务直接提交，不算错误
func (r *Repository) CreateSchedulesBatch(instances []*domain.ScheduleInstance) error {
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
		INSERT INTO schedules (name, type, staff_id, branch_id, schedule_date, start_time, end_time, status, max_capacity, current_bookings, notes, is_recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, version
	`

	for _, instance := range instances {
		args := []any{
			instance.Name,
			instance.Type,
			instance.StaffID,
			instance.BranchID,
			instance.Date,
			instance.StartTime,
			instance.EndTime,
			instance.Status,
			instance.MaxCapacity,
			instance.CurrentBookings,
			instance.Notes,
			instance.IsRecurring,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&instance.ID, &instance.CreatedAt, &instance.Version); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSchedulesByStaff(staffID int64, fromDate string, toDate string) ([]*domain.ScheduleInstance, error) {
	return r.getSchedules("staff_id", staffID, fromDate, toDate)
}

func (r *Repository) GetSchedulesByBranch(branchID int64, fromDate string, toDate string) ([]*domain.ScheduleInstance, error) {
	return r.getSchedules("branch_id", branchID, fromDate, toDate)
}

// column 只会是 staff_id 或 branch_id，不接受外部输入
func (r *Repository) getSchedules(column string, id int64, fromDate string, toDate string) ([]*domain.ScheduleInstance, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, type, staff_id, branch_id, schedule_date, start_time, end_time, status, max_capacity, current_bookings, notes, is_recurring, created_at, version
		FROM schedules
		WHERE ` + column + ` = $1
	`
	args := []any{id}

	// 日期范围是可选的过滤条件
	if fromDate != "" {
		args = append(args, fromDate)
		query += ` AND schedule_date >= $2`
	}
	if toDate != "" {
		args = append(args, toDate)
		if fromDate != "" {
			query += ` AND schedule_date <= $3`
		} else {
			query += ` AND schedule_date <= $2`
		}
	}

	query += ` ORDER BY schedule_date, start_time, id`

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.ScheduleInstance, 0)
	for rows.Next() {
		instance := &domain.ScheduleInstance{}
		dst := []any{
			&instance.ID,
			&instance.Name,
			&instance.Type,
			&instance.StaffID,
			&instance.BranchID,
			&instance.Date,
			&instance.StartTime,
			&instance.EndTime,
			&instance.Status,
			&instance.MaxCapacity,
			&instance.CurrentBookings,
			&instance.Notes,
			&instance.IsRecurring,
			&instance.CreatedAt,
			&instance.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		schedules = append(schedules, instance)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}
