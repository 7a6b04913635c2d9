package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
	"github.com/sgms-2025/staff-scheduler/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Role     string `json:"role" validate:"required"`
		BranchID int64  `json:"branchID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 生成随机初始密码，通过邮件告知新员工
	password := utils.GenerateRandomPassword(h.config.NewStaff.PasswordLength)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	staff := &domain.Staff{
		Username:     req.Username,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         domain.Role(req.Role),
		BranchID:     req.BranchID,
	}

	if err := h.repository.CreateStaff(staff); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "staffs_username_key":
				h.errorResponse(w, r, "用户名已存在")
			case "staffs_email_key":
				h.errorResponse(w, r, "邮箱已被占用")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 把初始密码通过邮件发送给新员工
	mailMessage := domain.MailMessage{
		Type: "staff_account",
		To:   staff.Email,
		Data: domain.StaffAccountMailData{
			FullName: staff.FullName,
			Username: staff.Username,
			Password: password,
		},
	}

	if err := h.publishMailMessage(mailMessage); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建员工成功", staff)
}

func (h *Handler) GetAllStaffs(w http.ResponseWriter, r *http.Request) {
	staffs, err := h.repository.GetAllStaffs()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", staffs)
}

func (h *Handler) GetStaffInfo(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	h.successResponse(w, r, "获取员工信息成功", staff)
}
