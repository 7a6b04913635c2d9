package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sgms-2025/staff-scheduler/backend/internal/config"
	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
	"github.com/sgms-2025/staff-scheduler/backend/internal/repository"
	"github.com/sgms-2025/staff-scheduler/backend/internal/scheduler"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	coordinator *scheduler.Coordinator
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		coordinator: scheduler.NewCoordinator(repo, repo),
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/staffs", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateStaff)
			r.Get("/", h.GetAllStaffs) // 同门店的员工需要互相看到排班，因此都有权限查看员工列表
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffInfo)
				r.Get("/", h.GetStaffInfo)
			})
		})

		r.Route("/schedules", func(r chi.Router) {
			r.With(h.myInfo).Post("/", h.SubmitSchedule)
			r.Get("/", h.GetSchedules)
		})

		r.Route("/schedule-templates", func(r chi.Router) {
			r.Get("/", h.GetScheduleTemplatesByBranch)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.scheduleTemplate)
				r.Get("/", h.GetScheduleTemplate)
				r.Get("/apply", h.ApplyScheduleTemplate)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteScheduleTemplate)
			})
		})
	})
}
