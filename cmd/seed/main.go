package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sgms-2025/staff-scheduler/backend/internal/config"
	"github.com/sgms-2025/staff-scheduler/backend/internal/repository"
	"github.com/sgms-2025/staff-scheduler/backend/internal/seed"
	"github.com/sgms-2025/staff-scheduler/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var branchID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 插入随机排班模板, 3: 为所有员工插入演示排班)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&branchID, "branch-id", 1, "记录所属的门店 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				staff, err := utils.GenerateRandomStaff(cfg.Seed.Staff.Password, cfg.Email.StaffDomain, branchID)
				if err != nil {
					slog.Error("无法生成随机员工", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateStaff(staff); err != nil {
					slog.Error("无法插入员工", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入员工成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的排班模板数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				template, err := seed.GenerateRandomScheduleTemplate(branchID)
				if err != nil {
					slog.Error("无法生成随机排班模板", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateScheduleTemplate(template); err != nil {
					slog.Error("无法插入排班模板", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入排班模板成功", slog.Int("count", n-cnt))
		}
	case 3:
		seed.SeedDemoSchedules(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
