package app

import (
	"errors"
	"strings"

	"github.com/dealerdesk/internal/provider"
	"github.com/dealerdesk/internal/router"
	"github.com/dealerdesk/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(opts Options) (*Runner, error) {
	opts = normalizeOptions(opts)
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mode := opts.Mode

	container := provider.NewContainer(cfg)
	bootstrapDefaultAdmin(container, opts)

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	// 初始化 Worker 服务，all 模式下队列未启用时导出在请求内完成
	if mode == ModeAll && !cfg.Queue.Enabled {
		opts.Logger.Infow("worker_skip_queue_disabled")
	} else if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	// 模式错误时没有任何服务
	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

// bootstrapDefaultAdmin 首次启动时创建默认管理员，已有管理员时跳过
func bootstrapDefaultAdmin(container *provider.Container, opts Options) {
	if container == nil || container.AuthService == nil {
		return
	}
	if opts.Config.Server.Mode == "release" && strings.TrimSpace(opts.DefaultAdminPassword) == "" {
		opts.Logger.Warnw("default_admin_skip_missing_password")
		return
	}
	created, err := container.AuthService.EnsureDefaultAdmin(opts.DefaultAdminUsername, opts.DefaultAdminPassword)
	if err != nil {
		opts.Logger.Warnw("default_admin_init_failed", "error", err)
		return
	}
	if created {
		opts.Logger.Infow("default_admin_ready")
	}
}
