package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bissaliev/ReferalProject/config"
	"github.com/bissaliev/ReferalProject/internal/api/handler"
	"github.com/bissaliev/ReferalProject/internal/api/router"
	"github.com/bissaliev/ReferalProject/internal/repository"
	"github.com/bissaliev/ReferalProject/internal/service"
	"github.com/bissaliev/ReferalProject/pkg/codegen"
	"github.com/bissaliev/ReferalProject/pkg/database"
	"github.com/bissaliev/ReferalProject/pkg/jwt"
	applogger "github.com/bissaliev/ReferalProject/pkg/logger"
	"github.com/bissaliev/ReferalProject/pkg/notify"
	"github.com/bissaliev/ReferalProject/pkg/redis"
	"github.com/bissaliev/ReferalProject/pkg/verification"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("REFERRAL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("notify_sender", cfg.Notify.Sender),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时验证码退回进程内存储，黑名单与限流关闭）
	deps := service.Deps{Gen: codegen.NewGenerator()}
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，验证码改用内存存储，Token 黑名单与限流不可用", zap.Error(err))
		rdb = nil
		deps.Store = verification.NewMemoryStore(cfg.Verification.CodeTTL, nil)
	} else {
		deps.Store = verification.NewRedisStore(rdb, cfg.Verification.CodeTTL)
		deps.Revoker = rdb
	}

	// 5. 验证码投递渠道
	deps.Sender, err = notify.New(&cfg.Notify, logger)
	if err != nil {
		logger.Fatal("初始化验证码投递失败", zap.Error(err))
	}

	// 6. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)
	deps.Tokens = jwtMgr

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, deps, logger)
	h := handler.NewHandler(svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("服务器已关闭")
}
