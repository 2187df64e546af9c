package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/configs/database"
	"ocr-server-go/src/core/archive"
	"ocr-server-go/src/core/image"
	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/records"
	"ocr-server-go/src/core/utils"
	"ocr-server-go/src/ocrserver"

	// 导入所有识别器以确保init函数被调用
	_ "ocr-server-go/src/core/ocr/ollama"
	_ "ocr-server-go/src/core/ocr/openai"
	_ "ocr-server-go/src/core/ocr/tesseract"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func LoadConfigAndLogger() (*configs.Config, *utils.Logger, error) {
	// 先加载 .env，使其中的变量参与配置覆盖
	envErr := godotenv.Load()

	// 加载配置,默认使用.config.yaml
	config, configPath, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 初始化日志系统
	logger, err := utils.NewLogger(config)
	if err != nil {
		return nil, nil, err
	}
	if envErr != nil {
		logger.Debug("未找到 .env 文件，使用系统环境变量")
	}
	if configPath == "" {
		configPath = "(默认配置)"
	}
	logger.Info(fmt.Sprintf("日志系统初始化成功, 配置文件路径: %s", configPath))

	return config, logger, nil
}

// buildService 组装识别器、归档和扫描历史
func buildService(ctx context.Context, config *configs.Config, logger *utils.Logger) (*ocrserver.DefaultOCRService, error) {
	recognizer, err := ocr.Create(config.OCR.Recognizer, &config.OCR, logger)
	if err != nil {
		return nil, err
	}
	processor := ocr.NewProcessor(recognizer, ocr.NewConfidenceEstimator(nil), image.NewMetadataExtractor(logger), logger)

	var opts []ocrserver.Option

	store, err := archive.New(ctx, &config.Archive, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化归档失败: %w", err)
	}
	if store != nil {
		opts = append(opts, ocrserver.WithArchive(store))
	}

	// 初始化数据库连接，未配置时关闭扫描历史
	db, dbType, err := database.InitDB(logger)
	switch {
	case errors.Is(err, database.ErrDatabaseURLNotSet):
		logger.Info("未配置 DATABASE_URL，扫描历史已关闭")
	case err != nil:
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	default:
		logger.Info("扫描历史已启用", map[string]interface{}{"type": dbType})
		opts = append(opts, ocrserver.WithRecords(records.NewStore(db)))
	}

	return ocrserver.NewDefaultOCRService(config, logger, processor, opts...)
}

func StartHttpServer(config *configs.Config, logger *utils.Logger, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	// 初始化Gin引擎
	if config.Log.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	service, err := buildService(groupCtx, config, logger)
	if err != nil {
		logger.Error("OCR 服务初始化失败", err)
		return nil, err
	}

	router, err := ocrserver.NewRouter(groupCtx, config, logger, service)
	if err != nil {
		logger.Error("OCR 服务启动失败", err)
		return nil, err
	}
	router.SetTrustedProxies(nil)

	// HTTP Server（支持优雅关机）
	httpServer := &http.Server{
		Addr:              config.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info(fmt.Sprintf("Gin 服务已启动，访问地址: http://%s", config.Addr()))

		// 在单独的 goroutine 中监听关闭信号
		go func() {
			<-groupCtx.Done()
			logger.Info("收到关闭信号，开始关闭HTTP服务...")

			// 创建关闭超时上下文
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP服务关闭失败", err)
			} else {
				logger.Info("HTTP服务已优雅关闭")
			}
		}()

		// ListenAndServe 返回 ErrServerClosed 时表示正常关闭
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP 服务启动失败", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func GracefulShutdown(cancel context.CancelFunc, logger *utils.Logger, g *errgroup.Group) {
	// 监听系统信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// 等待所有服务结束，服务自行退出时不再等待信号
	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case sig := <-sigChan:
		logger.Info(fmt.Sprintf("接收到系统信号: %v，开始优雅关闭服务", sig))
	case err := <-done:
		if err != nil {
			logger.Error("服务异常退出", err)
			os.Exit(1)
		}
		return
	}

	// 取消上下文，通知所有服务开始关闭
	cancel()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("服务关闭过程中出现错误", err)
			os.Exit(1)
		}
		logger.Info("所有服务已优雅关闭")
	case <-time.After(15 * time.Second):
		logger.Error("服务关闭超时，强制退出")
		os.Exit(1)
	}
}

func main() {
	// 加载配置和初始化日志系统
	config, logger, err := LoadConfigAndLogger()
	if err != nil {
		fmt.Println("加载配置或初始化日志系统失败:", err)
		os.Exit(1)
	}
	defer logger.Close()

	// 创建可取消的上下文
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 用 errgroup 管理服务生命周期
	g, groupCtx := errgroup.WithContext(ctx)

	// 启动 Http 服务
	if _, err := StartHttpServer(config, logger, g, groupCtx); err != nil {
		logger.Error("启动服务失败:", err)
		cancel()
		os.Exit(1)
	}

	// 启动优雅关机处理
	GracefulShutdown(cancel, logger, g)

	logger.Info("程序已成功退出")
}
