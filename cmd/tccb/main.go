package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dhyhn5012/tccb/internal/apperror"
	"github.com/dhyhn5012/tccb/internal/config"
	"github.com/dhyhn5012/tccb/internal/logger"
	"github.com/dhyhn5012/tccb/internal/server"
	"github.com/dhyhn5012/tccb/internal/util"
)

var (
	port    = flag.Int("port", 0, "cổng dịch vụ (chỉ dùng khi config.toml không khai báo port)")
	devMode = flag.Bool("dev", false, "chế độ phát triển")
	dataDir = flag.String("dataDir", "", "thư mục dữ liệu (ghi đè tệp cấu hình)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  TCCB - Thống kê lịch trực bệnh viện")
	fmt.Println("==========================================")

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("Không đọc được cấu hình, dùng cấu hình mặc định: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Cấu hình không hợp lệ: %v", err)
	}

	resolvedDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("Không tạo được thư mục dữ liệu: %v", err)
		resolvedDir = cfg.Data.DataDir
	} else {
		fmt.Printf("Thư mục dữ liệu: %s\n", resolvedDir)
	}

	l, flush, err := logger.Init(cfg.Log, resolvedDir, cfg.Server.DevMode)
	if err != nil {
		log.Fatalf("Không khởi tạo được logger: %v", err)
	}
	defer flush()

	apperror.Init()

	srv, err := server.NewServer(cfg)
	if err != nil {
		l.Fatal("server init failed", zap.Error(err))
	}

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		l.Info("listening", zap.String("addr", srv.Addr()), zap.String("config", info.Path))
		if err := srv.Run(); err != nil {
			l.Fatal("server stopped", zap.Error(err))
		}
	}()

	if !cfg.Server.DevMode && cfg.Server.OpenBrowser {
		fmt.Printf("Đang mở trình duyệt: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("Không mở được trình duyệt, vui lòng truy cập: %s\n", url)
		}
	} else {
		fmt.Printf("Truy cập: %s\n", url)
	}

	fmt.Println("\nNhấn Ctrl+C để dừng...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	l.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error("shutdown", zap.Error(err))
	}
}
