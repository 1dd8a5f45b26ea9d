package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"lottrack/internal/api"
	"lottrack/internal/config"
	"lottrack/internal/dashboard"
	"lottrack/internal/server"
	"lottrack/internal/sheets"
	"lottrack/internal/store"
	"lottrack/internal/tracker"
	"lottrack/internal/util"
)

var (
	port    = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode = flag.Bool("dev", false, "开发模式")
	dataDir = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  LotTrack - 班次批次跟踪看板")
	fmt.Println("==========================================")

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	// 确保数据目录存在
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("创建数据目录失败: %v", err)
		dataDir = cfg.Data.DataDir
	} else {
		fmt.Printf("数据目录: %s\n", dataDir)
	}

	// 本地流水库
	journal, err := store.New(filepath.Join(dataDir, "lottrack.db"))
	if err != nil {
		log.Fatalf("初始化本地数据库失败: %v", err)
	}
	defer journal.Close()

	// 表格数据源
	if cfg.Sheets.LotSheetURL == "" {
		log.Printf("警告: 未配置批次表地址 (sheets.lot_sheet_url)，采集操作将失败")
	}
	provider := sheets.NewProvider(cfg.Sheets.CredentialsFile)

	lotRef, err := sheets.RefFromURL(cfg.Sheets.LotSheetURL, cfg.Sheets.LotWorksheets)
	if err != nil {
		log.Printf("批次表地址无效: %v", err)
	}
	membersRef, err := sheets.RefFromURL(cfg.Sheets.MembersSheetURL, cfg.Sheets.MembersWorksheets)
	if err != nil {
		log.Printf("成员表地址无效: %v", err)
	}
	attendanceRef, err := sheets.RefFromURL(cfg.Sheets.AttendanceSheetURL, cfg.Sheets.AttendanceWorksheets)
	if err != nil {
		log.Printf("出勤表地址无效: %v", err)
	}
	detapeRef, err := sheets.RefFromURL(cfg.Sheets.DetapeSheetURL, cfg.Sheets.DetapeWorksheets)
	if err != nil {
		log.Printf("detape 表地址无效: %v", err)
	}

	// 业务组件
	coord := dashboard.NewCoordinator(provider, journal, lotRef, cfg.Business.LotColumn)
	attendance := tracker.NewAttendanceTracker(provider, journal, membersRef, attendanceRef, cfg.Business.FullTeamSize)
	detape := tracker.NewDetapeTracker(provider, journal, detapeRef)

	handler := api.NewHandler(coord, attendance, detape, journal, cfg)
	srv := server.NewServer(cfg, handler)

	// 构建地址
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 打开浏览器
	if !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
}
