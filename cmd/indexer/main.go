package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mention2neo/internal/app"
	"mention2neo/internal/export"
	"mention2neo/internal/logging"
	"mention2neo/ioc"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}
	cmd := flag.Arg(0)

	// validate 只读本地文件，不需要任何外部依赖。
	if cmd == "validate" {
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "validate 需要指定数据集文件路径")
			os.Exit(1)
		}
		content, err := os.ReadFile(flag.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "读取数据集失败: %v\n", err)
			os.Exit(1)
		}
		if err := export.Validate(content); err != nil {
			fmt.Fprintf(os.Stderr, "数据集校验失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("数据集校验通过")
		return
	}

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	source, err := ioc.InitSource(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "构建数据源失败: %v\n", err)
		os.Exit(1)
	}
	uploader, err := ioc.InitUploader(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "构建上传客户端失败: %v\n", err)
		os.Exit(1)
	}
	links, cleanupLinks, err := ioc.InitLinkRegistry(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "连接登记表失败: %v\n", err)
		os.Exit(1)
	}
	defer cleanupLinks()

	svc, err := app.NewService(ctx, cfg, source, uploader, links, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "构建服务失败: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close(ctx)

	switch cmd {
	case "index":
		err = svc.Index(ctx)
	case "cleanup":
		result, sweepErr := svc.SweepOrphans(ctx)
		if sweepErr == nil {
			fmt.Printf("孤儿清扫完成: accounts=%d posts=%d regions=%d\n",
				result.AccountsRemoved, result.PostsRemoved, result.RegionsRemoved)
		}
		err = sweepErr
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s 执行失败: %v\n", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("用法: indexer [-config configs/config.yaml] {index|cleanup|validate <file>}")
}
