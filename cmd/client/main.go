package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"linerelay/internal/client"
	"linerelay/internal/shared/config"
	"linerelay/internal/shared/logger"
)

func main() {
	configPath := flag.String("config", "configs/client.ini", "Path to client.ini")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config path] [host] [port]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// 1. 加载配置: 默认值 < client.ini < 环境变量 < 命令行参数
	cfg := config.Default()
	if err := config.LoadIni(cfg, *configPath); err != nil {
		// Use standard fmt before logger is initialized.
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", *configPath, err)
		os.Exit(1)
	}
	config.ApplyArgsOrWarn(cfg, flag.Args(), os.Stderr)

	// 2. 初始化日志系统
	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// 3. 连接并运行会话
	c := client.New(cfg, client.StdConsole(), nil)
	if err := c.Connect(context.Background()); err != nil {
		logger.Debug().Err(err).Msg("Client exiting without a session")
		return
	}
	c.Run()
}
