package types

// ClientConf 描述要连接的服务器以及如何建立连接。
type ClientConf struct {
	Host        string `ini:"host"`
	Port        int    `ini:"port"`
	Transport   string `ini:"transport"`    // "tcp" (默认) 或 "ws"
	WSPath      string `ini:"ws_path"`      // WebSocket路径, e.g., "/relay"
	SocksProxy  string `ini:"socks_proxy"`  // 可选的上游 SOCKS5 代理 host:port
	DialTimeout int    `ini:"dial_timeout"` // 秒, 0 表示不设超时
}

// ConsoleConf controls what the client writes to the terminal.
type ConsoleConf struct {
	ServerPrefix string `ini:"server_prefix"`
	Prompt       bool   `ini:"prompt"`
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// Config 是客户端的统一配置结构体
type Config struct {
	ClientConf  `ini:"client"`
	ConsoleConf `ini:"console"`
	LogConf     `ini:"log"`
}
