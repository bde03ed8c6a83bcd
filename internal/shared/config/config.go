package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/ini.v1"
	"linerelay/internal/shared/types"
)

const (
	DefaultHost = "localhost"
	DefaultPort = 8099
)

// ArgumentError reports a command-line value that could not be used.
type ArgumentError struct {
	Arg   string
	Value string
	Err   error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Arg, e.Value, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

var errPortRange = errors.New("port out of range")

// Default 返回内置的默认配置。
func Default() *types.Config {
	return &types.Config{
		ClientConf: types.ClientConf{
			Host:      DefaultHost,
			Port:      DefaultPort,
			Transport: "tcp",
			WSPath:    "/",
		},
		ConsoleConf: types.ConsoleConf{
			ServerPrefix: "Server: ",
			Prompt:       true,
		},
		LogConf: types.LogConf{Level: "warn"},
	}
}

// LoadIni 加载 client.ini 配置文件并应用环境变量覆盖。
// 如果文件不存在，cfg 中已有的值保持不变。
func LoadIni(cfg *types.Config, fileName string) error {
	if fileName != "" {
		iniFile, err := ini.Load(fileName)
		switch {
		case err == nil:
			if err := iniFile.MapTo(cfg); err != nil {
				return fmt.Errorf("failed to map %s: %w", fileName, err)
			}
		case os.IsNotExist(err):
		default:
			return err
		}
	}
	overrideFromEnvString(&cfg.ClientConf.Host, "RELAY_HOST")
	overrideFromEnvInt(&cfg.ClientConf.Port, "RELAY_PORT")
	return nil
}

// ApplyArgs applies the positional arguments: host, then port.
// An unusable port leaves the default in place and returns an *ArgumentError.
func ApplyArgs(cfg *types.Config, args []string) error {
	if len(args) > 0 && args[0] != "" {
		cfg.ClientConf.Host = args[0]
	}
	if len(args) > 1 {
		port, err := ParsePort(args[1])
		if err != nil {
			cfg.ClientConf.Port = DefaultPort
			return &ArgumentError{Arg: "port", Value: args[1], Err: err}
		}
		cfg.ClientConf.Port = port
	}
	return nil
}

// ApplyArgsOrWarn 调用 ApplyArgs，端口无效时向 w 打印警告并继续使用默认端口。
func ApplyArgsOrWarn(cfg *types.Config, args []string, w io.Writer) {
	var argErr *ArgumentError
	if err := ApplyArgs(cfg, args); errors.As(err, &argErr) {
		fmt.Fprintf(w, "Invalid port number. Using default port %d.\n", DefaultPort)
	}
}

// ParsePort parses a TCP port number.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if port < 1 || port > 65535 {
		return 0, errPortRange
	}
	return port, nil
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}

func overrideFromEnvString(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}
