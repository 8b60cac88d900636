// Package notify 负责把验证码投递给用户。
// 真实短信通道不在本服务范围内，这里提供文件旁路与日志两种实现。
package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bissaliev/ReferalProject/config"
	"github.com/bissaliev/ReferalProject/pkg/logger"
)

// Sender 验证码投递接口，调用方按尽力而为处理失败
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// New 按配置创建 Sender
func New(cfg *config.NotifyConfig, log *zap.Logger) (Sender, error) {
	switch cfg.Sender {
	case "file":
		return NewFileSender(cfg.Dir)
	case "log":
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("未知的 notify.sender: %q", cfg.Sender)
	}
}

// ── 文件旁路 ──

// FileSender 将验证码写入 <dir>/<手机号>.txt，模拟短信送达
type FileSender struct {
	dir string
}

// NewFileSender 创建文件投递器，目录不存在时自动创建
func NewFileSender(dir string) (*FileSender, error) {
	if dir == "" {
		dir = "auth_codes"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建验证码目录失败: %w", err)
	}
	return &FileSender{dir: dir}, nil
}

func (s *FileSender) Send(_ context.Context, phone, code string) error {
	path := filepath.Join(s.dir, filepath.Base(phone)+".txt")
	body := fmt.Sprintf("Ваш код подтверждения: %s\n", code)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		return fmt.Errorf("写入验证码文件失败: %w", err)
	}
	return nil
}

// ── 日志 ──

// LogSender 仅记录一条日志，不输出验证码本身
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) Send(_ context.Context, phone, _ string) error {
	s.logger.Info("验证码已生成", logger.Phone(phone))
	return nil
}
