// Package system 用操作系统自带的命令行工具实现录音、朗读和音频播放。
package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrNoCommand 表示找不到任何可用的候选命令。
var ErrNoCommand = errors.New("no supported audio command found")

// stopGrace 是发送中断信号后等待进程退出的时间。
const stopGrace = 2 * time.Second

var lookPath = exec.LookPath

// firstAvailable 返回第一个能在 PATH 中找到的命令。preferred 非空时只检查它。
func firstAvailable(preferred string, candidates ...string) (string, error) {
	if preferred = strings.TrimSpace(preferred); preferred != "" {
		candidates = []string{preferred}
	}
	for _, name := range candidates {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNoCommand, strings.Join(candidates, ", "))
}

// runOutput 执行命令并返回合并后的输出。
func runOutput(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	out := stdout.String() + stderr.String()
	if err != nil {
		return out, fmt.Errorf("%s failed (exit %d): %w", name, exitCode(err), err)
	}
	return out, nil
}

// interruptible 创建一个在 ctx 取消时收到 SIGINT 而不是被强杀的命令，
// 录音工具借此正常收尾文件。
func interruptible(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = stopGrace
	return cmd
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
