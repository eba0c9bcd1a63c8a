package system

import (
	"context"
	"fmt"

	"tokmakchat/internal/logger"
)

// Player 通过 afplay / mpg123 / ffplay 播放音频文件。
type Player struct {
	command string
	log     *logger.LogEntry
}

// NewPlayer 选择播放命令；command 为空时按 afplay、mpg123、ffplay 顺序查找。
func NewPlayer(command string) (*Player, error) {
	name, err := firstAvailable(command, "afplay", "mpg123", "ffplay")
	if err != nil {
		return nil, err
	}
	return &Player{command: name, log: logger.Named("player")}, nil
}

func (p *Player) Command() string { return p.command }

// Play 阻塞到播放结束；ctx 取消会终止播放。
func (p *Player) Play(ctx context.Context, path string) error {
	args := playArgs(p.command, path)
	p.log.WithField("command", p.command).Debug("playing audio")
	if _, err := runOutput(ctx, p.command, args...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

func playArgs(command, path string) []string {
	switch command {
	case "mpg123":
		return []string{"-q", path}
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}
	default:
		return []string{path}
	}
}
