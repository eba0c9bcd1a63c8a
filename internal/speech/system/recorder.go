package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"tokmakchat/internal/logger"
)

// ErrEmptyRecording 表示录音文件里没有音频数据。
var ErrEmptyRecording = errors.New("recording is empty")

// SampleRate 是录音采样率，Whisper 以 16 kHz 单声道效果最好。
const SampleRate = 16000

// wavHeaderSize 之外没有数据的文件视为空录音。
const wavHeaderSize = 44

// MaxDuration 是 arecord 的最长录音秒数（arecord 不支持静音检测）。
const MaxDuration = 30

// Recorder 通过 sox 的 rec 或 alsa 的 arecord 录制一句话到 WAV 文件。
type Recorder struct {
	command string
	log     *logger.LogEntry
}

// NewRecorder 选择录音命令；command 为空时依次尝试 rec、arecord。
func NewRecorder(command string) (*Recorder, error) {
	name, err := firstAvailable(command, "rec", "arecord")
	if err != nil {
		return nil, err
	}
	return &Recorder{command: name, log: logger.Named("recorder")}, nil
}

func (r *Recorder) Command() string { return r.command }

// Record 录音到 path。rec 在检测到 1.5 秒静音后自动停止；ctx 取消时发送中断，
// 已录制的部分保留在文件中。
func (r *Recorder) Record(ctx context.Context, path string) error {
	args := recordArgs(r.command, path)
	cmd := interruptible(ctx, r.command, args...)
	r.log.WithField("command", r.command).Debug("recording started")
	err := cmd.Run()
	if ctx.Err() != nil {
		// 被主动停止时忽略退出码，只看是否录到内容。
		err = nil
	}
	if err != nil {
		return fmt.Errorf("record with %s: %w", r.command, err)
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return fmt.Errorf("record with %s: %w", r.command, statErr)
	}
	if info.Size() <= wavHeaderSize {
		return ErrEmptyRecording
	}
	return nil
}

func recordArgs(command, path string) []string {
	rate := strconv.Itoa(SampleRate)
	switch command {
	case "arecord":
		return []string{"-q", "-f", "S16_LE", "-r", rate, "-c", "1", "-d", strconv.Itoa(MaxDuration), path}
	default:
		return []string{"-q", "-r", rate, "-c", "1", "-b", "16", path,
			"silence", "1", "0.1", "1%", "1", "1.5", "1%"}
	}
}
