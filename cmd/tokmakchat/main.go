package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"tokmakchat/internal/events"
	"tokmakchat/internal/features"
	"tokmakchat/internal/logger"
	"tokmakchat/internal/speech"
	"tokmakchat/internal/tui"
)

var log = logger.Named("cli")

// llmLogPath 是模型请求/响应日志的默认位置。
const llmLogPath = "logs/llm.log"

func main() {
	// .env 只补充尚未设置的环境变量，文件不存在时忽略。
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("failed to load .env: %v", err)
	}
	logger.Configure()

	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parse args: %v", err)
	}
	logPath := root.logFile
	if strings.TrimSpace(logPath) == "" {
		logPath = logger.DefaultLogPath
	}
	if logFile, _, err := logger.SetupFile(logPath); err != nil {
		log.Warnf("failed to initialize log file (%s): %v", logPath, err)
	} else {
		defer logFile.Close()
	}
	if entry, closer, _, err := logger.SetupComponentFile("llm", llmLogPath); err != nil {
		log.Warnf("failed to initialize llm log (%s): %v", llmLogPath, err)
	} else {
		logger.SetGlobalLLMLogger(logger.NewLLMLogger(entry.Logger))
		defer closer.Close()
	}

	if len(rest) > 0 {
		switch rest[0] {
		case "ask":
			askMain(root, rest[1:])
			return
		case "analyze":
			analyzeMain(root, rest[1:])
			return
		case "tasks":
			tasksMain(root, rest[1:])
			return
		case "voices":
			voicesMain(root, rest[1:])
			return
		case "ping":
			pingMain(root, rest[1:])
			return
		default:
			log.Fatalf("unknown command %q", rest[0])
		}
	}

	if err := runInteractive(root); err != nil {
		log.Fatalf("program exit: %v", err)
	}
}

// runInteractive 组装 SQ/EQ、语音桥与 TUI，阻塞到用户退出。
func runInteractive(root rootArgs) error {
	rt, err := loadRuntime(root)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(rt.Config.LogLevel); err != nil {
		log.Warnf("%v", err)
	}
	log.WithField("config", rt.Config.Source).WithField("provider", rt.Config.Provider).Info("starting interactive session")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := events.NewManager(events.ManagerConfig{})
	events.RegisterAssistant(manager, buildAssistant(rt, logger.LLMLog))
	eq := manager.Subscribe()
	manager.Start(ctx)
	defer manager.Close()

	bus := events.NewBus()
	defer bus.Close()

	// speech.backend = none 时桥接没有任何能力，启动识别会报告不可用。
	backend := buildSpeech(rt)
	bridge := speech.NewBridge(speech.Options{
		Recognizer:  backend.Recognizer,
		Synthesizer: backend.Synthesizer,
		Locale:      rt.Locale,
		Voice:       rt.Config.Speech.Voice,
		Handlers:    tui.VoiceHandlers(bus),
	})
	defer bridge.Close()

	workdir, err := os.Getwd()
	if err != nil {
		log.Warnf("resolve working directory: %v", err)
	}

	return tui.Run(tui.Options{
		Submitter:    manager,
		Events:       eq,
		Bus:          bus,
		Speech:       bridge,
		Context:      ctx,
		Language:     rt.Language.Code(),
		Profile:      rt.Config.UserProfile,
		SpeakReplies: rt.Features.Enabled(features.SpeakReplies),
		ManualTasks:  !rt.Features.Enabled(features.TasksAutoFetch),
		Workdir:      workdir,
		Model:        rt.Config.Model,
	})
}
