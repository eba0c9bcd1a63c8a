package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tokmakchat/internal/assistant"
	"tokmakchat/internal/document"
	"tokmakchat/internal/logger"
	"tokmakchat/internal/panels"
	"tokmakchat/internal/speech"
)

func askMain(root rootArgs, args []string) {
	if err := runAsk(root, args, os.Stdout); err != nil {
		log.Fatalf("ask failed: %v", err)
	}
}

func analyzeMain(root rootArgs, args []string) {
	if err := runAnalyze(root, args, os.Stdout); err != nil {
		log.Fatalf("analyze failed: %v", err)
	}
}

func tasksMain(root rootArgs, args []string) {
	if err := runTasks(root, args, os.Stdout); err != nil {
		log.Fatalf("tasks failed: %v", err)
	}
}

func voicesMain(root rootArgs, args []string) {
	if err := runVoices(root, args, os.Stdout); err != nil {
		log.Fatalf("voices failed: %v", err)
	}
}

// runAsk 发起一次对话请求并打印回复，--speak 时等朗读结束再返回。
func runAsk(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var speak bool
	fs.BoolVar(&speak, "speak", false, "Read the reply aloud")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return errors.New("usage: tokmakchat ask [--speak] <text>")
	}

	rt, err := loadRuntime(root)
	if err != nil {
		return err
	}
	res := buildAssistant(rt, logger.LLMLog).Converse(context.Background(), assistant.ConverseInput{
		Query:    query,
		Language: rt.Language.Code(),
	})
	if !res.Success {
		return errors.New(res.Error)
	}
	_, _ = fmt.Fprintln(out, res.Data.Response)

	if speak {
		backend := buildSpeech(rt)
		bridge := speech.NewBridge(speech.Options{
			Synthesizer: backend.Synthesizer,
			Locale:      rt.Locale,
			Voice:       rt.Config.Speech.Voice,
		})
		defer bridge.Close()
		done := make(chan struct{})
		bridge.Speak(res.Data.Response, func() { close(done) })
		<-done
	}
	return nil
}

// runAnalyze 读取本地文档并打印两份摘要。
func runAnalyze(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: tokmakchat analyze <file>")
	}
	doc, err := document.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	rt, err := loadRuntime(root)
	if err != nil {
		return err
	}
	res := buildAssistant(rt, logger.LLMLog).AnalyzeDocument(context.Background(), assistant.AnalyzeDocumentInput{
		DocumentDataURI: doc.DataURI(),
	})
	if !res.Success {
		return errors.New(res.Error)
	}
	_, _ = fmt.Fprintf(out, "%s\n%s\n\n%s\n%s\n",
		panels.AbstractHeading, res.Data.AbstractSummary,
		panels.ConcreteHeading, res.Data.ConcreteSummary)
	return nil
}

// runTasks 打印预测的任务列表，--now 接受 RFC 3339 时间。
func runTasks(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var profile string
	var nowFlag string
	fs.StringVar(&profile, "profile", "", "User profile (default from config)")
	fs.StringVar(&nowFlag, "now", "", "Current time in RFC 3339 (default now)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := time.Now()
	if strings.TrimSpace(nowFlag) != "" {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(nowFlag))
		if err != nil {
			return fmt.Errorf("parse --now: %w", err)
		}
		now = parsed
	}

	rt, err := loadRuntime(root)
	if err != nil {
		return err
	}
	if strings.TrimSpace(profile) == "" {
		profile = rt.Config.UserProfile
	}
	res := buildAssistant(rt, logger.LLMLog).AnticipateTasks(context.Background(), assistant.AnticipateTasksInput{
		UserProfile:     profile,
		CurrentDateTime: now.Format(time.RFC3339),
	})
	if !res.Success {
		return errors.New(res.Error)
	}
	if len(res.Data.AnticipatedTasks) == 0 {
		_, _ = fmt.Fprintln(out, panels.TasksEmptyState)
		return nil
	}
	for _, task := range res.Data.AnticipatedTasks {
		_, _ = fmt.Fprintf(out, "✓ %s\n", task.TaskDescription)
		if task.Reasoning != "" {
			_, _ = fmt.Fprintf(out, "  %s %s\n", panels.ReasonLabel, task.Reasoning)
		}
	}
	return nil
}

// runVoices 列出合成器音色，匹配当前 locale 的标 *。
func runVoices(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("voices", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, err := loadRuntime(root)
	if err != nil {
		return err
	}
	synth := buildSpeech(rt).Synthesizer
	if synth == nil {
		return speech.ErrNoSynthesizer
	}
	return printVoices(context.Background(), synth, rt.Locale, out)
}

func printVoices(ctx context.Context, synth speech.Synthesizer, locale string, out io.Writer) error {
	voices, err := synth.Voices(ctx)
	if err != nil {
		return fmt.Errorf("list voices: %w", err)
	}
	matched := 0
	for _, v := range voices {
		mark := " "
		if v.MatchesLocale(locale) {
			mark = "*"
			matched++
		}
		_, _ = fmt.Fprintf(out, "%s %-24s %-8s %s\n", mark, v.Name, v.Language, v.ID)
	}
	if matched == 0 {
		_, _ = fmt.Fprintf(out, "%s voice not found, using default.\n", speech.LanguageName(locale))
	}
	return nil
}
