// Package speech 提供语音识别/合成的桥接层：控制器只面对 Bridge，
// 具体能力（系统命令、OpenAI 音频接口）通过 Recognizer / Synthesizer 注入。
package speech

import (
	"context"
	"errors"
	"strings"
)

// DefaultLocale 是识别与合成使用的固定语言区域。
const DefaultLocale = "tr-TR"

var (
	// ErrUnavailable 表示当前平台没有可用的语音识别能力。
	ErrUnavailable = errors.New("speech recognition is not available")
	// ErrNoSynthesizer 表示没有可用的语音合成能力。
	ErrNoSynthesizer = errors.New("speech synthesis is not available")
	// ErrBusy 表示已有识别会话在进行。
	ErrBusy = errors.New("speech recognition already active")
	// ErrClosed 表示 Bridge 已释放。
	ErrClosed = errors.New("speech bridge closed")
)

// Recognizer 识别单句语音。ctx 取消表示提前结束，实现应返回已捕获音频的转写结果。
type Recognizer interface {
	Recognize(ctx context.Context, locale string) (string, error)
}

// Synthesizer 把文本朗读出来。Speak 阻塞到播放结束或 ctx 取消。
type Synthesizer interface {
	Voices(ctx context.Context) ([]Voice, error)
	Speak(ctx context.Context, text string, voice *Voice) error
}

// Voice 描述一个可用的合成音色。Language 为 "mul" 表示多语种音色。
type Voice struct {
	ID       string
	Name     string
	Language string
}

// LanguageMultilingual 标记可朗读任意语言的音色。
const LanguageMultilingual = "mul"

// MatchesLocale 判断音色语言是否匹配 locale，接受 tr-TR / tr_TR / tr 三种写法。
func (v Voice) MatchesLocale(locale string) bool {
	lang := normalizeLocale(v.Language)
	want := normalizeLocale(locale)
	if lang == "" || want == "" {
		return false
	}
	if lang == LanguageMultilingual || lang == want {
		return true
	}
	return baseLanguage(lang) == baseLanguage(want) && (!strings.Contains(lang, "-") || !strings.Contains(want, "-"))
}

// SelectVoice 选择音色：优先用户指定的音色，其次第一个匹配 locale 的音色。
func SelectVoice(voices []Voice, locale, preferred string) (Voice, bool) {
	preferred = strings.TrimSpace(preferred)
	if preferred != "" {
		for _, v := range voices {
			if strings.EqualFold(v.ID, preferred) || strings.EqualFold(v.Name, preferred) {
				return v, true
			}
		}
	}
	for _, v := range voices {
		if normalizeLocale(v.Language) == normalizeLocale(locale) {
			return v, true
		}
	}
	for _, v := range voices {
		if v.MatchesLocale(locale) {
			return v, true
		}
	}
	return Voice{}, false
}

// LanguageName 返回 locale 的英文语言名，用于日志。
func LanguageName(locale string) string {
	switch baseLanguage(normalizeLocale(locale)) {
	case "tr":
		return "Turkish"
	case "en":
		return "English"
	case "zh":
		return "Chinese"
	case "de":
		return "German"
	case "":
		return "Default"
	default:
		return strings.ToUpper(baseLanguage(normalizeLocale(locale)))
	}
}

// LanguageCode 返回 locale 的两字母语言代码，例如 tr-TR -> tr。
func LanguageCode(locale string) string {
	return baseLanguage(normalizeLocale(locale))
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}

func baseLanguage(locale string) string {
	if idx := strings.IndexByte(locale, '-'); idx >= 0 {
		return locale[:idx]
	}
	return locale
}
