package i18n

import "strings"

// Language 描述回复与语音使用的主要语言。
// 使用简短的语言代码（如 tr、en），便于在配置与提示词中传递。
type Language string

const (
	LanguageTurkish Language = "tr"
	LanguageEnglish Language = "en"
	LanguageChinese Language = "zh"

	// DefaultLanguage 未配置时的默认语言。
	DefaultLanguage = LanguageTurkish
)

// Normalize 将用户输入的语言值转换为统一的语言代码。
// 空字符串回退到默认语言，未知值原样保留。
func Normalize(value string) Language {
	lang := strings.ToLower(strings.TrimSpace(value))
	switch lang {
	case "":
		return DefaultLanguage
	case "tr", "tr-tr", "tr_tr", "turkish", "türkçe", "turkce":
		return LanguageTurkish
	case "en", "en-us", "en_us", "en-gb", "english":
		return LanguageEnglish
	case "zh", "zh-cn", "zh_cn", "zh-hans", "cn", "chinese", "中文":
		return LanguageChinese
	default:
		return Language(lang)
	}
}

// Code 返回规范化后的语言代码。
func (l Language) Code() string {
	return string(Normalize(string(l)))
}

// DisplayName 返回适合展示的语言名称，未知语言返回原始代码。
func (l Language) DisplayName() string {
	switch n := Normalize(string(l)); n {
	case LanguageTurkish:
		return "Türkçe"
	case LanguageEnglish:
		return "English"
	case LanguageChinese:
		return "中文"
	default:
		return string(n)
	}
}

// Locale 返回语音识别与合成使用的 BCP 47 区域标签。
func (l Language) Locale() string {
	switch n := Normalize(string(l)); n {
	case LanguageTurkish:
		return "tr-TR"
	case LanguageEnglish:
		return "en-US"
	case LanguageChinese:
		return "zh-CN"
	default:
		return string(n)
	}
}

// FromLocale 从 tr-TR / tr_TR 形式的区域标签中取出语言部分。
func FromLocale(locale string) Language {
	locale = strings.TrimSpace(locale)
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		locale = locale[:idx]
	}
	return Normalize(locale)
}
