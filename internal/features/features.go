package features

import "sort"

// Stage 表示特性开关所处的生命周期阶段。
type Stage string

const (
	StageStable       Stage = "stable"
	StageBeta         Stage = "beta"
	StageExperimental Stage = "experimental"
)

// 已知特性。
const (
	VoiceInput     = "voice_input"
	SpeakReplies   = "speak_replies"
	DocumentVision = "document_vision"
	TasksAutoFetch = "tasks_autofetch"
)

// Spec describes a feature flag exposed by the CLI.
type Spec struct {
	Key            string
	Stage          Stage
	DefaultEnabled bool
}

// Specs 列出所有特性开关。
var Specs = []Spec{
	{Key: VoiceInput, Stage: StageStable, DefaultEnabled: true},
	{Key: SpeakReplies, Stage: StageStable, DefaultEnabled: true},
	{Key: TasksAutoFetch, Stage: StageStable, DefaultEnabled: true},
	{Key: DocumentVision, Stage: StageBeta, DefaultEnabled: true},
}

var known = func() map[string]Spec {
	m := make(map[string]Spec, len(Specs))
	for _, spec := range Specs {
		m[spec.Key] = spec
	}
	return m
}()

// IsKnown reports whether the feature key is recognized.
func IsKnown(key string) bool {
	_, ok := known[key]
	return ok
}

// StageFor returns the lifecycle stage for a feature, defaulting to experimental.
func StageFor(key string) Stage {
	if spec, ok := known[key]; ok {
		return spec.Stage
	}
	return StageExperimental
}

// DefaultEnabled reports the default value for the given feature key.
func DefaultEnabled(key string) bool {
	if spec, ok := known[key]; ok {
		return spec.DefaultEnabled
	}
	return false
}

// Set 是解析后的开关集合。
type Set map[string]bool

// Resolve 以默认值为底，依次叠加配置文件与命令行的覆盖。
func Resolve(overrides ...map[string]bool) Set {
	out := make(Set, len(Specs))
	for _, spec := range Specs {
		out[spec.Key] = spec.DefaultEnabled
	}
	for _, layer := range overrides {
		for key, enabled := range layer {
			if IsKnown(key) {
				out[key] = enabled
			}
		}
	}
	return out
}

// Enabled 判断开关是否打开，未知开关视为关闭。
func (s Set) Enabled(key string) bool {
	return s[key]
}

// Keys 返回排序后的开关名称。
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
