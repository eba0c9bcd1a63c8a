// Package avatar 把当前状态渲染为终端里的机器人形象和音频波形。渲染是纯函数，
// 只依赖状态和动画帧。
package avatar

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Status 是机器人形象的唯一状态。
type Status int

const (
	StatusIdle Status = iota
	StatusListening
	StatusThinking
	StatusSpeaking
	StatusAnalyzing
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusListening:
		return "listening"
	case StatusThinking:
		return "thinking"
	case StatusSpeaking:
		return "speaking"
	case StatusAnalyzing:
		return "analyzing"
	default:
		return "unknown"
	}
}

// Label 返回界面上显示的状态文字。
func (s Status) Label() string {
	switch s {
	case StatusListening:
		return "Dinliyorum..."
	case StatusThinking:
		return "Düşünüyorum..."
	case StatusSpeaking:
		return "Konuşuyorum..."
	case StatusAnalyzing:
		return "Analiz ediliyor..."
	default:
		return "Hazır"
	}
}

type hsl struct {
	h, s, l float64
}

var energy = map[Status]hsl{
	StatusIdle:      {198, 93, 60},
	StatusListening: {198, 100, 75},
	StatusThinking:  {45, 100, 60},
	StatusSpeaking:  {120, 100, 60},
	StatusAnalyzing: {280, 100, 65},
}

// EnergyHSL 返回状态的能量色，CSS hsl() 写法。
func (s Status) EnergyHSL() string {
	c, ok := energy[s]
	if !ok {
		c = energy[StatusIdle]
	}
	return fmt.Sprintf("hsl(%g, %g%%, %g%%)", c.h, c.s, c.l)
}

// Color 返回能量色的终端颜色。
func (s Status) Color() lipgloss.Color {
	c, ok := energy[s]
	if !ok {
		c = energy[StatusIdle]
	}
	return lipgloss.Color(hslToHex(c.h, c.s/100, c.l/100))
}

// Pulses 报告关节灯是否闪烁（思考或分析中）。
func (s Status) Pulses() bool {
	return s == StatusThinking || s == StatusAnalyzing
}

// VisualizerActive 报告音频波形是否播放（聆听或朗读中）。
func (s Status) VisualizerActive() bool {
	return s == StatusListening || s == StatusSpeaking
}

func hslToHex(h, s, l float64) string {
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	to := func(v float64) int { return int(math.Round((v + m) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", to(r), to(g), to(b))
}
