package avatar

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TimeStep 是每帧推进的相位，与浏览器版每帧 0.02 的节奏一致。
const TimeStep = 0.02

// Visualizer 绘制随时间起伏的正弦波。
type Visualizer struct {
	Width  int
	Height int
}

// Render 在 t 时刻绘制波形；inactive 时返回同尺寸的空白区域。
func (v Visualizer) Render(t float64, active bool, color lipgloss.Color) string {
	width, height := v.Width, v.Height
	if width <= 0 || height <= 0 {
		return ""
	}
	rows := make([][]rune, height)
	for i := range rows {
		rows[i] = []rune(strings.Repeat(" ", width))
	}
	if active {
		for x, y := range Wave(width, height, t) {
			rows[y][x] = '•'
		}
	}
	style := lipgloss.NewStyle().Foreground(color)
	out := make([]string, height)
	for i, r := range rows {
		out[i] = style.Render(string(r))
	}
	return strings.Join(out, "\n")
}

// Wave 返回每列波形所在的行号。
// y = h/2 + sin(x*0.05 + t) * (h/4) * sin(t)，x 按字符宽度放大以保持形状。
func Wave(width, height int, t float64) []int {
	ys := make([]int, width)
	mid := float64(height-1) / 2
	amp := float64(height) / 2
	for x := 0; x < width; x++ {
		y := mid + math.Sin(float64(x)*0.3+t)*amp*math.Sin(t)
		row := int(math.Round(y))
		if row < 0 {
			row = 0
		}
		if row > height-1 {
			row = height - 1
		}
		ys[x] = row
	}
	return ys
}
