package avatar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// 机器人线稿。占位符：V 面罩，T 胸口标志，J 手臂关节，L 腿部关节。
var robotArt = []string{
	"   .-----.   ",
	"  /       \\  ",
	" |  VVVVV  | ",
	"  \\_______/  ",
	"    _|_|_    ",
	" J/  (T)  \\J ",
	" |  |===|  | ",
	" |  |===|  | ",
	"    |___|    ",
	"    L/ \\L    ",
	"   _/   \\_   ",
}

var (
	bodyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))
)

// Width 是机器人（含分析光环）的显示宽度。
const Width = 17

// Render 绘制机器人。frame 是单调递增的动画帧，用于闪烁和光环旋转。
func Render(status Status, frame int) string {
	lit := lipgloss.NewStyle().Foreground(status.Color()).Bold(true)
	// 闪烁：思考/分析时关节灯隔帧变暗；聆听时面罩隔帧变暗。
	joint := lit
	if status.Pulses() && frame%2 == 1 {
		joint = dimStyle
	}
	legJoint := lit
	if status == StatusThinking && frame%2 == 1 {
		legJoint = dimStyle
	}
	visor := lit
	if status == StatusListening && frame%2 == 1 {
		visor = lipgloss.NewStyle().Foreground(status.Color()).Faint(true)
	}

	lines := make([]string, 0, len(robotArt))
	for _, row := range robotArt {
		var b strings.Builder
		for _, r := range row {
			switch r {
			case 'V':
				b.WriteString(visor.Render("="))
			case 'T':
				b.WriteString(lit.Render("T"))
			case 'J':
				b.WriteString(joint.Render("o"))
			case 'L':
				b.WriteString(legJoint.Render("o"))
			default:
				b.WriteString(bodyStyle.Render(string(r)))
			}
		}
		lines = append(lines, b.String())
	}
	if status == StatusAnalyzing {
		return withRings(lines, lit, frame)
	}
	pad := strings.Repeat(" ", (Width-len([]rune(robotArt[0])))/2)
	for i, l := range lines {
		lines[i] = pad + l + pad
	}
	lines = append([]string{blankRow()}, lines...)
	return strings.Join(append(lines, blankRow()), "\n")
}

func blankRow() string { return strings.Repeat(" ", Width) }

// withRings 在机器人外侧画一圈旋转的虚线光环。
func withRings(lines []string, style lipgloss.Style, frame int) string {
	dash := []string{"·", "˙", ":", "˙"}
	pick := func(i int) string { return style.Render(dash[(i+frame)%len(dash)]) }

	top := make([]string, 0, Width)
	for i := 0; i < Width; i++ {
		top = append(top, pick(i))
	}
	out := []string{strings.Join(top, "")}
	for i, l := range lines {
		out = append(out, pick(Width+i)+" "+l+" "+pick(Width*2+i))
	}
	bottom := make([]string, 0, Width)
	for i := Width - 1; i >= 0; i-- {
		bottom = append(bottom, pick(i))
	}
	out = append(out, strings.Join(bottom, ""))
	return strings.Join(out, "\n")
}
