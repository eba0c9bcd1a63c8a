// Package notify 定义控制器向界面发出的提示（toast）。
package notify

// Variant 区分普通提示与错误提示。
type Variant int

const (
	VariantDefault Variant = iota
	VariantDestructive
)

func (v Variant) String() string {
	if v == VariantDestructive {
		return "destructive"
	}
	return "default"
}

// Notification 是一条用户可见的提示。
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Func 接收提示；为 nil 时提示被丢弃。
type Func func(Notification)

// Send 调用 f（若非 nil）。
func (f Func) Send(n Notification) {
	if f != nil {
		f(n)
	}
}

// Error 构造错误提示。
func Error(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDestructive}
}

// Info 构造普通提示。
func Info(title, description string) Notification {
	return Notification{Title: title, Description: description}
}
