package panels

import (
	"time"

	"tokmakchat/internal/assistant"
	"tokmakchat/internal/config"
	"tokmakchat/internal/logger"
	"tokmakchat/internal/notify"
)

const (
	TasksTitle       = "Akıllı Görev Otomasyonu"
	TasksDescription = "Yapay zeka, ihtiyaçlarınızı tahmin ederek görevler önerir."
	TasksEmptyState  = "Şu anda önerilecek proaktif bir görev bulunamadı."
	ReasonLabel      = "Neden:"

	tasksFailTitle = "Görevler Alınamadı"
)

// TaskRequester 发起一次任务预测，返回提交 ID。
type TaskRequester interface {
	RequestAnticipateTasks(in assistant.AnticipateTasksInput) (string, error)
}

type TaskOptions struct {
	Requester TaskRequester
	Notify    notify.Func
	// Profile 为空时使用 config.DefaultUserProfile。
	Profile string
	Log     *logger.LogEntry
}

type TaskController struct {
	requester TaskRequester
	notify    notify.Func
	profile   string
	log       *logger.LogEntry

	mounted bool
	loading bool
	pending string
	tasks   []assistant.AnticipatedTask
}

func NewTaskController(opts TaskOptions) *TaskController {
	t := &TaskController{requester: opts.Requester, notify: opts.Notify, profile: opts.Profile, log: opts.Log}
	if t.profile == "" {
		t.profile = config.DefaultUserProfile
	}
	if t.log == nil {
		t.log = logger.Named("tasks")
	}
	return t
}

func (t *TaskController) Loading() bool { return t.loading }
func (t *TaskController) Mounted() bool { return t.mounted }

func (t *TaskController) Tasks() []assistant.AnticipatedTask {
	return append([]assistant.AnticipatedTask(nil), t.tasks...)
}

// Mount 在首次调用时请求一次任务预测，之后的调用不再请求。
func (t *TaskController) Mount(now time.Time) bool {
	if t.mounted {
		return false
	}
	t.mounted = true
	t.loading = true
	in := assistant.AnticipateTasksInput{
		UserProfile:     t.profile,
		CurrentDateTime: now.Format(time.RFC3339),
	}
	if t.requester == nil {
		t.Complete(t.pending, assistant.Result[assistant.AnticipateTasksOutput]{Error: assistant.ErrAnticipateTasks})
		return true
	}
	id, err := t.requester.RequestAnticipateTasks(in)
	if err != nil {
		t.log.WithError(err).Error("failed to submit task request")
		t.Complete(t.pending, assistant.Result[assistant.AnticipateTasksOutput]{Error: assistant.ErrAnticipateTasks})
		return true
	}
	t.pending = id
	return true
}

// Complete 保存任务或提示失败；失败时列表保持为空。
func (t *TaskController) Complete(id string, res assistant.Result[assistant.AnticipateTasksOutput]) {
	if !t.loading || id != t.pending {
		return
	}
	t.loading = false
	t.pending = ""
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = assistant.ErrAnticipateTasks
		}
		t.tasks = nil
		t.notify.Send(notify.Error(tasksFailTitle, msg))
		return
	}
	t.tasks = append([]assistant.AnticipatedTask(nil), res.Data.AnticipatedTasks...)
}
