package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tokmakchat/internal/agent"
	"tokmakchat/internal/prompts"
)

// AnticipateTasks 根据用户画像与当前时间推测用户接下来可能要做的事。
func (a *Assistant) AnticipateTasks(ctx context.Context, in AnticipateTasksInput) (out Result[AnticipateTasksOutput]) {
	defer guard(a.log, FlowAnticipateTasks, ErrAnticipateTasks, &out)

	prompt, err := tasksPrompt(in)
	if err != nil {
		a.failure(FlowAnticipateTasks, ErrAnticipateTasks, err)
		return fail[AnticipateTasksOutput](ErrAnticipateTasks)
	}
	text, err := a.complete(ctx, FlowAnticipateTasks, prompt)
	if err != nil {
		a.failure(FlowAnticipateTasks, ErrAnticipateTasks, err)
		return fail[AnticipateTasksOutput](ErrAnticipateTasks)
	}

	var decoded struct {
		AnticipatedTasks *[]AnticipatedTask `json:"anticipatedTasks"`
	}
	if err := decodeJSON(text, &decoded); err != nil {
		a.failure(FlowAnticipateTasks, ErrAnticipateTasks, err)
		return fail[AnticipateTasksOutput](ErrAnticipateTasks)
	}
	if decoded.AnticipatedTasks == nil {
		a.failure(FlowAnticipateTasks, ErrAnticipateTasks, errors.New("reply is missing anticipatedTasks"))
		return fail[AnticipateTasksOutput](ErrAnticipateTasks)
	}

	tasks := make([]AnticipatedTask, 0, len(*decoded.AnticipatedTasks))
	for _, task := range *decoded.AnticipatedTasks {
		task.TaskDescription = strings.TrimSpace(task.TaskDescription)
		task.Reasoning = strings.TrimSpace(task.Reasoning)
		if task.TaskDescription == "" {
			continue
		}
		tasks = append(tasks, task)
	}
	return succeed(AnticipateTasksOutput{AnticipatedTasks: tasks})
}

func tasksPrompt(in AnticipateTasksInput) (agent.Prompt, error) {
	profile := strings.TrimSpace(in.UserProfile)
	if profile == "" {
		return agent.Prompt{}, errors.New("empty user profile")
	}
	now := strings.TrimSpace(in.CurrentDateTime)
	if _, err := time.Parse(time.RFC3339, now); err != nil {
		return agent.Prompt{}, fmt.Errorf("current date time: %w", err)
	}
	system, err := prompts.Render(prompts.PromptAnticipateTasks, prompts.Vars{
		"USER_PROFILE":      profile,
		"CURRENT_DATE_TIME": now,
	})
	if err != nil {
		return agent.Prompt{}, err
	}
	return agent.Prompt{
		Messages: []agent.Message{
			{Role: agent.RoleSystem, Content: system},
			{Role: agent.RoleUser, Content: "What should I take care of next?"},
		},
		OutputSchema: anticipateTasksSchema,
		SchemaName:   "anticipated_tasks",
	}, nil
}
