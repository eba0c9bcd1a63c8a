package assistant

// ConverseInput 是对话请求，Language 为空时使用 tr。
type ConverseInput struct {
	Query    string `json:"query"`
	Language string `json:"language,omitempty"`
}

type ConverseOutput struct {
	Response string `json:"response"`
}

// AnalyzeDocumentInput 携带 data:<mime>;base64,<payload> 形式的文档。
type AnalyzeDocumentInput struct {
	DocumentDataURI string `json:"documentDataUri"`
}

type AnalyzeDocumentOutput struct {
	AbstractSummary string `json:"abstractSummary"`
	ConcreteSummary string `json:"concreteSummary"`
}

// AnticipateTasksInput 中 CurrentDateTime 为 RFC 3339 时间。
type AnticipateTasksInput struct {
	UserProfile     string `json:"userProfile"`
	CurrentDateTime string `json:"currentDateTime"`
}

type AnticipatedTask struct {
	TaskDescription string `json:"taskDescription"`
	Reasoning       string `json:"reasoning"`
}

type AnticipateTasksOutput struct {
	AnticipatedTasks []AnticipatedTask `json:"anticipatedTasks"`
}

const analyzeDocumentSchema = `{
  "type": "object",
  "properties": {
    "abstractSummary": {"type": "string", "description": "An abstract summary of the document."},
    "concreteSummary": {"type": "string", "description": "A concrete summary of the document."}
  },
  "required": ["abstractSummary", "concreteSummary"],
  "additionalProperties": false
}`

const anticipateTasksSchema = `{
  "type": "object",
  "properties": {
    "anticipatedTasks": {
      "type": "array",
      "description": "A list of anticipated tasks based on the user profile and current context.",
      "items": {
        "type": "object",
        "properties": {
          "taskDescription": {"type": "string", "description": "The description of the anticipated task."},
          "reasoning": {"type": "string", "description": "The reasoning behind anticipating this task."}
        },
        "required": ["taskDescription", "reasoning"],
        "additionalProperties": false
      }
    }
  },
  "required": ["anticipatedTasks"],
  "additionalProperties": false
}`
