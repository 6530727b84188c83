package agent

import (
	"time"

	"github.com/cloudwego/eino/schema"
)

// Phase 表示对话所处的阶段。
// 除 discovery<->router 循环外单调前进，completed 之后不再回退。
const (
	PhaseGreeting       = "greeting"
	PhaseDiscovery      = "discovery"
	PhaseSynthesis      = "synthesis"
	PhaseRecommendation = "recommendation"
	PhaseCompleted      = "completed"
	PhaseError          = "error"
)

// Focus 表示 discovery 阶段当前追问的子话题。
// 空字符串表示 none：提问结束，可以进入分析。
const (
	FocusInterests = "interests"
	FocusSkills    = "skills"
	FocusWorkStyle = "workstyle"
	FocusNone      = ""
)

// UserProfile 为 Synthesis 节点从对话中抽取的结构化画像。
// 四个数组字段由 LLM 填充（或失败时置空），其余为 Enrichment 节点补充的元数据。
type UserProfile struct {
	Interests   []string `json:"interests"`
	Skills      []string `json:"skills"`
	WorkStyle   []string `json:"work_style"`
	Constraints []string `json:"constraints"`

	CreatedAt         string  `json:"created_at,omitempty"`
	CompletenessScore float64 `json:"completeness_score,omitempty"`
	TotalQuestions    int     `json:"total_questions,omitempty"`
	InsightCount      int     `json:"insight_count,omitempty"`
}

// Empty 判断画像的四个类别是否全部为空。
func (p UserProfile) Empty() bool {
	return len(p.Interests) == 0 && len(p.Skills) == 0 &&
		len(p.WorkStyle) == 0 && len(p.Constraints) == 0
}

// CareerMatch 为 Matching 节点产出的一条候选职业匹配。
// Path 不强制对应目录条目（宽松信任 LLM 输出，见 MatchingNode）。
type CareerMatch struct {
	Path      string  `json:"path"`
	FitScore  float64 `json:"fit_score"`
	Reasoning string  `json:"reasoning"`
	DayToDay  string  `json:"day_to_day"`
}

// ActionPlan 为 Action 节点生成的行动计划，整个会话最多写入一次。
type ActionPlan struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CoachState 定义了在 Graph 中流转的会话状态，每个 thread 独占一份。
// Messages 在一次 turn 内只追加、不重排；字段由各节点就地演进。
type CoachState struct {
	// 历史对话消息 (User / Assistant / System)
	Messages []*schema.Message `json:"messages"`

	// 阶段与 discovery 计数
	Phase          string `json:"phase"`
	QuestionsAsked int    `json:"questions_asked"`
	CurrentFocus   string `json:"current_focus"`

	// 用户画像（随对话逐步构建）
	UserProfile         UserProfile `json:"user_profile"`
	Insights            []string    `json:"insights"`
	ProfileCompleteness float64     `json:"profile_completeness"`

	// 推荐结果
	CareerMatches      []CareerMatch `json:"career_matches"`
	TopRecommendations []CareerMatch `json:"top_recommendations"`

	// 行动计划
	ActionPlan *ActionPlan `json:"action_plan,omitempty"`

	// Validation 节点写入的路由决策信号，仅在一次运行内有效，不持久化
	RoutingDecision string `json:"-"`
}

// NewState 返回一份全新初始化的会话状态。
func NewState() CoachState {
	return CoachState{
		Messages:     nil,
		Phase:        PhaseGreeting,
		CurrentFocus: FocusNone,
	}
}

// CalculateCompleteness 计算画像完整度，范围 [0.0, 1.0]。
// 加权规则：interests 0.35，skills 0.35，work_style 0.20，constraints 0.10。
func CalculateCompleteness(p UserProfile) float64 {
	// 权重按百分点累加，避免浮点累加误差（0.35+0.35+0.20+0.10 != 1.0）
	score := 0
	if len(p.Interests) > 0 {
		score += 35
	}
	if len(p.Skills) > 0 {
		score += 35
	}
	if len(p.WorkStyle) > 0 {
		score += 20
	}
	if len(p.Constraints) > 0 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return float64(score) / 100
}

// LatestUserMessage 返回最近一条用户消息的内容，没有则返回空串。
func LatestUserMessage(state CoachState) string {
	for i := len(state.Messages) - 1; i >= 0; i-- {
		if state.Messages[i].Role == schema.User {
			return state.Messages[i].Content
		}
	}
	return ""
}
