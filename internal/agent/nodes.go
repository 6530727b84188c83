package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/nlook/sparkcoach/internal/career"
)

// GreetingNode 欢迎用户，不调用 LLM。
// 老用户（画像里已有兴趣）收到带上次话题的欢迎语，新用户收到完整开场白。
func GreetingNode(ctx context.Context, state CoachState) (CoachState, error) {
	var greeting string
	if len(state.UserProfile.Interests) > 0 {
		previous := state.UserProfile.Interests
		if len(previous) > 2 {
			previous = previous[:2]
		}
		greeting = fmt.Sprintf(followupGreeting, strings.Join(previous, ", "))
	} else {
		greeting = initialGreeting
	}

	state.Messages = append(state.Messages, schema.AssistantMessage(greeting, nil))
	state.Phase = PhaseDiscovery
	state.QuestionsAsked = 0
	state.CurrentFocus = FocusNone
	return state, nil
}

// RouterNode 按固定轮换决定下一个追问领域，不调用 LLM。
// 问题 1-2 问兴趣，3-4 问能力，5-6 问工作偏好，之后进入分析。
func RouterNode(ctx context.Context, state CoachState) (CoachState, error) {
	switch {
	case state.QuestionsAsked < 2:
		state.CurrentFocus = FocusInterests
	case state.QuestionsAsked < 4:
		state.CurrentFocus = FocusSkills
	case state.QuestionsAsked < 6:
		state.CurrentFocus = FocusWorkStyle
	default:
		state.CurrentFocus = FocusNone
	}
	return state, nil
}

// DiscoveryNode 生成一条追问（LLM 调用）。
// 无论成功与否 QuestionsAsked 恰好加一，失败时用降级话术兜底。
func DiscoveryNode(ctx context.Context, state CoachState, llm Completer) (CoachState, error) {
	prompt := fmt.Sprintf(discoveryUserPrompt,
		formatConversation(state.Messages, 5),
		formatUserProfile(state.UserProfile),
		state.QuestionsAsked,
	)
	if guidance, ok := focusGuidance[state.CurrentFocus]; ok {
		prompt += fmt.Sprintf("\n\nCurrent focus area: %s\n%s", state.CurrentFocus, guidance)
	}

	question, err := llm.Complete(ctx, discoverySystem, prompt)
	if err != nil || question == "" {
		if errors.Is(err, ErrLLMUnavailable) {
			question = fallbackNoLLM
		} else {
			question = fallbackDiscovery
		}
	}

	state.Messages = append(state.Messages, schema.AssistantMessage(question, nil))
	state.QuestionsAsked++
	return state, nil
}

// ValidationNode 判断信息是否足够进入分析，不调用 LLM。
// 规则：(问题数>=5 且 完整度>=0.6) 或 问题数>=8 时推进到 synthesis。
func ValidationNode(ctx context.Context, state CoachState) (CoachState, error) {
	completeness := CalculateCompleteness(state.UserProfile)
	state.ProfileCompleteness = completeness

	if (state.QuestionsAsked >= 5 && completeness >= 0.6) || state.QuestionsAsked >= 8 {
		state.RoutingDecision = "proceed_to_synthesis"
		state.Phase = PhaseSynthesis
	} else {
		state.RoutingDecision = "continue_discovery"
		state.Phase = PhaseDiscovery
	}
	return state, nil
}

// SynthesisNode 从完整对话中抽取结构化画像（LLM 调用）。
// 解析失败或调用失败都降级为空画像，让对话继续走完。
func SynthesisNode(ctx context.Context, state CoachState, llm Completer) (CoachState, error) {
	prompt := fmt.Sprintf(analysisUserPrompt, formatConversation(state.Messages, 0))

	content, err := llm.Complete(ctx, analysisSystem, prompt)
	if err != nil {
		state.UserProfile = UserProfile{}
		state.Insights = nil
		return state, nil
	}

	profile, err := ParseProfile(content)
	if err != nil {
		state.UserProfile = UserProfile{}
		state.Insights = nil
		return state, nil
	}

	var insights []string
	insights = append(insights, profile.Interests...)
	insights = append(insights, profile.Skills...)
	insights = append(insights, profile.WorkStyle...)

	state.UserProfile = profile
	state.Insights = insights
	return state, nil
}

// EnrichmentNode 给画像补充元数据并推进到 recommendation，不调用 LLM。
func EnrichmentNode(ctx context.Context, state CoachState) (CoachState, error) {
	state.UserProfile.CreatedAt = time.Now().Format(time.RFC3339)
	state.UserProfile.CompletenessScore = state.ProfileCompleteness
	state.UserProfile.TotalQuestions = state.QuestionsAsked
	state.UserProfile.InsightCount = len(state.Insights)
	state.Phase = PhaseRecommendation
	return state, nil
}

// MatchingNode 将画像与职业目录匹配（LLM 调用）。
// path 字段不强校验目录条目，LLM 偶尔改写大小写或连字符，照单保留。
func MatchingNode(ctx context.Context, state CoachState, llm Completer) (CoachState, error) {
	prompt := fmt.Sprintf(recommendationUserPrompt,
		formatUserProfile(state.UserProfile),
		formatCareerPaths(career.Ordered()),
	)

	content, err := llm.Complete(ctx, recommendationSystem, prompt)
	if err != nil {
		state.CareerMatches = nil
		return state, nil
	}

	matches, err := ParseMatches(content)
	if err != nil {
		state.CareerMatches = nil
		return state, nil
	}

	state.CareerMatches = matches
	return state, nil
}

// RankingNode 按 fit_score 降序稳定排序并截取前三，不调用 LLM。
func RankingNode(ctx context.Context, state CoachState) (CoachState, error) {
	ranked := make([]CareerMatch, len(state.CareerMatches))
	copy(ranked, state.CareerMatches)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FitScore > ranked[j].FitScore
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	state.TopRecommendations = ranked
	return state, nil
}

// ExplanationNode 目前为直通节点。
// TODO: 追加一次 LLM 调用为每条推荐生成更详细的解释。
func ExplanationNode(ctx context.Context, state CoachState) (CoachState, error) {
	return state, nil
}

// ActionNode 生成行动计划并结束会话（LLM 调用）。
// 成功时追加推荐总结和行动计划两条消息，失败时退回到鼓励话术，阶段一律置为 completed。
func ActionNode(ctx context.Context, state CoachState, llm Completer) (CoachState, error) {
	prompt := fmt.Sprintf(actionUserPrompt, formatRecommendationsSummary(state.TopRecommendations))

	content, err := llm.Complete(ctx, actionSystem, prompt)
	if err != nil {
		msg := fallbackActionError
		if errors.Is(err, ErrLLMUnavailable) {
			msg = fallbackActionNoLLM
		}
		state.Messages = append(state.Messages, schema.AssistantMessage(msg, nil))
		state.Phase = PhaseCompleted
		return state, nil
	}

	state.ActionPlan = &ActionPlan{Content: content, CreatedAt: time.Now()}
	state.Messages = append(state.Messages,
		schema.AssistantMessage(formatRecommendationMessage(state.TopRecommendations), nil),
		schema.AssistantMessage(content, nil),
	)
	state.Phase = PhaseCompleted
	return state, nil
}
