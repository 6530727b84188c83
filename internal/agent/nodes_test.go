package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// scriptedCompleter 按调用顺序返回预设响应，用尽后返回错误。
type scriptedCompleter struct {
	responses []string
	calls     int
}

func (s *scriptedCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if s.calls >= len(s.responses) {
		return "", errors.New("script exhausted")
	}
	out := s.responses[s.calls]
	s.calls++
	return out, nil
}

// failingCompleter 每次调用都返回给定错误。
type failingCompleter struct{ err error }

func (f failingCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return "", f.err
}

func TestGreetingNodeNewUser(t *testing.T) {
	state, err := GreetingNode(context.Background(), NewState())
	if err != nil {
		t.Fatalf("GreetingNode failed: %v", err)
	}
	if state.Phase != PhaseDiscovery {
		t.Errorf("expected phase discovery, got %s", state.Phase)
	}
	if state.QuestionsAsked != 0 {
		t.Errorf("expected questions_asked 0, got %d", state.QuestionsAsked)
	}
	if len(state.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(state.Messages))
	}
	if !strings.Contains(state.Messages[0].Content, "career discovery coach") {
		t.Errorf("unexpected greeting: %s", state.Messages[0].Content)
	}
}

func TestGreetingNodeReturningUser(t *testing.T) {
	st := NewState()
	st.UserProfile.Interests = []string{"music production", "live events", "video editing"}

	state, err := GreetingNode(context.Background(), st)
	if err != nil {
		t.Fatalf("GreetingNode failed: %v", err)
	}
	greeting := state.Messages[len(state.Messages)-1].Content
	if !strings.Contains(greeting, "Welcome back") {
		t.Errorf("expected returning-user greeting, got: %s", greeting)
	}
	// 只带前两个兴趣点
	if !strings.Contains(greeting, "music production, live events") {
		t.Errorf("expected first two interests in greeting, got: %s", greeting)
	}
	if strings.Contains(greeting, "video editing") {
		t.Errorf("greeting should not include third interest: %s", greeting)
	}
}

func TestRouterNodeRotation(t *testing.T) {
	cases := []struct {
		asked int
		want  string
	}{
		{0, FocusInterests},
		{1, FocusInterests},
		{2, FocusSkills},
		{3, FocusSkills},
		{4, FocusWorkStyle},
		{5, FocusWorkStyle},
		{6, FocusNone},
		{9, FocusNone},
	}
	for _, tc := range cases {
		st := NewState()
		st.QuestionsAsked = tc.asked
		state, err := RouterNode(context.Background(), st)
		if err != nil {
			t.Fatalf("RouterNode failed: %v", err)
		}
		if state.CurrentFocus != tc.want {
			t.Errorf("questions=%d: focus = %q, want %q", tc.asked, state.CurrentFocus, tc.want)
		}
	}
}

func TestDiscoveryNodeNoLLM(t *testing.T) {
	st := NewState()
	st.CurrentFocus = FocusInterests

	state, err := DiscoveryNode(context.Background(), st, Unavailable{})
	if err != nil {
		t.Fatalf("DiscoveryNode failed: %v", err)
	}
	if state.QuestionsAsked != 1 {
		t.Errorf("expected questions_asked 1, got %d", state.QuestionsAsked)
	}
	if got := state.Messages[len(state.Messages)-1].Content; got != fallbackNoLLM {
		t.Errorf("expected no-LLM fallback, got: %s", got)
	}
}

func TestDiscoveryNodeLLMError(t *testing.T) {
	st := NewState()
	st.QuestionsAsked = 3

	state, err := DiscoveryNode(context.Background(), st, failingCompleter{err: errors.New("boom")})
	if err != nil {
		t.Fatalf("DiscoveryNode failed: %v", err)
	}
	if state.QuestionsAsked != 4 {
		t.Errorf("expected questions_asked 4, got %d", state.QuestionsAsked)
	}
	if got := state.Messages[len(state.Messages)-1].Content; got != fallbackDiscovery {
		t.Errorf("expected discovery fallback, got: %s", got)
	}
}

func TestDiscoveryNodeSuccess(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{"What kind of music do you make?"}}
	st := NewState()
	st.CurrentFocus = FocusSkills

	state, err := DiscoveryNode(context.Background(), st, llm)
	if err != nil {
		t.Fatalf("DiscoveryNode failed: %v", err)
	}
	if state.QuestionsAsked != 1 {
		t.Errorf("expected questions_asked 1, got %d", state.QuestionsAsked)
	}
	if got := state.Messages[len(state.Messages)-1].Content; got != "What kind of music do you make?" {
		t.Errorf("unexpected question: %s", got)
	}
}

func TestValidationNode(t *testing.T) {
	cases := []struct {
		name      string
		asked     int
		profile   UserProfile
		wantPhase string
	}{
		{"enough questions and completeness", 5, UserProfile{Interests: []string{"a"}, Skills: []string{"b"}}, PhaseSynthesis},
		{"enough questions low completeness", 5, UserProfile{}, PhaseDiscovery},
		{"max questions empty profile", 8, UserProfile{}, PhaseSynthesis},
		{"full profile too few questions", 4, UserProfile{Interests: []string{"a"}, Skills: []string{"b"}, WorkStyle: []string{"c"}, Constraints: []string{"d"}}, PhaseDiscovery},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := NewState()
			st.QuestionsAsked = tc.asked
			st.UserProfile = tc.profile

			state, err := ValidationNode(context.Background(), st)
			if err != nil {
				t.Fatalf("ValidationNode failed: %v", err)
			}
			if state.Phase != tc.wantPhase {
				t.Errorf("phase = %s, want %s", state.Phase, tc.wantPhase)
			}
			if state.ProfileCompleteness != CalculateCompleteness(tc.profile) {
				t.Error("completeness not recorded on state")
			}
		})
	}
}

func TestCalculateCompleteness(t *testing.T) {
	if got := CalculateCompleteness(UserProfile{}); got != 0.0 {
		t.Errorf("empty profile = %v, want 0.0", got)
	}
	full := UserProfile{
		Interests:   []string{"a"},
		Skills:      []string{"b"},
		WorkStyle:   []string{"c"},
		Constraints: []string{"d"},
	}
	if got := CalculateCompleteness(full); got != 1.0 {
		t.Errorf("full profile = %v, want 1.0", got)
	}
	partial := UserProfile{Interests: []string{"a"}, Skills: []string{"b"}}
	if got := CalculateCompleteness(partial); got != 0.70 {
		t.Errorf("interests+skills = %v, want 0.70", got)
	}
}

func TestSynthesisNodeSuccess(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		"```json\n{\"interests\": [\"beats\"], \"skills\": [\"editing\"], \"work_style\": [\"solo\"], \"constraints\": []}\n```",
	}}
	state, err := SynthesisNode(context.Background(), NewState(), llm)
	if err != nil {
		t.Fatalf("SynthesisNode failed: %v", err)
	}
	if len(state.UserProfile.Interests) != 1 || state.UserProfile.Interests[0] != "beats" {
		t.Errorf("unexpected profile: %+v", state.UserProfile)
	}
	// insights 为三个类别拍平后的集合
	if len(state.Insights) != 3 {
		t.Errorf("expected 3 insights, got %v", state.Insights)
	}
}

func TestSynthesisNodeMalformed(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{"their main interest seems to be music"}}
	state, err := SynthesisNode(context.Background(), NewState(), llm)
	if err != nil {
		t.Fatalf("SynthesisNode failed: %v", err)
	}
	if !state.UserProfile.Empty() {
		t.Errorf("expected empty profile on malformed output, got %+v", state.UserProfile)
	}
	if len(state.Insights) != 0 {
		t.Errorf("expected no insights, got %v", state.Insights)
	}
}

func TestSynthesisNodeNoLLM(t *testing.T) {
	state, err := SynthesisNode(context.Background(), NewState(), Unavailable{})
	if err != nil {
		t.Fatalf("SynthesisNode failed: %v", err)
	}
	if !state.UserProfile.Empty() {
		t.Errorf("expected empty profile, got %+v", state.UserProfile)
	}
}

func TestEnrichmentNode(t *testing.T) {
	st := NewState()
	st.QuestionsAsked = 6
	st.ProfileCompleteness = 0.7
	st.Insights = []string{"a", "b", "c"}

	state, err := EnrichmentNode(context.Background(), st)
	if err != nil {
		t.Fatalf("EnrichmentNode failed: %v", err)
	}
	if state.Phase != PhaseRecommendation {
		t.Errorf("expected phase recommendation, got %s", state.Phase)
	}
	if state.UserProfile.CreatedAt == "" {
		t.Error("expected created_at to be set")
	}
	if state.UserProfile.CompletenessScore != 0.7 {
		t.Errorf("completeness_score = %v, want 0.7", state.UserProfile.CompletenessScore)
	}
	if state.UserProfile.TotalQuestions != 6 {
		t.Errorf("total_questions = %d, want 6", state.UserProfile.TotalQuestions)
	}
	if state.UserProfile.InsightCount != 3 {
		t.Errorf("insight_count = %d, want 3", state.UserProfile.InsightCount)
	}
}

func TestMatchingNodeFallbacks(t *testing.T) {
	state, err := MatchingNode(context.Background(), NewState(), Unavailable{})
	if err != nil {
		t.Fatalf("MatchingNode failed: %v", err)
	}
	if len(state.CareerMatches) != 0 {
		t.Errorf("expected no matches without LLM, got %v", state.CareerMatches)
	}

	llm := &scriptedCompleter{responses: []string{"these careers look promising"}}
	state, err = MatchingNode(context.Background(), NewState(), llm)
	if err != nil {
		t.Fatalf("MatchingNode failed: %v", err)
	}
	if len(state.CareerMatches) != 0 {
		t.Errorf("expected no matches on malformed output, got %v", state.CareerMatches)
	}
}

func TestRankingNodeStableTop3(t *testing.T) {
	st := NewState()
	st.CareerMatches = []CareerMatch{
		{Path: "A", FitScore: 0.4},
		{Path: "B", FitScore: 0.9},
		{Path: "C", FitScore: 0.9},
		{Path: "D", FitScore: 0.2},
	}

	state, err := RankingNode(context.Background(), st)
	if err != nil {
		t.Fatalf("RankingNode failed: %v", err)
	}
	top := state.TopRecommendations
	if len(top) != 3 {
		t.Fatalf("expected top 3, got %d", len(top))
	}
	// 同分保持输入顺序
	if top[0].Path != "B" || top[1].Path != "C" || top[2].Path != "A" {
		t.Errorf("unexpected order: %s, %s, %s", top[0].Path, top[1].Path, top[2].Path)
	}
	// 原始列表不被改动
	if st.CareerMatches[0].Path != "A" {
		t.Error("ranking mutated input matches")
	}
}

func TestExplanationNodePassThrough(t *testing.T) {
	st := NewState()
	st.TopRecommendations = []CareerMatch{{Path: "A", FitScore: 0.5}}

	state, err := ExplanationNode(context.Background(), st)
	if err != nil {
		t.Fatalf("ExplanationNode failed: %v", err)
	}
	if len(state.TopRecommendations) != 1 || state.TopRecommendations[0].Path != "A" {
		t.Errorf("expected pass-through, got %+v", state.TopRecommendations)
	}
}

func TestActionNodeNoLLM(t *testing.T) {
	state, err := ActionNode(context.Background(), NewState(), Unavailable{})
	if err != nil {
		t.Fatalf("ActionNode failed: %v", err)
	}
	if state.Phase != PhaseCompleted {
		t.Errorf("expected phase completed, got %s", state.Phase)
	}
	if got := state.Messages[len(state.Messages)-1].Content; got != fallbackActionNoLLM {
		t.Errorf("unexpected fallback: %s", got)
	}
	if state.ActionPlan != nil {
		t.Error("expected no action plan without LLM")
	}
}

func TestActionNodeSuccess(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{"**🎯 Next Steps**\n- Do the thing"}}
	st := NewState()
	st.TopRecommendations = []CareerMatch{{Path: "Audio Engineer", FitScore: 0.9, Reasoning: "fits"}}

	state, err := ActionNode(context.Background(), st, llm)
	if err != nil {
		t.Fatalf("ActionNode failed: %v", err)
	}
	if state.Phase != PhaseCompleted {
		t.Errorf("expected phase completed, got %s", state.Phase)
	}
	if state.ActionPlan == nil || state.ActionPlan.Content == "" {
		t.Fatal("expected action plan to be stored")
	}
	// 推荐总结 + 行动计划两条消息
	if len(state.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(state.Messages))
	}
	if !strings.Contains(state.Messages[0].Content, "Audio Engineer") {
		t.Errorf("expected recommendation summary, got: %s", state.Messages[0].Content)
	}
	if !strings.Contains(state.Messages[1].Content, "Next Steps") {
		t.Errorf("expected action plan message, got: %s", state.Messages[1].Content)
	}
}
