package agent

import (
	"context"
	"os"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestEntryTarget(t *testing.T) {
	cases := []struct {
		name  string
		state CoachState
		want  string
	}{
		{"fresh session", NewState(), NodeGreeting},
		{"mid discovery", CoachState{Phase: PhaseDiscovery, QuestionsAsked: 3}, NodeRouter},
		{"resume synthesis", CoachState{Phase: PhaseSynthesis, QuestionsAsked: 8}, NodeSynthesis},
		{"resume recommendation", CoachState{Phase: PhaseRecommendation, QuestionsAsked: 8}, NodeMatching},
		{"completed falls back to router", CoachState{Phase: PhaseCompleted, QuestionsAsked: 8}, NodeRouter},
	}
	for _, tc := range cases {
		if got := entryTarget(tc.state); got != tc.want {
			t.Errorf("%s: entryTarget = %s, want %s", tc.name, got, tc.want)
		}
	}
}

// TestGraphScriptedAnalysisRun 用脚本化的 LLM 响应把 synthesis 阶段的状态跑到 completed。
func TestGraphScriptedAnalysisRun(t *testing.T) {
	ctx := context.Background()
	llm := &scriptedCompleter{responses: []string{
		// synthesis
		`{"interests": ["music production"], "skills": ["audio editing"], "work_style": ["independent work"], "constraints": []}`,
		// matching
		`[
			{"path": "Content Creator", "fit_score": 0.78, "reasoning": "independent", "day_to_day": "videos"},
			{"path": "Audio Engineer", "fit_score": 0.92, "reasoning": "technical", "day_to_day": "studio"},
			{"path": "Music Producer", "fit_score": 0.87, "reasoning": "creative", "day_to_day": "sessions"}
		]`,
		// action plan
		"**🎯 Next Steps**\n- Record a track this week",
	}}

	runnable, err := BuildGraph(ctx, llm)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	state := CoachState{
		Messages: []*schema.Message{
			schema.AssistantMessage("What excites you?", nil),
			schema.UserMessage("I love making beats on my laptop"),
		},
		Phase:               PhaseSynthesis,
		QuestionsAsked:      8,
		ProfileCompleteness: 0.7,
	}

	final, err := runnable.Invoke(ctx, state)
	if err != nil {
		t.Fatalf("graph execution failed: %v", err)
	}

	if final.Phase != PhaseCompleted {
		t.Errorf("expected phase completed, got %s", final.Phase)
	}
	if len(final.TopRecommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(final.TopRecommendations))
	}
	if final.TopRecommendations[0].Path != "Audio Engineer" {
		t.Errorf("expected Audio Engineer first, got %s", final.TopRecommendations[0].Path)
	}
	if final.ActionPlan == nil {
		t.Fatal("expected action plan")
	}
	if final.UserProfile.TotalQuestions != 8 {
		t.Errorf("expected enrichment metadata on profile, got %+v", final.UserProfile)
	}

	last := final.Messages[len(final.Messages)-1]
	if last.Role != schema.Assistant {
		t.Errorf("expected final message from assistant, got %s", last.Role)
	}
}

// TestRealCoachFlow 使用真实的 Ark 模型进行集成测试
// 该测试需要 ARK_API_KEY 和 ARK_MODEL_ID 环境变量，未设置时跳过
func TestRealCoachFlow(t *testing.T) {
	apiKey := os.Getenv("ARK_API_KEY")
	modelID := os.Getenv("ARK_MODEL_ID")
	if apiKey == "" || modelID == "" {
		t.Skip("Skipping real coach test: ARK_API_KEY or ARK_MODEL_ID not set")
	}

	ctx := context.Background()
	llm, err := NewCompleter(ctx, ArkConfig{APIKey: apiKey, ModelID: modelID})
	if err != nil {
		t.Fatalf("NewCompleter failed: %v", err)
	}

	coach, err := NewCoach(ctx, llm, newMemoryStore())
	if err != nil {
		t.Fatalf("NewCoach failed: %v", err)
	}

	start, err := coach.Start(ctx, "real-test")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Logf("Greeting: %s", start.Greeting)

	res, err := coach.Submit(ctx, "real-test", "I love making beats and mixing tracks at home")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	t.Logf("Phase=%s Response=%s", res.Phase, res.Response)

	if res.Response == "" {
		t.Error("expected non-empty response from real model")
	}
	if res.Phase != PhaseDiscovery {
		t.Errorf("expected phase discovery after first turn, got %s", res.Phase)
	}
}
