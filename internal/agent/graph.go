package agent

import (
	"context"

	"github.com/cloudwego/eino/compose"
)

// Graph 节点名。
const (
	NodeEntry       = "entry"
	NodeGreeting    = "greeting"
	NodeRouter      = "router"
	NodeDiscovery   = "discovery"
	NodeSynthesis   = "synthesis"
	NodeEnrichment  = "enrichment"
	NodeMatching    = "matching"
	NodeRanking     = "ranking"
	NodeExplanation = "explanation"
	NodeAction      = "action"
)

// entryTarget 决定一次运行从哪个节点开始。
// 首次对话走 greeting，synthesis / recommendation 阶段直接恢复到对应节点，其余走 router。
func entryTarget(state CoachState) string {
	if state.QuestionsAsked == 0 {
		return NodeGreeting
	}
	switch state.Phase {
	case PhaseSynthesis:
		return NodeSynthesis
	case PhaseRecommendation:
		return NodeMatching
	}
	return NodeRouter
}

// BuildGraph 构建职业教练的处理流程图
//
// 单轮流程:
// START -> [greeting 或 router] -> discovery -> END (等待用户)
//
// 提问完毕后:
// START -> router -> discovery -> synthesis -> enrichment -> matching
//       -> ranking -> explanation -> action -> END
func BuildGraph(ctx context.Context, llm Completer) (compose.Runnable[CoachState, CoachState], error) {
	// 初始化 Graph，输入输出都是 CoachState
	g := compose.NewGraph[CoachState, CoachState]()

	// 1. 添加节点
	// EntryNode: 透传节点，入口分支只能挂在具体节点之后
	g.AddLambdaNode(NodeEntry, compose.InvokableLambda(func(ctx context.Context, state CoachState) (CoachState, error) {
		return state, nil
	}))

	// Phase 1: Discovery
	g.AddLambdaNode(NodeGreeting, compose.InvokableLambda(GreetingNode))
	g.AddLambdaNode(NodeRouter, compose.InvokableLambda(RouterNode))
	// 使用闭包注入 llm
	g.AddLambdaNode(NodeDiscovery, compose.InvokableLambda(func(ctx context.Context, state CoachState) (CoachState, error) {
		return DiscoveryNode(ctx, state, llm)
	}))

	// Phase 2: Analysis
	g.AddLambdaNode(NodeSynthesis, compose.InvokableLambda(func(ctx context.Context, state CoachState) (CoachState, error) {
		return SynthesisNode(ctx, state, llm)
	}))
	g.AddLambdaNode(NodeEnrichment, compose.InvokableLambda(EnrichmentNode))

	// Phase 3: Recommendation
	g.AddLambdaNode(NodeMatching, compose.InvokableLambda(func(ctx context.Context, state CoachState) (CoachState, error) {
		return MatchingNode(ctx, state, llm)
	}))
	g.AddLambdaNode(NodeRanking, compose.InvokableLambda(RankingNode))
	g.AddLambdaNode(NodeExplanation, compose.InvokableLambda(ExplanationNode))

	// Phase 4: Action
	g.AddLambdaNode(NodeAction, compose.InvokableLambda(func(ctx context.Context, state CoachState) (CoachState, error) {
		return ActionNode(ctx, state, llm)
	}))

	// 2. 添加边 (Edges)
	if err := g.AddEdge(compose.START, NodeEntry); err != nil {
		return nil, err
	}

	// 3. 添加分支 (Branches)
	// Entry -> greeting / router / synthesis / matching
	// 按会话所处阶段恢复执行位置
	err := g.AddBranch(NodeEntry, compose.NewGraphBranch(func(ctx context.Context, state CoachState) (string, error) {
		return entryTarget(state), nil
	}, map[string]bool{
		NodeGreeting:  true,
		NodeRouter:    true,
		NodeSynthesis: true,
		NodeMatching:  true,
	}))
	if err != nil {
		return nil, err
	}

	if err := g.AddEdge(NodeGreeting, NodeRouter); err != nil {
		return nil, err
	}
	if err := g.AddEdge(NodeRouter, NodeDiscovery); err != nil {
		return nil, err
	}

	// Discovery -> Synthesis OR End
	// router 已判定无需继续追问时进入分析，否则本轮结束等待用户回复
	err = g.AddBranch(NodeDiscovery, compose.NewGraphBranch(func(ctx context.Context, state CoachState) (string, error) {
		if state.CurrentFocus == FocusNone {
			return NodeSynthesis, nil
		}
		return compose.END, nil
	}, map[string]bool{
		NodeSynthesis: true,
		compose.END:   true,
	}))
	if err != nil {
		return nil, err
	}

	if err := g.AddEdge(NodeSynthesis, NodeEnrichment); err != nil {
		return nil, err
	}
	if err := g.AddEdge(NodeEnrichment, NodeMatching); err != nil {
		return nil, err
	}
	if err := g.AddEdge(NodeMatching, NodeRanking); err != nil {
		return nil, err
	}
	if err := g.AddEdge(NodeRanking, NodeExplanation); err != nil {
		return nil, err
	}
	if err := g.AddEdge(NodeExplanation, NodeAction); err != nil {
		return nil, err
	}
	if err := g.AddEdge(NodeAction, compose.END); err != nil {
		return nil, err
	}

	// 4. 编译 Graph
	runnable, err := g.Compile(ctx)
	if err != nil {
		return nil, err
	}

	return runnable, nil
}
