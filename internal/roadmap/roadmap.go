// Package roadmap 根据职业目标生成分阶段的成长路线图。
package roadmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nlook/sparkcoach/internal/agent"
)

const roadmapSystem = "You are a career advisor specializing in entertainment careers."

const roadmapPrompt = `You are a career roadmap expert. Generate a clear, structured roadmap for someone who wants to become: %s

Create a roadmap with 4-6 phases, each with 2-4 specific, actionable steps.

Return ONLY valid JSON in this exact format:
{
  "title": "Roadmap to %s",
  "phases": [
    {
      "title": "Phase 1 Name",
      "duration": "3-6 months",
      "steps": [
        "Specific actionable step 1",
        "Specific actionable step 2"
      ]
    }
  ]
}

Make it practical, specific, and achievable. Focus on entertainment industry paths when relevant.`

// Phase 为路线图中的一个阶段。
type Phase struct {
	Title    string   `json:"title"`
	Duration string   `json:"duration"`
	Steps    []string `json:"steps"`
}

// Roadmap 为一份完整的职业路线图。
type Roadmap struct {
	Title  string  `json:"title"`
	Phases []Phase `json:"phases"`
}

// Generator 调用 LLM 生成路线图，失败时退回到固定的三阶段模板。
type Generator struct {
	llm agent.Completer
}

func NewGenerator(llm agent.Completer) *Generator {
	return &Generator{llm: llm}
}

// Generate 为给定目标生成路线图，永远返回一份可用的结果。
func (g *Generator) Generate(ctx context.Context, goal string) (Roadmap, error) {
	if goal == "" {
		return Roadmap{}, errors.New("goal is required")
	}

	content, err := g.llm.Complete(ctx, roadmapSystem, fmt.Sprintf(roadmapPrompt, goal, goal))
	if err != nil {
		return fallbackRoadmap(goal), nil
	}

	var rm Roadmap
	if err := json.Unmarshal([]byte(agent.StripCodeFence(content)), &rm); err != nil {
		return fallbackRoadmap(goal), nil
	}
	if rm.Title == "" || len(rm.Phases) == 0 {
		return fallbackRoadmap(goal), nil
	}
	return rm, nil
}

// fallbackRoadmap 为 LLM 不可用或输出不合法时的兜底模板。
func fallbackRoadmap(goal string) Roadmap {
	return Roadmap{
		Title: fmt.Sprintf("Roadmap to %s", goal),
		Phases: []Phase{
			{
				Title:    "Foundation",
				Duration: "3-6 months",
				Steps:    []string{"Learn the basics", "Build foundational skills"},
			},
			{
				Title:    "Development",
				Duration: "6-12 months",
				Steps:    []string{"Practice regularly", "Build projects"},
			},
			{
				Title:    "Professional",
				Duration: "12+ months",
				Steps:    []string{"Get experience", "Network in the industry"},
			},
		},
	}
}
