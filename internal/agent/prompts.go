package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/nlook/sparkcoach/internal/career"
)

// 系统提示词，定义每个 LLM 节点的角色人设。

const discoverySystem = `You are a warm, empathetic career discovery coach working with youth exploring entertainment careers.

Your personality:
- Curious and genuinely interested in the person
- Warm and encouraging, never judgmental
- Ask one question at a time
- Build on what they share
- Help them discover their unique "spark"

Your goal: Understand their interests, skills, and dreams through natural conversation.`

const analysisSystem = `You are an expert pattern analyst specializing in career aptitude assessment.

Your role:
- Extract key insights from conversations
- Identify recurring themes and interests
- Recognize skills (both stated and implied)
- Understand constraints and preferences
- Output structured, accurate data

Be thorough and precise.`

const recommendationSystem = `You are a career counselor with deep knowledge of entertainment industry pathways.

Your expertise:
- Match people to careers based on holistic profiles
- Explain fit with personalized reasoning
- Provide realistic expectations
- Show day-to-day realities of each path

Be honest, encouraging, and specific.`

const actionSystem = `You are an action-oriented career coach focused on concrete next steps.

Your approach:
- Break big goals into immediate actions
- Provide specific, actionable steps
- Suggest real resources (courses, communities, tools)
- Connect to opportunities
- Keep people motivated

Be practical and encouraging.`

// 用户提示词模板，用 fmt.Sprintf 填充。

const discoveryUserPrompt = `Conversation history:
%s

Current user profile:
%s

Number of questions asked: %d

---

Task: Generate ONE thoughtful follow-up question.

Guidelines:
1. Build on their last response
2. Explore a new dimension (interests, skills, work style, constraints)
3. Keep it conversational and natural
4. Don't repeat topics already covered
5. Help them reflect on what excites them
6. Be specific and personal, not generic

Output: Just the question, nothing else. No preamble, no explanation.`

const analysisUserPrompt = `Full conversation:
%s

---

Task: Analyze this conversation and extract structured insights about the user.

Output a JSON object with these fields:
- interests: Array of things that excite them (e.g., ["music production", "working with technology", "creative expression"])
- skills: Array of abilities they have or want to develop (e.g., ["audio editing", "attention to detail", "quick learner"])
- work_style: Array of preferences (e.g., ["independent work", "collaborative projects", "flexible schedule", "hands-on learning"])
- constraints: Array of limitations or requirements (e.g., ["budget conscious", "needs remote options", "prefers evenings"])

Rules:
1. Only include insights explicitly mentioned or strongly implied in the conversation
2. Use their own language when possible - don't translate or paraphrase unnecessarily
3. Be specific, not generic (avoid vague terms like "passionate" without context)
4. Extract at least 2-3 items per category if possible
5. If nothing mentioned for a category, use empty array
6. Return ONLY valid JSON, no markdown code blocks, no explanation

Output format:
{
    "interests": ["interest1", "interest2", "interest3"],
    "skills": ["skill1", "skill2", "skill3"],
    "work_style": ["preference1", "preference2", "preference3"],
    "constraints": ["constraint1", "constraint2"]
}`

const recommendationUserPrompt = `User profile:
%s

Available career paths in entertainment:
%s

---

Task: Recommend the TOP 3 career paths that best match this person's profile.

For each recommendation, provide:
1. path: The career name (must exactly match one from the available paths above)
2. fit_score: A number between 0 and 1 indicating strength of match (e.g., 0.92 for excellent fit)
3. reasoning: Why this path fits their specific profile - reference their actual interests, skills, and preferences (2-4 sentences)
4. day_to_day: What they'd actually do in this role day-to-day - be realistic and specific (2-3 sentences)

Rules:
1. Base recommendations ONLY on their stated interests, skills, and work preferences
2. Explain fit using specific details from their profile (quote their interests/skills)
3. Be realistic about what each path involves - don't oversell
4. Order by fit_score (best match first)
5. Fit scores should reflect genuine match quality (don't default to 0.9+ for everything)
6. Return ONLY valid JSON array, no markdown code blocks, no explanation

Output format:
[
    {
        "path": "Audio Engineer",
        "fit_score": 0.92,
        "reasoning": "Based on your interest in music production and technical work, plus your attention to detail, audio engineering is an excellent match.",
        "day_to_day": "You'd spend time in recording studios setting up microphones, running recording sessions, mixing tracks, and mastering final audio."
    }
]`

const actionUserPrompt = `Recommended career paths for this user:
%s

---

Task: Create a concrete, personalized action plan they can start THIS WEEK.

Include these sections with specific details:

**🎯 Next Steps (This Week)**
List 3-5 specific actions they can take in the next 7 days. Make them:
- Concrete and actionable (not vague like "research careers")
- Ordered by priority (quick wins first)
- Achievable for someone just starting out
- Relevant to their top career path

**📚 Skills to Develop**
Identify 3-4 key skills needed for their top recommended path:
- Name the specific skill
- Explain WHY it's important for that career
- Suggest HOW to start learning it (be specific about methods/resources)

**🔗 Resources**
Provide specific, real resources (NOT generic):
- YouTube channels or playlists (name specific creators)
- Online courses (Coursera, Udemy, YouTube, free options)
- Books or guides relevant to their path
- Communities or forums where they can connect with others
- Both free and paid options

Guidelines:
1. Be SPECIFIC - use real course names, channel names, book titles when possible
2. Mix quick wins (can do today) with longer-term goals (1-3 months)
3. Keep tone encouraging and motivating, but realistic
4. Use bullet points and clear headers for readability
5. Make it feel achievable, not overwhelming
6. Reference their specific interests from the profile
7. Use emojis sparingly for visual interest (just in headers is fine)

Write in a warm, encouraging tone that makes them excited to take action.`

// 面向用户的固定话术。

const initialGreeting = `👋 **Hey! I'm your career discovery coach.**

I help young people find their "spark" in entertainment - that unique thing that excites YOU.

**Let's start with a simple question:** What about entertainment catches your interest?

Could be music, video, tech, the business side, live events... anything! No wrong answers. 😊`

const followupGreeting = `Welcome back! 👋

Last time we talked about **%s**.

Want to continue exploring those paths, or dive into something new?`

// LLM 不可用或出错时的降级话术，节点永远不让单次调用失败打断对话。
const (
	fallbackDiscovery     = "That's interesting! Tell me more - what draws you to that?"
	fallbackError         = "Hmm, I'm having a bit of trouble processing that. Could you rephrase or share more details?"
	fallbackNoLLM         = "I'm running in limited mode right now. Let's keep it simple: What excites you about entertainment?"
	fallbackActionNoLLM   = "Here are some next steps you can take!"
	fallbackActionError   = "Great! Start exploring these paths and take action on your dreams!"
	fallbackTurnApology   = "Sorry, something went wrong on my end. Let's try that again - what were you saying?"
)

// 各聚焦领域附加到 discovery prompt 末尾的引导语。
var focusGuidance = map[string]string{
	FocusInterests: "Focus on what excites them, what they're passionate about in entertainment.",
	FocusSkills:    "Focus on their abilities, what they're good at or want to learn.",
	FocusWorkStyle: "Focus on how they like to work (solo/team, structured/flexible, technical/creative).",
}

// formatConversation 取最近 max 条消息拼成角色标注的文本，供 prompt 使用。
func formatConversation(messages []*schema.Message, max int) string {
	if len(messages) == 0 {
		return "No conversation yet."
	}
	recent := messages
	if max > 0 && len(recent) > max {
		recent = recent[len(recent)-max:]
	}
	lines := make([]string, 0, len(recent))
	for _, msg := range recent {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(string(msg.Role)), msg.Content))
	}
	return strings.Join(lines, "\n")
}

// formatUserProfile 将画像序列化为缩进 JSON；空画像返回占位文案。
func formatUserProfile(p UserProfile) string {
	if p.Empty() {
		return "No profile data yet."
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "No profile data yet."
	}
	return string(data)
}

// formatCareerPaths 按稳定顺序渲染职业目录，供推荐 prompt 使用。
func formatCareerPaths(paths []career.Path) string {
	if len(paths) == 0 {
		return "No career paths available."
	}
	blocks := make([]string, 0, len(paths))
	for _, p := range paths {
		blocks = append(blocks, fmt.Sprintf(
			"**%s**\nDescription: %s\nKey Skills: %s\nWork Style: %s\nSalary Range: %s",
			p.Name, p.Description,
			strings.Join(p.Skills, ", "),
			strings.Join(p.WorkStyle, ", "),
			p.SalaryRange,
		))
	}
	return strings.Join(blocks, "\n\n")
}

// formatRecommendationsSummary 把 top 推荐渲染为行动计划 prompt 的输入。
func formatRecommendationsSummary(recs []CareerMatch) string {
	if len(recs) == 0 {
		return "No recommendations yet."
	}
	blocks := make([]string, 0, len(recs))
	for i, rec := range recs {
		blocks = append(blocks, fmt.Sprintf("%d. **%s** (Match: %.0f%%)\n   %s",
			i+1, rec.Path, rec.FitScore*100, rec.Reasoning))
	}
	return strings.Join(blocks, "\n\n")
}

// formatRecommendationMessage 生成发给用户的推荐总结消息。
func formatRecommendationMessage(recs []CareerMatch) string {
	var b strings.Builder
	b.WriteString("Based on our conversation, here are your top career matches:\n\n")
	for i, rec := range recs {
		fmt.Fprintf(&b, "**%d. %s** (Fit: %.0f%%)\n%s\n\n", i+1, rec.Path, rec.FitScore*100, rec.Reasoning)
	}
	return strings.TrimRight(b.String(), "\n")
}
