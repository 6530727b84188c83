package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFence 去掉 LLM 输出外层的 markdown 代码块包裹。
// 即使 prompt 明确要求纯 JSON，模型仍经常返回 ```json ... ``` 形式。
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// 第一行可能是语言标识（短、无空格、无 JSON 起始符），跳过
		if idx := strings.Index(text, "\n"); idx >= 0 {
			first := text[:idx]
			if len(first) < 20 && !strings.Contains(first, " ") && !strings.Contains(first, "{") && !strings.Contains(first, "[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// ParseProfile 将 Synthesis 的 LLM 输出解析为 UserProfile。
// 期望一个恰好含 interests/skills/work_style/constraints 四个数组字段的 JSON 对象。
func ParseProfile(content string) (UserProfile, error) {
	var p UserProfile
	cleaned := StripCodeFence(content)
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return UserProfile{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return p, nil
}

// ParseMatches 将 Matching 的 LLM 输出解析为候选匹配数组。
// 非数组或非法 JSON 都归为 ErrMalformedOutput，由调用方降级为空列表。
func ParseMatches(content string) ([]CareerMatch, error) {
	var out []CareerMatch
	cleaned := StripCodeFence(content)
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return out, nil
}
