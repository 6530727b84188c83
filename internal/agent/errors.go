package agent

import "errors"

// LLM 调用相关的错误分类。
// 所有调用 LLM 的节点都在本地捕获这三类错误并替换为确定性的降级输出，
// 正常运行下没有任何节点会把错误抛出 Graph。
var (
	// ErrLLMUnavailable 表示没有配置可用的 LLM 能力（缺少凭证等）。
	ErrLLMUnavailable = errors.New("llm unavailable")
	// ErrLLMCall 表示请求 LLM 失败（网络错误、超时、服务端错误）。
	ErrLLMCall = errors.New("llm call failed")
	// ErrMalformedOutput 表示 LLM 返回的内容不符合期望的结构（如非法 JSON）。
	ErrMalformedOutput = errors.New("malformed llm output")
)
