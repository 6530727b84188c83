package session

import "time"

// Conversation 持久化一个会话线程的完整状态。
//
// 完整状态以 JSON 快照存放（StateJSON），每轮对话整体覆盖写入；
// Phase/QuestionsAsked/Completeness 为冗余列，便于不反序列化快照就能检索和统计。
type Conversation struct {
	// ID 为自增主键（内部使用）。
	ID uint64 `gorm:"primaryKey"`
	// ThreadID 为会话线程的唯一标识，由调用方（HTTP 客户端/CLI）提供。
	ThreadID string `gorm:"size:128;not null;uniqueIndex"`
	// StateJSON 存放会话状态快照（JSON 字符串），结构随 agent.CoachState 演进。
	StateJSON string `gorm:"type:text;not null"`
	// Phase 为快照写入时所处阶段，用于快速筛选（例如清理 completed 会话）。
	Phase string `gorm:"size:32;not null;index"`
	// QuestionsAsked 为已提问数（冗余列，便于统计）。
	QuestionsAsked int `gorm:"not null"`
	// Completeness 为画像完整度（冗余列，便于统计）。
	Completeness float64 `gorm:"not null"`
	// CreatedAt 为线程首次写入时间，默认自动填充。
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	// UpdatedAt 为最近一轮写入时间，用于清理长期闲置的会话。
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime;index"`
}

// RunRecord 记录一次 Graph 运行及其结果，用于审计与排障。
//
// 一条记录对应一次用户消息触发的完整执行，复杂状态不落在这里，
// 只保留入口节点和前后阶段，便于按 thread 聚合分析对话走向。
type RunRecord struct {
	// ID 为自增主键（内部使用）。
	ID uint64 `gorm:"primaryKey"`
	// TraceID 用于串联一次请求链路（可选），便于按链路聚合。
	TraceID string `gorm:"size:64;index"`
	// ThreadID 为所属会话线程。
	ThreadID string `gorm:"size:128;not null;index"`
	// EntryNode 为本次运行的入口节点（greeting/router/synthesis/matching）。
	EntryNode string `gorm:"size:32;not null"`
	// PhaseBefore/PhaseAfter 为运行前后的阶段，用于快速筛选异常流转。
	PhaseBefore string `gorm:"size:32;not null"`
	PhaseAfter  string `gorm:"size:32;not null;index"`
	// ErrorMessage 存放失败时的错误信息（可选）。
	ErrorMessage string `gorm:"type:text"`
	// StartedAt/FinishedAt 表示运行起止时间，统计耗时可用 FinishedAt-StartedAt。
	StartedAt  time.Time `gorm:"index"`
	FinishedAt time.Time
	// CreatedAt 为记录写入数据库的时间，默认自动填充。
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"`
}
