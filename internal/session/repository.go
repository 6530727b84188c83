package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nlook/sparkcoach/internal/agent"
)

const (
	defaultLimit = 200
	maxLimit     = 5000

	defaultDeleteLimit = 500
	maxDeleteLimit     = 900
)

// Load 读取一个线程的会话状态，不存在时返回 (nil, nil)。
func (s *Store) Load(ctx context.Context, threadID string) (*agent.CoachState, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}
	if threadID == "" {
		return nil, errors.New("thread id is required")
	}

	var conv Conversation
	err := s.db.WithContext(ctx).Where("thread_id = ?", threadID).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	var state agent.CoachState
	if err := json.Unmarshal([]byte(conv.StateJSON), &state); err != nil {
		return nil, fmt.Errorf("decode conversation state: %w", err)
	}
	return &state, nil
}

// Save 覆盖写入一个线程的会话状态，线程不存在时插入。
func (s *Store) Save(ctx context.Context, threadID string, state agent.CoachState) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialized")
	}
	if threadID == "" {
		return errors.New("thread id is required")
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode conversation state: %w", err)
	}

	conv := Conversation{
		ThreadID:       threadID,
		StateJSON:      string(raw),
		Phase:          state.Phase,
		QuestionsAsked: state.QuestionsAsked,
		Completeness:   state.ProfileCompleteness,
		UpdatedAt:      time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "thread_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state_json", "phase", "questions_asked", "completeness", "updated_at"}),
	}).Create(&conv).Error
	if err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

// Delete 删除一个线程的会话状态，返回是否确实存在过。
func (s *Store) Delete(ctx context.Context, threadID string) (bool, error) {
	if s == nil || s.db == nil {
		return false, errors.New("store not initialized")
	}
	if threadID == "" {
		return false, errors.New("thread id is required")
	}

	res := s.db.WithContext(ctx).Where("thread_id = ?", threadID).Delete(&Conversation{})
	if res.Error != nil {
		return false, fmt.Errorf("delete conversation: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

type SessionQuery struct {
	// Phase 为可选过滤条件，精确匹配。
	Phase string
	// UpdatedBefore 只返回最近更新时间早于该时刻的会话。
	UpdatedBefore *time.Time
	// Limit 限制返回条数；<=0 使用默认值。
	Limit int
	// Desc 按 UpdatedAt 倒序返回（优先返回最新会话）。
	Desc bool
}

// ListConversations 按条件列出会话元信息，StateJSON 不反序列化。
func (s *Store) ListConversations(ctx context.Context, q SessionQuery) ([]Conversation, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}

	limit := normalizeLimit(q.Limit)
	db := s.db.WithContext(ctx).Model(&Conversation{})
	if q.Phase != "" {
		db = db.Where("phase = ?", q.Phase)
	}
	if q.UpdatedBefore != nil {
		db = db.Where("updated_at < ?", *q.UpdatedBefore)
	}
	if q.Desc {
		db = db.Order("updated_at DESC")
	} else {
		db = db.Order("updated_at ASC")
	}
	db = db.Limit(limit)

	var out []Conversation
	if err := db.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return out, nil
}

// CountConversationsByPhase 按阶段统计会话数。
func (s *Store) CountConversationsByPhase(ctx context.Context) (map[string]int64, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}

	type row struct {
		Phase string
		Count int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&Conversation{}).
		Select("phase, COUNT(*) AS count").
		Group("phase").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count conversations: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Phase] = r.Count
	}
	return out, nil
}

// RecordRun 写入一条运行审计记录。
func (s *Store) RecordRun(ctx context.Context, log agent.RunLog) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialized")
	}

	rec := RunRecord{
		TraceID:      log.TraceID,
		ThreadID:     log.ThreadID,
		EntryNode:    log.EntryNode,
		PhaseBefore:  log.PhaseBefore,
		PhaseAfter:   log.PhaseAfter,
		ErrorMessage: log.ErrorMessage,
		StartedAt:    log.StartedAt,
		FinishedAt:   log.FinishedAt,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

type RunQuery struct {
	// ThreadID/TraceID 为可选过滤条件，均为精确匹配。
	ThreadID string
	TraceID  string
	// FailedOnly 只返回带错误信息的运行。
	FailedOnly bool
	// Limit 限制返回条数；<=0 使用默认值。
	Limit int
}

// QueryRunRecords 按条件查询运行审计记录，按创建时间倒序。
func (s *Store) QueryRunRecords(ctx context.Context, q RunQuery) ([]RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}

	limit := normalizeLimit(q.Limit)
	db := s.db.WithContext(ctx).Model(&RunRecord{})
	if q.ThreadID != "" {
		db = db.Where("thread_id = ?", q.ThreadID)
	}
	if q.TraceID != "" {
		db = db.Where("trace_id = ?", q.TraceID)
	}
	if q.FailedOnly {
		db = db.Where("error_message <> ''")
	}
	db = db.Order("created_at DESC").Limit(limit)

	var out []RunRecord
	if err := db.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query run records: %w", err)
	}
	return out, nil
}

// DeleteCompletedBeforeLimited 批量删除已完成且早于 before 的会话，单批最多 limit 条。
func (s *Store) DeleteCompletedBeforeLimited(ctx context.Context, before time.Time, limit int) (int64, error) {
	return s.deleteConversationsLimited(ctx, before, limit, agent.PhaseCompleted)
}

// DeleteIdleBeforeLimited 批量删除最近更新早于 before 的会话（不限阶段），单批最多 limit 条。
func (s *Store) DeleteIdleBeforeLimited(ctx context.Context, before time.Time, limit int) (int64, error) {
	return s.deleteConversationsLimited(ctx, before, limit, "")
}

func (s *Store) deleteConversationsLimited(ctx context.Context, before time.Time, limit int, phase string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialized")
	}

	limit = normalizeDeleteLimit(limit)

	var ids []uint64
	db := s.db.WithContext(ctx).Model(&Conversation{}).
		Select("id").
		Where("updated_at < ?", before).
		Order("id ASC").
		Limit(limit)
	if phase != "" {
		db = db.Where("phase = ?", phase)
	}
	if err := db.Find(&ids).Error; err != nil {
		return 0, fmt.Errorf("select conversation ids: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Conversation{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete conversations: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteRunRecordsBeforeLimited 批量删除早于 before 的运行记录，单批最多 limit 条。
func (s *Store) DeleteRunRecordsBeforeLimited(ctx context.Context, before time.Time, limit int) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialized")
	}

	limit = normalizeDeleteLimit(limit)

	var ids []uint64
	db := s.db.WithContext(ctx).Model(&RunRecord{}).
		Select("id").
		Where("created_at < ?", before).
		Order("id ASC").
		Limit(limit)
	if err := db.Find(&ids).Error; err != nil {
		return 0, fmt.Errorf("select run record ids: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&RunRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete run records: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func normalizeDeleteLimit(limit int) int {
	if limit <= 0 {
		return defaultDeleteLimit
	}
	if limit > maxDeleteLimit {
		return maxDeleteLimit
	}
	return limit
}
