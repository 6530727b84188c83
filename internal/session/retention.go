package session

import (
	"context"
	"errors"
	"time"
)

type ErrorHandler func(err error)

type RetentionConfig struct {
	// Interval 为清理周期；每到一个周期执行一轮清理。
	Interval time.Duration `mapstructure:"interval"`
	// KeepCompleted 为已完成会话的保留时长，超过后删除。
	KeepCompleted time.Duration `mapstructure:"keep_completed"`
	// KeepIdle 为闲置会话的保留时长；超过该时长未更新的会话（不限阶段）删除。
	KeepIdle time.Duration `mapstructure:"keep_idle"`
	// KeepRuns 为运行审计记录的保留时长。
	KeepRuns time.Duration `mapstructure:"keep_runs"`
	// BatchRows 为单批删除的最大行数，分批删除避免长事务阻塞写入。
	BatchRows int `mapstructure:"batch_rows"`
	// IdleSleep 为两批删除之间的间隔，给正常写入让路。
	IdleSleep time.Duration `mapstructure:"idle_sleep"`
	// OnError 为异步错误回调，默认丢弃。
	OnError ErrorHandler `mapstructure:"-"`
}

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.Interval <= 0 {
		c.Interval = time.Hour
	}
	if c.KeepCompleted <= 0 {
		c.KeepCompleted = 30 * 24 * time.Hour
	}
	if c.KeepIdle <= 0 {
		c.KeepIdle = 90 * 24 * time.Hour
	}
	if c.KeepRuns <= 0 {
		c.KeepRuns = 14 * 24 * time.Hour
	}
	if c.BatchRows <= 0 {
		c.BatchRows = defaultDeleteLimit
	}
	if c.IdleSleep < 0 {
		c.IdleSleep = 0
	}
	if c.OnError == nil {
		c.OnError = func(error) {}
	}
	return c
}

// Retention 定期清理过期会话和运行记录。
type Retention struct {
	cfg   RetentionConfig
	store *Store
}

func NewRetention(store *Store, cfg RetentionConfig) (*Retention, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	return &Retention{cfg: cfg.withDefaults(), store: store}, nil
}

// Run 启动清理循环，直到 ctx 取消。启动时先执行一轮。
func (r *Retention) Run(ctx context.Context) error {
	if r == nil || r.store == nil {
		return errors.New("retention not initialized")
	}

	if err := r.runOnce(ctx, time.Now().UTC()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx, time.Now().UTC()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}

func (r *Retention) runOnce(ctx context.Context, now time.Time) error {
	completedCut := now.Add(-r.cfg.KeepCompleted)
	idleCut := now.Add(-r.cfg.KeepIdle)
	runsCut := now.Add(-r.cfg.KeepRuns)

	tasks := []func(context.Context) (int64, error){
		func(ctx context.Context) (int64, error) {
			return r.store.DeleteCompletedBeforeLimited(ctx, completedCut, r.cfg.BatchRows)
		},
		func(ctx context.Context) (int64, error) {
			return r.store.DeleteIdleBeforeLimited(ctx, idleCut, r.cfg.BatchRows)
		},
		func(ctx context.Context) (int64, error) {
			return r.store.DeleteRunRecordsBeforeLimited(ctx, runsCut, r.cfg.BatchRows)
		},
	}

	for _, task := range tasks {
		if err := r.drain(ctx, task); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			r.cfg.OnError(err)
			return err
		}
	}
	return nil
}

// drain 反复执行一个删除任务直到没有可删的行。
func (r *Retention) drain(ctx context.Context, task func(context.Context) (int64, error)) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		affected, err := task(ctx)
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}
		if err := r.sleepIdle(ctx); err != nil {
			return err
		}
	}
}

func (r *Retention) sleepIdle(ctx context.Context) error {
	if r.cfg.IdleSleep <= 0 {
		return nil
	}
	timer := time.NewTimer(r.cfg.IdleSleep)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
