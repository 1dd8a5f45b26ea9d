package snapshot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"lottrack/internal/model"
	"lottrack/internal/parser"
)

// Name 快照名称
type Name string

const (
	Before Name = "before"
	After  Name = "after"
)

// State 快照存储状态
type State string

const (
	StateEmpty        State = "empty"
	StateBeforeOnly   State = "before_only"
	StateBothCaptured State = "both_captured"
)

// ErrSnapshotNotCaptured 请求的快照尚未采集
var ErrSnapshotNotCaptured = errors.New("snapshot not captured")

// Snapshot 一次采集动作得到的活跃批次集合，创建后不可变
type Snapshot struct {
	Name       Name                       `json:"name"`
	CapturedAt time.Time                  `json:"capturedAt"`
	Records    map[string]model.LotRecord `json:"records"`
	Report     parser.CaptureReport       `json:"report"`
}

// Store 保存 before / after 两份快照，按会话持有
type Store struct {
	mu     sync.RWMutex
	before *Snapshot
	after  *Snapshot
}

// NewStore 创建快照存储
func NewStore() *Store {
	return &Store{}
}

// Capture 采集快照并存入指定槽位，覆盖同名旧快照
//
// 状态迁移：
//   - Capture(before) 总是进入 before_only，已存在的 after 快照被废弃
//   - Capture(after) 要求 before 已采集，进入 both_captured
func (s *Store) Capture(name Name, rows []model.Row, lotColumn string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case Before, After:
	default:
		return nil, fmt.Errorf("unknown snapshot name: %s", name)
	}

	if name == After && s.before == nil {
		return nil, fmt.Errorf("capture after: before %w", ErrSnapshotNotCaptured)
	}

	records, report := parser.BuildRecords(rows, lotColumn)
	snap := &Snapshot{
		Name:       name,
		CapturedAt: time.Now(),
		Records:    records,
		Report:     report,
	}

	if name == Before {
		s.before = snap
		// 重新采集班前快照后，旧的班后快照与分析结果失效
		s.after = nil
	} else {
		s.after = snap
	}

	return snap, nil
}

// Get 获取指定快照
func (s *Store) Get(name Name) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap *Snapshot
	switch name {
	case Before:
		snap = s.before
	case After:
		snap = s.after
	default:
		return nil, fmt.Errorf("unknown snapshot name: %s", name)
	}

	if snap == nil {
		return nil, fmt.Errorf("%s %w", name, ErrSnapshotNotCaptured)
	}
	return snap, nil
}

// Pair 同时获取 before / after 快照，任一缺失时报错
func (s *Store) Pair() (before, after *Snapshot, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.before == nil {
		return nil, nil, fmt.Errorf("%s %w", Before, ErrSnapshotNotCaptured)
	}
	if s.after == nil {
		return nil, nil, fmt.Errorf("%s %w", After, ErrSnapshotNotCaptured)
	}
	return s.before, s.after, nil
}

// Reset 清空两份快照，用于重新开始一个班次周期
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.before = nil
	s.after = nil
}

// State 当前状态
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.before == nil:
		return StateEmpty
	case s.after == nil:
		return StateBeforeOnly
	default:
		return StateBothCaptured
	}
}
