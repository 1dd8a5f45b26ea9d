package classifier

import (
	"errors"
	"sort"
	"strings"

	"lottrack/internal/snapshot"
)

// SplitLowYieldPattern 分批低良率备注的固定子串，区分大小写逐字符匹配
const SplitLowYieldPattern = "TBE-BMPQ-L/YIELD"

// ErrIncompleteSnapshot 分析前要求 before / after 快照均已采集
var ErrIncompleteSnapshot = errors.New("incomplete snapshot pair")

// Result 两次快照对比的分类结果
//
// 不变量：SplitLowYield ⊆ Processed；Processed 与 InProgress 不相交；
// InProgressSplitLowYield ⊆ InProgress
type Result struct {
	Processed               map[string]struct{} `json:"-"`
	InProgress              map[string]struct{} `json:"-"`
	SplitLowYield           map[string]struct{} `json:"-"`
	InProgressSplitLowYield map[string]struct{} `json:"-"`
}

// Classify 计算分类结果
//
// processed   = before 有而 after 无的批次（视为本班完成）
// in_progress = 两份快照均存在的批次
// split_low_yield 取 processed 中 before 记录备注含固定子串者
// 结果为独立副本，不引用快照内部数据
func Classify(before, after *snapshot.Snapshot) (*Result, error) {
	if before == nil || after == nil {
		return nil, ErrIncompleteSnapshot
	}

	result := &Result{
		Processed:               make(map[string]struct{}),
		InProgress:              make(map[string]struct{}),
		SplitLowYield:           make(map[string]struct{}),
		InProgressSplitLowYield: make(map[string]struct{}),
	}

	for id, record := range before.Records {
		split := strings.Contains(record.Comments, SplitLowYieldPattern)
		if _, stillThere := after.Records[id]; stillThere {
			result.InProgress[id] = struct{}{}
			if split {
				result.InProgressSplitLowYield[id] = struct{}{}
			}
		} else {
			result.Processed[id] = struct{}{}
			if split {
				result.SplitLowYield[id] = struct{}{}
			}
		}
	}

	return result, nil
}

// SortedIDs 集合按批次号字典序升序返回，保证输出确定性
func SortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
