package core

import (
	"math"
)

// Table 会话数据表：按追加顺序排列、只追加、不可变
// 每次Append都返回新表，旧表及其底层数组不会被改写，
// 因此渲染层可以在追踪进行时安全地持有任意一个快照
type Table struct {
	rows []Sample
}

// NewTable 创建包含给定样本的表（会复制一份）
func NewTable(samples ...Sample) Table {
	rows := make([]Sample, len(samples))
	copy(rows, samples)
	return Table{rows: rows}
}

// Append 返回比当前表多一行的新表
func (t Table) Append(s Sample) Table {
	rows := make([]Sample, len(t.rows)+1)
	copy(rows, t.rows)
	rows[len(t.rows)] = s
	return Table{rows: rows}
}

// Len 返回行数
func (t Table) Len() int {
	return len(t.rows)
}

// Empty 判断表是否为空
func (t Table) Empty() bool {
	return len(t.rows) == 0
}

// At 返回第i行
func (t Table) At(i int) Sample {
	return t.rows[i]
}

// Last 返回最后一行
func (t Table) Last() (Sample, bool) {
	if len(t.rows) == 0 {
		return Sample{}, false
	}
	return t.rows[len(t.rows)-1], true
}

// Rows 返回所有行的副本
func (t Table) Rows() []Sample {
	out := make([]Sample, len(t.rows))
	copy(out, t.rows)
	return out
}

// Series 将某一列转换为图表数据点序列
func (t Table) Series(c Column) []DataPoint {
	points := make([]DataPoint, 0, len(t.rows))
	for _, s := range t.rows {
		v := s.Value(c)
		status := PointSuccess
		if math.IsNaN(v) {
			status = PointMissing
		}
		points = append(points, DataPoint{
			Timestamp: s.Timestamp,
			Value:     v,
			Status:    status,
		})
	}
	return points
}
