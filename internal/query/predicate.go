// Package query 提供纯数据的查询条件表达式。
// 条件本身不依赖任何存储实现，不同后端各自降级（lower）成自己的查询语言。
package query

import "strings"

type Pred interface{ pred() }

// Equals 列值精确相等
type Equals struct {
	Field string
	Value any
}

// ContainsFold 大小写不敏感的子串匹配（lower LIKE %v%）
type ContainsFold struct {
	Field string
	Value string
}

// And 子条件全部成立；空 And 表示恒真
type And []Pred

func (Equals) pred()       {}
func (ContainsFold) pred() {}
func (And) pred()          {}

// UserFilter 搜索条件：deleted=false 无条件在场，
// name/email 为 nil 时整条省略（不是按空串匹配）
func UserFilter(name, email *string) Pred {
	ps := And{Equals{Field: "deleted", Value: false}}
	if name != nil {
		ps = append(ps, ContainsFold{Field: "name", Value: *name})
	}
	if email != nil {
		ps = append(ps, ContainsFold{Field: "email", Value: *email})
	}
	return ps
}

// ToSQL 降级为 WHERE 片段 + 参数。Field 只来自代码内常量，
// 不接受用户输入，直接拼列名是安全的。
func ToSQL(p Pred) (string, []any) {
	switch v := p.(type) {
	case Equals:
		return v.Field + " = ?", []any{v.Value}
	case ContainsFold:
		return "lower(" + v.Field + ") LIKE ?", []any{"%" + strings.ToLower(v.Value) + "%"}
	case And:
		if len(v) == 0 {
			return "1 = 1", nil
		}
		var parts []string
		var args []any
		for _, sub := range v {
			s, a := ToSQL(sub)
			parts = append(parts, s)
			args = append(args, a...)
		}
		return strings.Join(parts, " AND "), args
	}
	return "1 = 1", nil
}

// Matches 在内存里求值同一份语义，给不落库的实现（测试用仓储）复用
func Matches(p Pred, get func(field string) any) bool {
	switch v := p.(type) {
	case Equals:
		return get(v.Field) == v.Value
	case ContainsFold:
		s, _ := get(v.Field).(string)
		return strings.Contains(strings.ToLower(s), strings.ToLower(v.Value))
	case And:
		for _, sub := range v {
			if !Matches(sub, get) {
				return false
			}
		}
		return true
	}
	return false
}
