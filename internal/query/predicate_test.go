package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestUserFilter_NoCriteria(t *testing.T) {
	p := UserFilter(nil, nil)

	and, ok := p.(And)
	require.True(t, ok)
	require.Len(t, and, 1)
	require.Equal(t, Equals{Field: "deleted", Value: false}, and[0])

	sql, args := ToSQL(p)
	require.Equal(t, "deleted = ?", sql)
	require.Equal(t, []any{false}, args)
}

func TestUserFilter_AllCriteria(t *testing.T) {
	p := UserFilter(strp("Bob"), strp("@Mail.COM"))

	sql, args := ToSQL(p)
	require.Equal(t, "deleted = ? AND lower(name) LIKE ? AND lower(email) LIKE ?", sql)
	require.Equal(t, []any{false, "%bob%", "%@mail.com%"}, args)
}

func TestUserFilter_NameOnly(t *testing.T) {
	sql, args := ToSQL(UserFilter(strp("ann"), nil))
	require.Equal(t, "deleted = ? AND lower(name) LIKE ?", sql)
	require.Equal(t, []any{false, "%ann%"}, args)
}

func TestToSQL_EmptyAnd(t *testing.T) {
	sql, args := ToSQL(And{})
	require.Equal(t, "1 = 1", sql)
	require.Empty(t, args)
}

func TestMatches(t *testing.T) {
	get := func(m map[string]any) func(string) any {
		return func(f string) any { return m[f] }
	}

	bob := map[string]any{"deleted": false, "name": "Bobby Table", "email": "bob@mail.com"}
	deletedBob := map[string]any{"deleted": true, "name": "Bobby Table", "email": "bob@mail.com"}

	require.True(t, Matches(UserFilter(strp("bob"), nil), get(bob)))
	require.True(t, Matches(UserFilter(strp("BOB"), nil), get(bob)), "matching is case-insensitive")
	require.True(t, Matches(UserFilter(strp("by tab"), nil), get(bob)), "substring, not prefix")
	require.False(t, Matches(UserFilter(strp("alice"), nil), get(bob)))

	// deleted 行永远不命中，无论过滤条件
	require.False(t, Matches(UserFilter(strp("bob"), nil), get(deletedBob)))
	require.False(t, Matches(UserFilter(nil, nil), get(deletedBob)))
}
