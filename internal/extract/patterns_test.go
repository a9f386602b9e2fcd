package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChineseNumeralMapping(t *testing.T) {
	// the mapping for 一–十 is exact and order-preserving
	numerals := []string{"一", "二", "三", "四", "五", "六", "七", "八", "九", "十"}
	for i, n := range numerals {
		q, ok := FindQuantity(n + "箱")
		require.True(t, ok, "numeral %s", n)
		assert.Equal(t, fmt.Sprintf("%d箱", i+1), q)
	}
}

func TestFindQuantity_NoMultiDigitNumerals(t *testing.T) {
	// 十一 and up are out of scope: the match stops at 十
	q, ok := FindQuantity("十一箱")
	require.True(t, ok)
	assert.NotEqual(t, "11箱", q)
}

func TestFindQuantity_DigitSequences(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12托", "12托", true},
		{"3包", "3包", true},
		{"五瓶", "5瓶", true},
		{"没有", "", false},
	}
	for _, tt := range tests {
		q, ok := FindQuantity(tt.in)
		assert.Equal(t, tt.ok, ok, "in: %s", tt.in)
		assert.Equal(t, tt.want, q, "in: %s", tt.in)
	}
}

func TestCourierPatternOrder(t *testing.T) {
	// courier patterns are an ordered list; the first declared hit wins
	for _, name := range []string{"中通", "顺丰", "圆通", "申通", "韵达", "百世", "德邦", "京东", "菜鸟"} {
		m := courierPatterns[0].FindStringSubmatch("发" + name + "快递")
		require.NotNil(t, m, "courier %s", name)
		assert.Equal(t, name, m[1])
	}
}
