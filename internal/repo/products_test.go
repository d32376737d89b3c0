package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePatternEscapesMetacharacters(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"wireless", "%wireless%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\path`, `%c:\\path%`},
		{"", "%%"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, likePattern(tc.in), "input %q", tc.in)
	}
}
