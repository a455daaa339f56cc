package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Crème Brûlée", "creme-brulee"},
		{"snake_case_title", "snake-case-title"},
		{"Multiple---hyphens", "multiple-hyphens"},
		{"2026 Masters Preview", "2026-masters-preview"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Make(tc.in), "input %q", tc.in)
	}
}

func TestWithSuffix(t *testing.T) {
	got := WithSuffix("hello-world")
	assert.Regexp(t, regexp.MustCompile(`^hello-world-[0-9a-f]{6}$`), got)

	// Empty base still yields a usable slug.
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{6}$`), WithSuffix(""))

	// Suffixes are random, repeated calls should not collide in practice.
	assert.NotEqual(t, WithSuffix("x"), WithSuffix("x"))
}
