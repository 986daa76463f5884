package engine

import (
	"fmt"
	"strings"
)

// summary accumulates human readable lines for one resolution step; the
// joined text ends up in CardResult.Summary or EnemyAction.Summary.
type summary struct {
	lines []string
}

func (sm *summary) add(format string, args ...interface{}) {
	sm.lines = append(sm.lines, fmt.Sprintf(format, args...))
}

// join returns the accumulated summary as a single string.
func (sm *summary) join() string {
	return strings.Join(sm.lines, "\n")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
