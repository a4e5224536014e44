package checklist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextBullets(t *testing.T) {
	tasks := ParseText("- Task 1: Do X\n- Task 2: Do Y")
	require.Len(t, tasks, 2)

	assert.Equal(t, "Task 1", tasks[0].Title)
	assert.Equal(t, "Do X", tasks[0].Description)
	assert.Equal(t, 0, tasks[0].TaskOrder)
	assert.Equal(t, "Task 2", tasks[1].Title)
	assert.Equal(t, "Do Y", tasks[1].Description)
	assert.Equal(t, 1, tasks[1].TaskOrder)

	for _, task := range tasks {
		assert.Equal(t, DefaultPhase, task.Phase)
		assert.Equal(t, 1, task.PhaseOrder)
		assert.False(t, task.Completed)
	}
}

func TestParseTextStarBullets(t *testing.T) {
	tasks := ParseText("* Set up repo\n* Write docs")
	require.Len(t, tasks, 2)
	assert.Equal(t, "Set up repo", tasks[0].Title)
	assert.Empty(t, tasks[0].Description)
}

func TestParseTextIgnoresNonBullets(t *testing.T) {
	text := "Phase 1: Planning\n\n- Define scope\nsome prose\n  - Indented task\n-not a bullet"
	tasks := ParseText(text)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Define scope", tasks[0].Title)
	assert.Equal(t, "Indented task", tasks[1].Title)
}

func TestParseTextEmptyInputs(t *testing.T) {
	assert.Empty(t, ParseText(""))
	assert.Empty(t, ParseText("no bullets here\njust text"))
	assert.Empty(t, ParseText("- \n* "))
}

func TestParseTextIDsUniqueWithinPass(t *testing.T) {
	tasks := ParseText("- a\nskip\n- b\n- c")
	seen := map[ID]bool{}
	for _, task := range tasks {
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}
}

func TestParseTextOnlyFirstColonSplits(t *testing.T) {
	tasks := ParseText("- Deploy: push to prod: verify")
	require.Len(t, tasks, 1)
	assert.Equal(t, "Deploy", tasks[0].Title)
	assert.Equal(t, "push to prod: verify", tasks[0].Description)
}

func TestParseTextNeverPanics(t *testing.T) {
	inputs := []string{
		"-", "*", "- :", ": desc only", strings.Repeat("- x\n", 1000),
		"\x00\xff- weird bytes", "-\t tab not space",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { ParseText(in) })
	}
}

func TestParseTextTitleFallback(t *testing.T) {
	// Content that is only a colon plus description has no title text.
	tasks := ParseText("- : just a description")
	require.Len(t, tasks, 1)
	assert.Equal(t, "Task 1", tasks[0].Title)
	assert.Equal(t, "just a description", tasks[0].Description)
}
