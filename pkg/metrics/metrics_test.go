package metrics

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// typescriptSample builds a TypeScript file with exactly 15 if statements,
// 5 comment lines and 200 non-empty lines.
func typescriptSample() string {
	var b strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, "if (flag%d) { act%d(); }\n", i, i)
	}
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, "// note number %d\n", i)
	}
	for i := 0; i < 180; i++ {
		fmt.Fprintf(&b, "const value%d = %d;\n", i, i)
	}
	return b.String()
}

func TestComplexity_TypescriptSample(t *testing.T) {
	content := typescriptSample()

	assert.Equal(t, 16, Complexity(content, "typescript"))
	assert.Equal(t, 200, CountLinesOfCode(content))
	assert.Equal(t, 5, CountCommentLines(content, "typescript"))
}

func TestMaintainabilityIndex_TypescriptSample(t *testing.T) {
	want := 100 - 2*16.0 - 5*math.Log(200) + 10*(5.0/200.0)
	got := MaintainabilityIndex(16, 200, 5)
	assert.InDelta(t, want, got, 0.0001)
}

func TestMaintainabilityIndex_Clamped(t *testing.T) {
	assert.Equal(t, 0.0, MaintainabilityIndex(100, 10000, 0))
	assert.Equal(t, 100.0, MaintainabilityIndex(0, 1, 100))
	// Empty file: no log or ratio terms.
	assert.InDelta(t, 98.0, MaintainabilityIndex(1, 0, 0), 0.0001)
}

func TestComplexity_Monotonic(t *testing.T) {
	content := "let x = 1;\n"
	previous := Complexity(content, "javascript")

	for i := 0; i < 10; i++ {
		content += "if (x) { x += 1; }\n"
		current := Complexity(content, "javascript")
		assert.GreaterOrEqual(t, current, previous)
		previous = current
	}
}

func TestComplexity_LanguageTables(t *testing.T) {
	// elif counts for python but not for the default table.
	content := "if a:\n    pass\nelif b:\n    pass\n"
	assert.Equal(t, 3, Complexity(content, "python"))
	assert.Equal(t, 2, Complexity(content, "java"))

	// match counts for rust only.
	assert.Equal(t, 2, Complexity("match x {}\n", "rust"))
	assert.Equal(t, 1, Complexity("match x {}\n", "java"))
}

func TestCountLinesOfCode_SkipsBlankLines(t *testing.T) {
	assert.Equal(t, 0, CountLinesOfCode(""))
	assert.Equal(t, 2, CountLinesOfCode("a\n\n   \nb\n"))
}

func TestCountCommentLines_BlockComments(t *testing.T) {
	content := `/* header
spans lines
*/
code();
// trailing
`
	assert.Equal(t, 4, CountCommentLines(content, "javascript"))
}

func TestCountCommentLines_Python(t *testing.T) {
	content := "# a comment\nx = 1\n# another\n"
	assert.Equal(t, 2, CountCommentLines(content, "python"))
	// Python has no /* */ blocks.
	assert.Equal(t, 0, CountCommentLines("/* not a comment */\n", "python"))
}

func TestTechnicalDebt(t *testing.T) {
	assert.Equal(t, 0.0, TechnicalDebt(10, 200))
	assert.InDelta(t, 10.0, TechnicalDebt(12, 100), 0.0001)
	assert.InDelta(t, 5.0, TechnicalDebt(5, 250), 0.0001)
	assert.InDelta(t, 15.0, TechnicalDebt(12, 250), 0.0001)
}

func TestDuplicateLines_Accumulation(t *testing.T) {
	line := "repeated long statement;"

	assert.Equal(t, 0, DuplicateLines(line+"\n"))
	assert.Equal(t, 2, DuplicateLines(strings.Repeat(line+"\n", 2)))
	assert.Equal(t, 3, DuplicateLines(strings.Repeat(line+"\n", 3)))
	assert.Equal(t, 4, DuplicateLines(strings.Repeat(line+"\n", 4)))
}

func TestDuplicateLines_ShortLinesIgnored(t *testing.T) {
	assert.Equal(t, 0, DuplicateLines(strings.Repeat("}\n", 20)))
	assert.Equal(t, 0, DuplicateLines(strings.Repeat("return 0;\n", 5)))
}

func TestCompute(t *testing.T) {
	content := typescriptSample()
	m := Compute(content, "typescript")

	assert.Equal(t, 16, m.Complexity)
	assert.Equal(t, 200, m.LinesOfCode)
	assert.InDelta(t, MaintainabilityIndex(16, 200, 5), m.MaintainabilityIndex, 0.0001)
	assert.Equal(t, TechnicalDebt(16, 200), m.TechnicalDebt)
	assert.Equal(t, 0, m.DuplicateLines)
}
