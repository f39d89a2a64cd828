package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
)

func fixedRule(code Code, sev core.Severity, n int) RuleDef {
	r := RuleDef{Code: code, Severity: sev}
	r.Check = func(_ *ast.Statement, _ map[string]any) []Diagnostic {
		out := make([]Diagnostic, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, r.New("found", ""))
		}
		return out
	}
	return r
}

func panickingRule(code Code) RuleDef {
	return RuleDef{
		Code:     code,
		Severity: core.SeverityError,
		Check: func(_ *ast.Statement, _ map[string]any) []Diagnostic {
			panic("rule bug")
		},
	}
}

func TestAnalyzer_RuleOrder(t *testing.T) {
	rules := []RuleDef{
		fixedRule(CodeSelectStar, core.SeverityWarning, 1),
		fixedRule(CodeMissingAlias, core.SeverityInfo, 2),
		fixedRule(CodeHardcodedDate, core.SeverityInfo, 1),
	}
	diags := NewAnalyzerWithRules(nil, rules).Analyze(&ast.Statement{})
	require.Len(t, diags, 4)

	var got []Code
	for _, d := range diags {
		got = append(got, d.Type)
	}
	assert.Equal(t, []Code{CodeSelectStar, CodeMissingAlias, CodeMissingAlias, CodeHardcodedDate}, got)
}

func TestAnalyzer_RuleIsolation(t *testing.T) {
	var faults []Code
	rules := []RuleDef{
		fixedRule(CodeSelectStar, core.SeverityWarning, 1),
		panickingRule(CodeMissingAlias),
		fixedRule(CodeHardcodedDate, core.SeverityInfo, 1),
	}
	a := NewAnalyzerWithRules(nil, rules).OnFault(func(code Code, _ any) {
		faults = append(faults, code)
	})

	diags := a.Analyze(&ast.Statement{})
	require.Len(t, diags, 2, "a failing rule contributes zero findings")
	assert.Equal(t, CodeSelectStar, diags[0].Type)
	assert.Equal(t, CodeHardcodedDate, diags[1].Type)
	assert.Equal(t, []Code{CodeMissingAlias}, faults)
}

func TestAnalyzer_Config(t *testing.T) {
	rules := []RuleDef{
		fixedRule(CodeSelectStar, core.SeverityWarning, 1),
		fixedRule(CodeWhere1Equals1, core.SeverityInfo, 1),
	}

	cfg := NewConfig().
		Disable(CodeWhere1Equals1).
		SetSeverity(CodeSelectStar, core.SeverityError)

	diags := NewAnalyzerWithRules(cfg, rules).Analyze(&ast.Statement{})
	require.Len(t, diags, 1)
	assert.Equal(t, CodeSelectStar, diags[0].Type)
	assert.Equal(t, core.SeverityError, diags[0].Severity)
}

func TestAnalyzer_PassesOptions(t *testing.T) {
	var seen map[string]any
	rule := RuleDef{
		Code: CodeNestedSubquery,
		Check: func(_ *ast.Statement, opts map[string]any) []Diagnostic {
			seen = opts
			return nil
		},
	}
	cfg := NewConfig().SetRuleOptions(CodeNestedSubquery, map[string]any{"max_depth": 5})
	NewAnalyzerWithRules(cfg, []RuleDef{rule}).Analyze(&ast.Statement{})
	assert.Equal(t, map[string]any{"max_depth": 5}, seen)
}

func TestAnalyzer_NilStatement(t *testing.T) {
	diags := NewAnalyzerWithRules(nil, []RuleDef{fixedRule(CodeSelectStar, core.SeverityWarning, 1)}).Analyze(nil)
	assert.NotNil(t, diags)
	assert.Empty(t, diags)
}

func TestRegistry_Order(t *testing.T) {
	extra := Code("ZZ_CUSTOM")
	Register(RuleDef{Code: extra})
	Register(RuleDef{Code: CodeMissingGroupBy})
	Register(RuleDef{Code: CodeSelectStar})
	t.Cleanup(func() {
		Unregister(extra)
		Unregister(CodeMissingGroupBy)
		Unregister(CodeSelectStar)
	})

	var got []Code
	for _, r := range GetAll() {
		got = append(got, r.Code)
	}
	assert.Equal(t, []Code{CodeSelectStar, CodeMissingGroupBy, extra}, got)

	r, ok := GetByCode(CodeSelectStar)
	require.True(t, ok)
	assert.Equal(t, CodeSelectStar, r.Code)
}

func TestParseCode(t *testing.T) {
	c, ok := ParseCode("select_star")
	assert.True(t, ok)
	assert.Equal(t, CodeSelectStar, c)

	c, ok = ParseCode("PARSE_ERROR")
	assert.True(t, ok)
	assert.Equal(t, CodeParseError, c)

	_, ok = ParseCode("NOPE")
	assert.False(t, ok)

	assert.Len(t, AllCodes(), 15)
}

func TestDecodeOptions(t *testing.T) {
	type opts struct {
		MaxDepth int  `mapstructure:"max_depth"`
		Strict   bool `mapstructure:"strict"`
	}

	t.Run("defaults kept for empty map", func(t *testing.T) {
		o := opts{MaxDepth: 3}
		require.NoError(t, DecodeOptions(nil, &o))
		assert.Equal(t, 3, o.MaxDepth)
	})

	t.Run("weak typing", func(t *testing.T) {
		o := opts{MaxDepth: 3}
		require.NoError(t, DecodeOptions(map[string]any{"max_depth": "5", "strict": "true"}, &o))
		assert.Equal(t, 5, o.MaxDepth)
		assert.True(t, o.Strict)
	})

	t.Run("unknown key", func(t *testing.T) {
		o := opts{}
		assert.Error(t, DecodeOptions(map[string]any{"depth": 1}, &o))
	})
}
