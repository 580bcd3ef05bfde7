package main

import (
	"fmt"
	"regexp"
	"strings"
)

// LatexToText converts LaTeX-flavored math markup into plain spoken-language
// text suitable for a speech synthesizer. It is total over all string
// inputs: unrecognized markup passes through as literal text or loses only
// its delimiters, and no input causes an error. The function is pure and
// safe for concurrent use; all rewrite tables are read-only.
func LatexToText(latex string) string {
	if latex == "" {
		return ""
	}

	text := strings.TrimSpace(latex)

	// Stage order is load-bearing. Later stages operate on the already
	// rewritten text of earlier stages: exponents must be flattened before
	// parenthesis disambiguation, operators expanded before command
	// stripping, and the generic brace cleanup must run before uppercase
	// Greek so capitalization of the replacement survives distinctly.
	text = expandMatrices(text)
	text = expandFractions(text)
	text = expandRoots(text)
	text = expandSuperscripts(text)
	text = expandParentheses(text)
	text = operatorTable.apply(text)
	text = stripCommands(text)
	text = upperGreekTable.apply(text)
	text = specialSymbolTable.apply(text)

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// ============================================================================
// Rewrite Tables
// ============================================================================

// rewrite is a single literal token substitution.
type rewrite struct {
	token  string
	phrase string
}

// rewriteTable is an ordered list of literal substitutions, applied in order
// with one global replace each.
type rewriteTable []rewrite

// newRewriteTable builds an ordered table from token/phrase pairs. Defining
// a token twice keeps its original position but the last phrase wins, so a
// duplicate key silently overwrites the earlier definition.
func newRewriteTable(pairs [][2]string) rewriteTable {
	var table rewriteTable
	for _, p := range pairs {
		overwritten := false
		for i := range table {
			if table[i].token == p[0] {
				table[i].phrase = p[1]
				overwritten = true
				break
			}
		}
		if !overwritten {
			table = append(table, rewrite{token: p[0], phrase: p[1]})
		}
	}
	return table
}

// apply performs the table's substitutions on text, in table order.
func (t rewriteTable) apply(text string) string {
	for _, r := range t {
		text = strings.ReplaceAll(text, r.token, r.phrase)
	}
	return text
}

// operatorTable expands arithmetic, comparison, and named operator symbols.
// Replacements are padded with spaces to avoid colliding with adjacent text.
var operatorTable = newRewriteTable([][2]string{
	{"+", " plus "},
	{"-", " minus "},
	{"*", " times "},
	{`\cdot`, " times "},
	{`\times`, " times "},
	{`\div`, " divided by "},
	{"=", " equals "},
	{`\neq`, " not equal to "},
	{"<", " less than "},
	{">", " greater than "},
	{`\leq`, " less than or equal to "},
	{`\geq`, " greater than or equal to "},
	{`\approx`, " approximately equal to "},
	{`\equiv`, " identically equal to "},
	{`\propto`, " proportional to "},
	{`\infty`, " infinity "},
	{`\pm`, " plus or minus "},
	{`\mp`, " minus or plus "},
	{`\sum`, " sum "},
	{`\prod`, " product "},
	{`\int`, " integral "},
	{`\lim`, " limit "},
	{`\sin`, " sine "},
	{`\cos`, " cosine "},
	{`\tan`, " tangent "},
	{`\log`, " logarithm "},
	{`\ln`, " natural logarithm "},
	{`\exp`, " exponent "},
})

// commandTable strips text-styling commands (the command name and its
// opening brace are replaced by a space; the matching close brace is left
// for the generic cleanup) and expands lowercase Greek letters.
var commandTable = newRewriteTable([][2]string{
	{`\text{`, " "},
	{`\textbf{`, " "},
	{`\textit{`, " "},
	{`\emph{`, " "},
	{`\underline{`, " "},
	{`\overline{`, " "},
	{`\hat{`, " "},
	{`\tilde{`, " "},
	{`\vec{`, " "},
	{`\bar{`, " "},
	{`\dot{`, " "},
	{`\ddot{`, " "},
	{`\alpha`, "alpha"},
	{`\beta`, "beta"},
	{`\gamma`, "gamma"},
	{`\delta`, "delta"},
	{`\epsilon`, "epsilon"},
	{`\varepsilon`, "epsilon"},
	{`\zeta`, "zeta"},
	{`\eta`, "eta"},
	{`\theta`, "theta"},
	{`\vartheta`, "theta"},
	{`\iota`, "iota"},
	{`\kappa`, "kappa"},
	{`\lambda`, "lambda"},
	{`\mu`, "mu"},
	{`\nu`, "nu"},
	{`\xi`, "xi"},
	{`\pi`, "pi"},
	{`\varpi`, "pi"},
	{`\rho`, "rho"},
	{`\varrho`, "rho"},
	{`\sigma`, "sigma"},
	{`\varsigma`, "sigma"},
	{`\tau`, "tau"},
	{`\upsilon`, "upsilon"},
	{`\phi`, "phi"},
	{`\varphi`, "phi"},
	{`\chi`, "chi"},
	{`\psi`, "psi"},
	{`\omega`, "omega"},
})

// upperGreekTable expands uppercase Greek letters. It runs after the generic
// brace cleanup so the capitalized replacements are never touched by it.
var upperGreekTable = newRewriteTable([][2]string{
	{`\Alpha`, "Alpha"},
	{`\Beta`, "Beta"},
	{`\Gamma`, "Gamma"},
	{`\Delta`, "Delta"},
	{`\Epsilon`, "Epsilon"},
	{`\Zeta`, "Zeta"},
	{`\Eta`, "Eta"},
	{`\Theta`, "Theta"},
	{`\Iota`, "Iota"},
	{`\Kappa`, "Kappa"},
	{`\Lambda`, "Lambda"},
	{`\Mu`, "Mu"},
	{`\Nu`, "Nu"},
	{`\Xi`, "Xi"},
	{`\Pi`, "Pi"},
	{`\Rho`, "Rho"},
	{`\Sigma`, "Sigma"},
	{`\Tau`, "Tau"},
	{`\Upsilon`, "Upsilon"},
	{`\Phi`, "Phi"},
	{`\Chi`, "Chi"},
	{`\Psi`, "Psi"},
	{`\Omega`, "Omega"},
})

// specialSymbolTable expands arrows, set operators, logical connectives and
// quantifiers. \Rightarrow and \Leftrightarrow are defined twice; the last
// definition wins, matching the insertion semantics of newRewriteTable.
var specialSymbolTable = newRewriteTable([][2]string{
	{`\rightarrow`, " right arrow "},
	{`\leftarrow`, " left arrow "},
	{`\leftrightarrow`, " left right arrow "},
	{`\Rightarrow`, " double right arrow "},
	{`\Leftarrow`, " double left arrow "},
	{`\Leftrightarrow`, " double left right arrow "},
	{`\uparrow`, " up arrow "},
	{`\downarrow`, " down arrow "},
	{`\updownarrow`, " up down arrow "},
	{`\in`, " belongs to "},
	{`\notin`, " does not belong to "},
	{`\subset`, " subset of "},
	{`\supset`, " superset of "},
	{`\subseteq`, " subset of or equal to "},
	{`\supseteq`, " superset of or equal to "},
	{`\cup`, " union "},
	{`\cap`, " intersection "},
	{`\emptyset`, " empty set "},
	{`\varnothing`, " empty set "},
	{`\forall`, " for all "},
	{`\exists`, " there exists "},
	{`\nexists`, " there does not exist "},
	{`\land`, " and "},
	{`\lor`, " or "},
	{`\lnot`, " not "},
	{`\neg`, " not "},
	{`\Rightarrow`, " therefore "},
	{`\Leftrightarrow`, " if and only if "},
	{`\iff`, " if and only if "},
})

// ============================================================================
// Matrix Expansion
// ============================================================================

var plainMatrixRe = regexp.MustCompile(`(?s)\\begin\{matrix\}(.*?)\\end\{matrix\}`)

// delimitedMatrixStyles names the delimiter flavor narrated for each matrix
// environment variant beyond the plain one.
var delimitedMatrixStyles = []struct {
	env   string
	style string
}{
	{"pmatrix", "round brackets"},
	{"bmatrix", "square brackets"},
	{"vmatrix", "vertical bars"},
	{"Vmatrix", "double vertical bars"},
}

var delimitedMatrixRes = compileMatrixRes()

func compileMatrixRes() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(delimitedMatrixStyles))
	for i, m := range delimitedMatrixStyles {
		res[i] = regexp.MustCompile(`(?s)\\begin\{` + m.env + `\}(.*?)\\end\{` + m.env + `\}`)
	}
	return res
}

// expandMatrices narrates all matrix environments. The plain environment is
// handled first, then each delimited variant.
func expandMatrices(text string) string {
	text = plainMatrixRe.ReplaceAllStringFunc(text, func(match string) string {
		return narrateMatrix(plainMatrixRe.FindStringSubmatch(match)[1], "")
	})
	for i, m := range delimitedMatrixStyles {
		re := delimitedMatrixRes[i]
		style := m.style
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			return narrateMatrix(re.FindStringSubmatch(match)[1], style)
		})
	}
	return text
}

// narrateMatrix turns a matrix body (rows separated by \\, cells by &) into
// its spoken form. Ragged rows are tolerated: the column count is the
// maximum cell count across rows, and rows are never padded.
func narrateMatrix(body, style string) string {
	var rows []string
	for _, row := range strings.Split(body, `\\`) {
		if row = strings.TrimSpace(row); row != "" {
			rows = append(rows, row)
		}
	}

	in := ""
	if style != "" {
		in = " in " + style
	}

	if len(rows) == 0 {
		return "empty matrix" + in
	}

	maxCols := 0
	for _, row := range rows {
		if n := len(strings.Split(row, "&")); n > maxCols {
			maxCols = n
		}
	}

	switch {
	case len(rows) == 1 && maxCols > 1:
		cells := splitCells(rows[0])
		return fmt.Sprintf("row of %d elements%s: %s", len(cells), in, strings.Join(cells, ", "))
	case maxCols == 1 && len(rows) > 1:
		return fmt.Sprintf("column of %d elements%s: %s", len(rows), in, strings.Join(rows, ", "))
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "matrix %d by %d%s", len(rows), maxCols, in)
		for i, row := range rows {
			fmt.Fprintf(&b, ", row %d: %s", i+1, strings.Join(splitCells(row), ", "))
		}
		return b.String()
	}
}

func splitCells(row string) []string {
	cells := strings.Split(row, "&")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// ============================================================================
// Fractions, Roots, Superscripts
// ============================================================================

// All three fraction spellings collapse to the same narration. Arguments
// are single non-nested brace groups: the innermost closing brace terminates
// the group, so nested braces truncate rather than balance.
var fractionRes = []*regexp.Regexp{
	regexp.MustCompile(`\\frac\{([^}]+)\}\{([^}]+)\}`),
	regexp.MustCompile(`\\dfrac\{([^}]+)\}\{([^}]+)\}`),
	regexp.MustCompile(`\\cfrac\{([^}]+)\}\{([^}]+)\}`),
}

func expandFractions(text string) string {
	for _, re := range fractionRes {
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			g := re.FindStringSubmatch(match)
			return fmt.Sprintf("fraction, numerator %s, denominator %s",
				strings.TrimSpace(g[1]), strings.TrimSpace(g[2]))
		})
	}
	return text
}

var (
	plainRootRe   = regexp.MustCompile(`\\sqrt\{([^}]+)\}`)
	indexedRootRe = regexp.MustCompile(`\\sqrt\[([^\]]+)\]\{([^}]+)\}`)
)

func expandRoots(text string) string {
	text = plainRootRe.ReplaceAllStringFunc(text, func(match string) string {
		g := plainRootRe.FindStringSubmatch(match)
		return fmt.Sprintf("inside root %s end root", strings.TrimSpace(g[1]))
	})
	text = indexedRootRe.ReplaceAllStringFunc(text, func(match string) string {
		g := indexedRootRe.FindStringSubmatch(match)
		return fmt.Sprintf("root of degree %s inside root %s end root",
			strings.TrimSpace(g[1]), strings.TrimSpace(g[2]))
	})
	return text
}

// A caret followed by a brace group or a single alphanumeric token. Runs
// before parenthesis disambiguation so exponents inside parentheses are
// already flattened when the content-length heuristics look at them.
var superscriptRe = regexp.MustCompile(`\^(\{([^}]+)\}|([a-zA-Z0-9]+))`)

func expandSuperscripts(text string) string {
	return superscriptRe.ReplaceAllStringFunc(text, func(match string) string {
		g := superscriptRe.FindStringSubmatch(match)
		power := g[2]
		if power == "" {
			power = g[3]
		}
		return " to the power of " + strings.TrimSpace(power)
	})
}

// ============================================================================
// Parenthesis Disambiguation
// ============================================================================

var (
	// f(x) -> function of one variable
	funcSingleRe = regexp.MustCompile(`([a-zA-Z]+)\(([a-zA-Z]+)\)`)
	// f(x+1) -> function of a compound argument
	funcCompoundRe = regexp.MustCompile(`([a-zA-Z]+)\(([^)]{2,})\)`)
	// (t) -> argument, only when not function application
	bareSingleRe = regexp.MustCompile(`\(([a-zA-Z]+)\)`)
	// (t-n) -> argument with subtraction, only when not function application
	bareMinusRe = regexp.MustCompile(`\(([a-zA-Z]+)-([a-zA-Z0-9]+)\)`)
	// any remaining parenthesized content of length >= 2
	anyParenRe = regexp.MustCompile(`\(([^)]{2,})\)`)
)

// expandParentheses applies the five parenthesis sub-rules in order. Each
// rule's pattern is a special case the next rule would otherwise mis-handle,
// and a span consumed by an earlier rule is rewritten text that no later
// rule's pattern can re-match.
func expandParentheses(text string) string {
	text = funcSingleRe.ReplaceAllString(text, "$1 of $2")

	text = funcCompoundRe.ReplaceAllStringFunc(text, func(match string) string {
		g := funcCompoundRe.FindStringSubmatch(match)
		return g[1] + " open paren " + strings.TrimSpace(g[2]) + " close paren"
	})

	text = replaceUnlessAfterLetter(text, bareSingleRe, func(g []string) string {
		return "of " + g[1]
	})

	text = replaceUnlessAfterLetter(text, bareMinusRe, func(g []string) string {
		return "of " + g[1] + " minus " + g[2]
	})

	text = anyParenRe.ReplaceAllStringFunc(text, func(match string) string {
		g := anyParenRe.FindStringSubmatch(match)
		return "open paren " + strings.TrimSpace(g[1]) + " close paren"
	})

	return text
}

// replaceUnlessAfterLetter rewrites every match of re whose first byte is
// not immediately preceded by an ASCII letter. RE2 has no lookbehind, so the
// boundary byte is checked by hand while splicing the result together.
func replaceUnlessAfterLetter(text string, re *regexp.Regexp, repl func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && isASCIILetter(text[start-1]) {
			continue
		}

		groups := make([]string, len(m)/2)
		for i := range groups {
			if m[2*i] >= 0 {
				groups[i] = text[m[2*i]:m[2*i+1]]
			}
		}

		b.WriteString(text[last:start])
		b.WriteString(repl(groups))
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ============================================================================
// Command Stripping and Cleanup
// ============================================================================

var braceGroupRe = regexp.MustCompile(`\{([^}]*)\}`)

// stripCommands removes text-styling commands, expands lowercase Greek
// letters, and then strips the braces off any remaining paired brace group
// anywhere in the text. A command not handled earlier that still carries a
// {...} argument loses only its braces, not its name.
func stripCommands(text string) string {
	text = commandTable.apply(text)
	return braceGroupRe.ReplaceAllString(text, "$1")
}

var whitespaceRe = regexp.MustCompile(`\s+`)
