// Package bullets finds resume bullets over the ATS character budget and shortens them
// without dropping their numbers.
package bullets

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-scorer/internal/analyzers"
	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Section names used in violations.
const (
	SectionExperience = "work_experience"
	SectionProjects   = "projects"
)

var (
	spaceRe        = regexp.MustCompile(`\s+`)
	spaceBeforeRe  = regexp.MustCompile(`\s+([,;:.%])`)
	tildeRe        = regexp.MustCompile(`~\s+`)
	doublePunctRe  = regexp.MustCompile(`([,;])[,;]+`)
	andRe          = regexp.MustCompile(`(?i)\s+and\s+`)
	leadingPunctRe = regexp.MustCompile(`^[,;:\s]+`)
)

type replacer struct {
	re *regexp.Regexp
	to string
}

// Fixer shortens bullets to a character budget using the rubric's phrase tables.
type Fixer struct {
	maxChars int
	minSplit int

	verbose      []replacer
	filler       []*regexp.Regexp
	intensifiers []*regexp.Regexp
	splits       []rubric.SplitPattern
	metrics      *rubric.Metrics
	lang         *rubric.Language
}

// New returns a Fixer for the given budget. A budget of zero or less uses the rubric default.
func New(maxChars int) *Fixer {
	r := rubric.Default()
	t := &r.Bullets
	if maxChars <= 0 {
		maxChars = t.MaxChars
	}
	f := &Fixer{
		maxChars: maxChars,
		minSplit: t.MinSplitChars,
		splits:   t.SplitPatterns,
		metrics:  &r.Metrics,
		lang:     &r.Language,
	}
	for _, p := range t.VerbosePhrases {
		f.verbose = append(f.verbose, replacer{re: phraseRegexp(p.From, ""), to: p.To})
	}
	for _, p := range t.FillerPhrases {
		f.filler = append(f.filler, phraseRegexp(strings.TrimSpace(p), `\s+`))
	}
	for _, w := range t.Intensifiers {
		f.intensifiers = append(f.intensifiers, phraseRegexp(w, `\s*`))
	}
	return f
}

func phraseRegexp(phrase, suffix string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b` + suffix)
}

var defaultFixer = sync.OnceValue(func() *Fixer { return New(0) })

// ScanBullets returns every bullet in data over the default budget.
func ScanBullets(data *types.ResumeData) []types.BulletViolation {
	return defaultFixer().Scan(data)
}

// FixLongBullet shortens bullet to the default budget.
func FixLongBullet(bullet string) types.BulletFix {
	return defaultFixer().Fix(bullet)
}

// MaxChars returns the character budget.
func (f *Fixer) MaxChars() int {
	return f.maxChars
}

// Scan returns every experience and project bullet longer than the budget, in document order.
func (f *Fixer) Scan(data *types.ResumeData) []types.BulletViolation {
	out := []types.BulletViolation{}
	if data == nil {
		return out
	}
	check := func(section string, entry int, bullets []string) {
		for i, b := range bullets {
			n := runeLen(b)
			if n <= f.maxChars {
				continue
			}
			out = append(out, types.BulletViolation{
				Section:     section,
				EntryIndex:  entry,
				BulletIndex: i,
				Text:        b,
				Length:      n,
				Limit:       f.maxChars,
				Excess:      n - f.maxChars,
			})
		}
	}
	for i, exp := range data.WorkExperience {
		check(SectionExperience, i, exp.Bullets)
	}
	for i, p := range data.Projects {
		check(SectionProjects, i, p.Bullets)
	}
	return out
}

// Fix shortens a bullet. Bullets within budget come back unchanged. Otherwise the bullet is
// compressed, then split in two, then aggressively compressed, stopping at the first result
// within budget. The result is verified but never rejected.
func (f *Fixer) Fix(bullet string) types.BulletFix {
	if runeLen(bullet) <= f.maxChars {
		return types.BulletFix{
			Before:           bullet,
			After:            []string{bullet},
			Strategy:         types.StrategyNone,
			MetricsPreserved: true,
			StarPreserved:    true,
		}
	}

	fix := types.BulletFix{Before: bullet}
	compressed := f.compress(bullet)
	if runeLen(compressed) <= f.maxChars {
		fix.Strategy = types.StrategyCompress
		fix.After = []string{compressed}
	} else if parts, ok := f.split(compressed); ok {
		fix.Strategy = types.StrategySplit
		fix.After = parts
	} else {
		fix.Strategy = types.StrategyAggressive
		fix.After = []string{f.aggressive(compressed)}
	}
	f.Verify(&fix)
	return fix
}

// FixResume returns a copy of data with every over-budget bullet replaced by its fix, and
// the fixes applied. data is not modified.
func (f *Fixer) FixResume(data *types.ResumeData) (*types.ResumeData, []types.BulletFix) {
	return f.Apply(data, f.Fix)
}

// Apply is FixResume with a caller-supplied fix function, called once per over-budget
// bullet in document order.
func (f *Fixer) Apply(data *types.ResumeData, fix func(string) types.BulletFix) (*types.ResumeData, []types.BulletFix) {
	fixes := []types.BulletFix{}
	if data == nil {
		return nil, fixes
	}
	out := *data
	rewrite := func(bullets []string) []string {
		next := make([]string, 0, len(bullets))
		for _, b := range bullets {
			if runeLen(b) <= f.maxChars {
				next = append(next, b)
				continue
			}
			fx := fix(b)
			fixes = append(fixes, fx)
			next = append(next, fx.After...)
		}
		return next
	}

	out.WorkExperience = make([]types.WorkExperience, len(data.WorkExperience))
	for i, exp := range data.WorkExperience {
		exp.Bullets = rewrite(exp.Bullets)
		out.WorkExperience[i] = exp
	}
	out.Projects = make([]types.Project, len(data.Projects))
	for i, p := range data.Projects {
		p.Bullets = rewrite(p.Bullets)
		out.Projects[i] = p
	}
	return &out, fixes
}

// MetricTokens lists the metric tokens Verify requires a fix to keep.
func (f *Fixer) MetricTokens(bullet string) []string {
	return f.metrics.Tokens(bullet)
}

// Fits reports whether s is within the character budget.
func (f *Fixer) Fits(s string) bool {
	return runeLen(s) <= f.maxChars
}

// Verify fills in the preservation flags of fix by comparing After with Before: every
// metric token of Before must appear in After at least as often, and the leading action
// verb and digit presence must match. Tokens are compared whole, so "5" is not kept by
// "50%".
func (f *Fixer) Verify(fix *types.BulletFix) {
	joined := strings.Join(fix.After, " ")
	have := make(map[string]int)
	for _, tok := range f.metrics.Tokens(joined) {
		have[tok]++
	}

	fix.LostMetrics = nil
	for _, tok := range f.metrics.Tokens(fix.Before) {
		if have[tok] > 0 {
			have[tok]--
			continue
		}
		fix.LostMetrics = append(fix.LostMetrics, tok)
	}
	fix.MetricsPreserved = len(fix.LostMetrics) == 0
	fix.StarPreserved = f.signature(fix.Before) == f.signature(joined)
}

func (f *Fixer) compress(s string) string {
	out := strings.TrimSpace(s)
	for _, r := range f.verbose {
		out = r.re.ReplaceAllLiteralString(out, r.to)
	}
	for _, re := range f.filler {
		out = re.ReplaceAllLiteralString(out, "")
	}
	return tidy(out, startsUpper(s))
}

func (f *Fixer) split(s string) ([]string, bool) {
	for _, p := range f.splits {
		var best []string
		bestDiff := -1
		for _, m := range p.Regexp().FindAllStringSubmatchIndex(s, -1) {
			head := strings.TrimRight(strings.TrimSpace(s[:m[0]]), ",;:")
			start := m[1]
			if p.KeepConnective && len(m) >= 4 && m[2] >= 0 {
				start = m[2]
			}
			tail := capitalize(strings.TrimSpace(s[start:]))
			if !f.splittable(head) || !f.splittable(tail) {
				continue
			}
			diff := runeLen(head) - runeLen(tail)
			if diff < 0 {
				diff = -diff
			}
			if bestDiff < 0 || diff < bestDiff {
				best, bestDiff = []string{head, tail}, diff
			}
		}
		if best != nil {
			return best, true
		}
	}
	return nil, false
}

func (f *Fixer) splittable(s string) bool {
	n := runeLen(s)
	return n >= f.minSplit && n <= f.maxChars
}

func (f *Fixer) aggressive(s string) string {
	out := s
	for _, re := range f.intensifiers {
		out = re.ReplaceAllLiteralString(out, "")
	}
	out = andRe.ReplaceAllLiteralString(out, " & ")
	out = tidy(out, startsUpper(s))
	if runeLen(out) > f.maxChars {
		out = f.truncate(out)
	}
	return out
}

// truncate cuts s to the budget at a word boundary. Metric phrases in the clipped tail
// are appended to the kept head, which is shortened until both fit.
func (f *Fixer) truncate(s string) string {
	for limit := f.maxChars; limit > f.maxChars/2; {
		head := trimDangling(truncateWords(s, limit))
		phrases := f.metricPhrases(s[len(head):])
		if len(phrases) == 0 {
			return head
		}
		out := head + ", " + strings.Join(phrases, ", ")
		if runeLen(out) <= f.maxChars {
			return out
		}
		limit = min(limit-1, f.maxChars-(runeLen(out)-runeLen(head)))
	}
	return truncateWords(s, f.maxChars)
}

// metricPhrases returns each metric token in s together with the word that follows it,
// e.g. "$4.2M ARR" or "9 banks".
func (f *Fixer) metricPhrases(s string) []string {
	var out []string
	for _, span := range f.metrics.TokenSpans(s) {
		end := span[1]
		rest := s[end:]
		trimmed := strings.TrimLeft(rest, " ")
		word := strings.IndexFunc(trimmed, func(r rune) bool { return !unicode.IsLetter(r) })
		if word < 0 {
			word = len(trimmed)
		}
		if word > 0 {
			end += len(rest) - len(trimmed) + word
		}
		out = append(out, strings.TrimSpace(s[span[0]:end]))
	}
	return out
}

var danglingWords = map[string]bool{
	"a": true, "an": true, "the": true, "for": true, "with": true, "and": true, "&": true,
	"of": true, "to": true, "in": true, "on": true, "at": true, "by": true,
}

// trimDangling drops trailing connective words left by a cut.
func trimDangling(s string) string {
	for {
		i := strings.LastIndex(s, " ")
		if i < 0 || !danglingWords[strings.ToLower(s[i+1:])] {
			return s
		}
		s = strings.TrimRight(s[:i], " ,;:-")
	}
}

type starSignature struct {
	verb  bool
	digit bool
}

// signature records whether a bullet opens with a strong action verb (ignoring leading
// adverbs) and whether it contains any digit.
func (f *Fixer) signature(s string) starSignature {
	sig := starSignature{digit: strings.ContainsAny(s, "0123456789")}
	for _, w := range strings.Fields(sections.StripBullet(s)) {
		word := analyzers.FirstWord(w)
		if strings.HasSuffix(word, "ly") {
			continue
		}
		sig.verb = f.lang.IsStrongVerb(word)
		break
	}
	return sig
}

func tidy(s string, upper bool) string {
	s = spaceRe.ReplaceAllString(s, " ")
	s = spaceBeforeRe.ReplaceAllString(s, "$1")
	s = tildeRe.ReplaceAllString(s, "~")
	s = doublePunctRe.ReplaceAllString(s, "$1")
	s = leadingPunctRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if upper {
		s = capitalize(s)
	}
	return s
}

func truncateWords(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	cut := string(r[:limit])
	if i := strings.LastIndex(cut, " "); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-&")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	return unicode.IsUpper(r)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
