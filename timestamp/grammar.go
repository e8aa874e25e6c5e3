// Package timestamp extracts and normalizes textual timestamps.
//
// A Grammar is compiled from a list of layouts into a single regular
// expression. Go's regexp package guarantees matching in time linear in the
// input, so scanning the concatenated text of a large, deeply nested entry
// cannot run away the way a backtracking date parser can.
package timestamp

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/datescrub"
)

// Ensure Grammar implements datescrub.TimestampExtractor at compile time.
var _ datescrub.TimestampExtractor = (*Grammar)(nil)

// Grammar matches every configured timestamp layout in a single pass.
// It is safe for concurrent use.
type Grammar struct {
	re     *regexp.Regexp
	full   *regexp.Regexp
	groups [][numFields]int
	maxLen int
}

// Option configures a Grammar.
type Option func(*Grammar)

// WithMaxLength sets the longest fragment that is normalized.
// Longer matches are reported as unusable candidates.
func WithMaxLength(n int) Option {
	return func(g *Grammar) {
		g.maxLen = n
	}
}

// Compile builds a Grammar accepting any of the given layouts.
// Returns EINVALID if a layout is malformed.
func Compile(layouts []string, opts ...Option) (*Grammar, error) {
	if len(layouts) == 0 {
		return nil, datescrub.Errorf(datescrub.EINVALID, "at least one timestamp layout required")
	}

	alternatives := make([]string, 0, len(layouts))
	for i, layout := range layouts {
		cl, err := compileLayout(i, layout)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, "(?:"+cl.pattern+")")
	}
	body := strings.Join(alternatives, "|")

	re, err := regexp.Compile(`(?i)(?:` + body + `)`)
	if err != nil {
		return nil, datescrub.Errorf(datescrub.EINVALID, "timestamp layouts: %v", err)
	}
	full, err := regexp.Compile(`(?i)^(?:` + body + `)$`)
	if err != nil {
		return nil, datescrub.Errorf(datescrub.EINVALID, "timestamp layouts: %v", err)
	}

	g := &Grammar{
		re:     re,
		full:   full,
		groups: make([][numFields]int, len(layouts)),
		maxLen: datescrub.DefaultMaxCandidateLength,
	}
	for _, opt := range opts {
		opt(g)
	}

	// Both expressions share group numbering; index 0 means "absent".
	for idx, name := range re.SubexpNames() {
		layout, f, ok := parseGroupName(name)
		if !ok {
			continue
		}
		g.groups[layout][f] = idx
	}
	return g, nil
}

// New builds a Grammar from the layouts and length bound in cfg.
func New(cfg *datescrub.Config) (*Grammar, error) {
	return Compile(cfg.Layouts, WithMaxLength(cfg.MaxCandidateLength))
}

// Extract scans text once and returns every timestamp candidate in text
// order. Candidates that match a layout but do not form a valid instant
// are returned with Err set.
func (g *Grammar) Extract(text string) []datescrub.Candidate {
	matches := g.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	candidates := make([]datescrub.Candidate, 0, len(matches))
	for _, m := range matches {
		c := datescrub.Candidate{
			Text:   text[m[0]:m[1]],
			Offset: m[0],
		}
		c.Time, c.Err = g.normalize(text, m)
		candidates = append(candidates, c)
	}
	return candidates
}

// Parse normalizes s, which must consist of exactly one timestamp in one
// of the grammar's layouts, surrounding whitespace aside.
// Returns EINVALID otherwise.
func (g *Grammar) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > g.maxLen {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "timestamp longer than %d bytes", g.maxLen)
	}
	m := g.full.FindStringSubmatchIndex(s)
	if m == nil {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "unrecognized timestamp %q", s)
	}
	return g.normalize(s, m)
}

// Recognizes reports whether s has the shape of exactly one timestamp in
// one of the grammar's layouts, whether or not its fields are in range.
func (g *Grammar) Recognizes(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) <= g.maxLen && g.full.MatchString(s)
}

// normalize assembles a UTC instant from the groups of match m.
func (g *Grammar) normalize(text string, m []int) (time.Time, error) {
	if m[1]-m[0] > g.maxLen {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "timestamp longer than %d bytes", g.maxLen)
	}

	groups, ok := g.matchedLayout(m)
	if !ok {
		return time.Time{}, datescrub.Errorf(datescrub.EINTERNAL, "match without month group")
	}
	get := func(f field) (string, bool) {
		idx := groups[f]
		if idx == 0 || m[2*idx] < 0 {
			return "", false
		}
		return text[m[2*idx]:m[2*idx+1]], true
	}

	monthText, _ := get(fieldMonth)
	month, ok := monthByName(monthText)
	if !ok {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "unknown month %q", monthText)
	}

	dayText, _ := get(fieldDay)
	day, _ := strconv.Atoi(dayText)
	yearText, _ := get(fieldYear)
	year, _ := strconv.Atoi(yearText)
	if year < 1 {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "year %q out of range", yearText)
	}
	if day < 1 || day > daysIn(month, year) {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "day %d out of range for %s %d", day, month, year)
	}

	var hour, minute, second int
	if s, ok := get(fieldHour); ok {
		hour, _ = strconv.Atoi(s)
	}
	if s, ok := get(fieldMinute); ok {
		minute, _ = strconv.Atoi(s)
	}
	if s, ok := get(fieldSecond); ok {
		second, _ = strconv.Atoi(s)
	}

	if mer, ok := get(fieldMeridiem); ok {
		// "3:00 amazing" is a time followed by a word, not a meridiem.
		// Glued capitalized text such as "3:00pmLike" still counts.
		if end := m[2*groups[fieldMeridiem]+1]; end < len(text) && isLetter(mer[len(mer)-1]) && isLower(text[end]) {
			return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "meridiem %q runs into a word", mer)
		}
		if hour < 1 || hour > 12 {
			return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "hour %d out of range for 12-hour clock", hour)
		}
		hour %= 12
		if mer[0] == 'p' || mer[0] == 'P' {
			hour += 12
		}
	} else if hour > 23 {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "hour %d out of range", hour)
	}
	if minute > 59 {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "minute %d out of range", minute)
	}
	if second > 59 {
		return time.Time{}, datescrub.Errorf(datescrub.EINVALID, "second %d out of range", second)
	}

	return time.Date(year, month, day, hour, minute, second, 0, time.UTC), nil
}

// matchedLayout returns the group table of the alternative that produced m.
// Every layout captures a month, so the one with a matched month group won.
func (g *Grammar) matchedLayout(m []int) ([numFields]int, bool) {
	for _, groups := range g.groups {
		idx := groups[fieldMonth]
		if idx != 0 && m[2*idx] >= 0 {
			return groups, true
		}
	}
	return [numFields]int{}, false
}

// parseGroupName reverses groupName.
func parseGroupName(name string) (int, field, bool) {
	if !strings.HasPrefix(name, "l") {
		return 0, 0, false
	}
	idxText, fieldText, ok := strings.Cut(name[1:], "_")
	if !ok {
		return 0, 0, false
	}
	idx, err := strconv.Atoi(idxText)
	if err != nil {
		return 0, 0, false
	}
	f, ok := lookupField(fieldText)
	return idx, f, ok
}

var months = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// monthByName resolves a full or abbreviated English month name.
func monthByName(name string) (time.Month, bool) {
	if len(name) < 3 {
		return 0, false
	}
	m, ok := months[strings.ToLower(name[:3])]
	return m, ok
}

func isLetter(c byte) bool {
	return isLower(c) || 'A' <= c && c <= 'Z'
}

func isLower(c byte) bool {
	return 'a' <= c && c <= 'z'
}

// daysIn returns the number of days in month of year.
func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
