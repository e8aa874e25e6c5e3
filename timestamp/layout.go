package timestamp

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/datescrub"
)

// field identifies a date or time component captured by a layout.
type field int

const (
	fieldMonth field = iota
	fieldDay
	fieldYear
	fieldHour
	fieldMinute
	fieldSecond
	fieldMeridiem
	numFields
)

var fieldNames = [numFields]string{
	fieldMonth:    "month",
	fieldDay:      "day",
	fieldYear:     "year",
	fieldHour:     "hour",
	fieldMinute:   "minute",
	fieldSecond:   "second",
	fieldMeridiem: "meridiem",
}

// fieldPatterns are evaluated case-insensitively.
var fieldPatterns = [numFields]string{
	fieldMonth:    `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`,
	fieldDay:      `\d{1,2}`,
	fieldYear:     `\d{4}`,
	fieldHour:     `\d{1,2}`,
	fieldMinute:   `\d{2}`,
	fieldSecond:   `\d{2}`,
	fieldMeridiem: `[ap]\.?m\.?`,
}

// space matches a run of whitespace, including the no-break spaces
// exporters like to put between a time and its meridiem.
const space = `[\s\x{00A0}\x{202F}]+`

func lookupField(name string) (field, bool) {
	for f, n := range fieldNames {
		if n == name {
			return field(f), true
		}
	}
	return 0, false
}

// compiledLayout is one layout translated into a regular expression fragment.
type compiledLayout struct {
	source  string
	pattern string
	fields  [numFields]bool
}

// groupName names the capture group of a field within the layout at index i.
func groupName(i int, f field) string {
	return "l" + strconv.Itoa(i) + "_" + fieldNames[f]
}

// compileLayout translates a layout into a regexp fragment whose capture
// groups are named after the layout index and field. No word boundaries are
// added: entry text is a concatenation of text nodes, so a timestamp is
// often glued to the words around it.
//
// Layout language: {month} {day} {year} {hour} {minute} {second} {meridiem}
// are fields, a space matches one or more whitespace characters, [...] marks
// a non-nested optional part and any other character matches itself.
func compileLayout(i int, layout string) (*compiledLayout, error) {
	if strings.TrimSpace(layout) == "" {
		return nil, datescrub.Errorf(datescrub.EINVALID, "layout %d is empty", i)
	}

	cl := &compiledLayout{source: layout}
	var b strings.Builder
	inOptional := false
	prevSpace := false

	for pos := 0; pos < len(layout); {
		c := layout[pos]

		if c == ' ' {
			if !prevSpace {
				b.WriteString(space)
			}
			prevSpace = true
			pos++
			continue
		}
		prevSpace = false

		switch c {
		case '{':
			end := strings.IndexByte(layout[pos:], '}')
			if end < 0 {
				return nil, datescrub.Errorf(datescrub.EINVALID, "layout %q: unclosed field at offset %d", layout, pos)
			}
			name := layout[pos+1 : pos+end]
			f, ok := lookupField(name)
			if !ok {
				return nil, datescrub.Errorf(datescrub.EINVALID, "layout %q: unknown field {%s}", layout, name)
			}
			if cl.fields[f] {
				return nil, datescrub.Errorf(datescrub.EINVALID, "layout %q: field {%s} used twice", layout, name)
			}
			cl.fields[f] = true
			b.WriteString("(?P<" + groupName(i, f) + ">" + fieldPatterns[f] + ")")
			pos += end + 1
		case '[':
			if inOptional {
				return nil, datescrub.Errorf(datescrub.EINVALID, "layout %q: nested optional part at offset %d", layout, pos)
			}
			inOptional = true
			b.WriteString("(?:")
			pos++
		case ']':
			if !inOptional {
				return nil, datescrub.Errorf(datescrub.EINVALID, "layout %q: unbalanced ] at offset %d", layout, pos)
			}
			inOptional = false
			b.WriteString(")?")
			pos++
		case '}':
			return nil, datescrub.Errorf(datescrub.EINVALID, "layout %q: unbalanced } at offset %d", layout, pos)
		default:
			r, size := utf8.DecodeRuneInString(layout[pos:])
			b.WriteString(regexp.QuoteMeta(string(r)))
			pos += size
		}
	}
	if inOptional {
		return nil, datescrub.Errorf(datescrub.EINVALID, "layout %q: unclosed optional part", layout)
	}

	for _, f := range []field{fieldMonth, fieldDay, fieldYear} {
		if !cl.fields[f] {
			return nil, datescrub.Errorf(datescrub.EINVALID, "layout %q: missing {%s}", layout, fieldNames[f])
		}
	}
	if (cl.fields[fieldMinute] || cl.fields[fieldMeridiem]) && !cl.fields[fieldHour] {
		return nil, datescrub.Errorf(datescrub.EINVALID, "layout %q: time fields require {hour}", layout)
	}

	cl.pattern = b.String()
	return cl, nil
}
