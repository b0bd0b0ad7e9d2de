package main

import (
	"strconv"
	"strings"
)

// Section accumulates report lines. Its heading is written only once the
// first content line arrives, so a section that stays empty leaves no
// trace in the output.
//
// Nested sections collect their own lines and hand them to the parent on
// Close:
//
//	report := NewReport(activity, "")
//	report.Append("Activity: {name}")
//	power := report.Section("Power Data:", "- ", nil)
//	power.Append("Average Power: {avg_power} W")
//	power.Close()
//	text := report.String()
type Section struct {
	parent  *Section
	heading []string
	lines   []string
	indent  string
	data    Record
	closed  bool
}

// NewReport starts a root section. An empty heading means none.
func NewReport(data Record, heading string) *Section {
	s := &Section{data: data}
	if heading != "" {
		s.heading = []string{heading}
	}
	return s
}

// Section opens a nested section. The heading is indented like the parent,
// content lines additionally get indent. A nil data inherits the parent's.
func (s *Section) Section(heading, indent string, data Record) *Section {
	if data == nil {
		data = s.data
	}
	child := &Section{parent: s, indent: s.indent + indent, data: data}
	if heading != "" {
		child.heading = []string{s.indent + heading}
	}
	return child
}

// Close merges the section into its parent, separated by a blank line when
// the parent already has content. Closing twice is a no-op.
func (s *Section) Close() {
	if s.closed || s.parent == nil {
		return
	}
	s.closed = true
	if len(s.lines) == 0 {
		return
	}
	p := s.parent
	if len(p.lines) > 0 {
		p.lines = append(p.lines, "")
	}
	p.flush()
	p.lines = append(p.lines, s.lines...)
}

// TrimLast strips surrounding whitespace from the most recent line.
func (s *Section) TrimLast() {
	if n := len(s.lines); n > 0 {
		s.lines[n-1] = strings.TrimSpace(s.lines[n-1])
	}
}

// Len returns the number of lines written so far.
func (s *Section) Len() int {
	return len(s.lines)
}

func (s *Section) String() string {
	return strings.Join(s.lines, "\n")
}

func (s *Section) flush() {
	if len(s.heading) > 0 {
		s.lines = append(s.lines, s.heading...)
		s.heading = nil
	}
}

func (s *Section) emit(line string) {
	s.flush()
	s.lines = append(s.lines, s.indent+line)
}

type appendOptions struct {
	keys      []string
	value     any
	fill      any
	defaults  Record
	data      Record
	overrides Record
}

// AppendOption tunes how Append resolves template placeholders.
type AppendOption func(*appendOptions)

// withKeys resolves the positional {} (and {value}) from the first present key.
func withKeys(keys ...string) AppendOption {
	return func(o *appendOptions) { o.keys = keys }
}

// withValue supplies the positional {} directly. A nil value is ignored.
func withValue(v any) AppendOption {
	return func(o *appendOptions) { o.value = v }
}

// withDefault fills every placeholder that is still unresolved.
func withDefault(v any) AppendOption {
	return func(o *appendOptions) { o.fill = v }
}

// withDefaults provides per-placeholder fallbacks.
func withDefaults(d Record) AppendOption {
	return func(o *appendOptions) { o.defaults = d }
}

// withData layers a local record over the section data.
func withData(d Record) AppendOption {
	return func(o *appendOptions) { o.data = d }
}

// withField overrides a single placeholder.
func withField(key string, v any) AppendOption {
	return func(o *appendOptions) {
		if o.overrides == nil {
			o.overrides = Record{}
		}
		o.overrides[key] = v
	}
}

// Append renders template and writes it as a line. Placeholders are {},
// {name} and {name:.Nf}. If any placeholder cannot be resolved the line
// is silently dropped.
func (s *Section) Append(template string, opts ...AppendOption) {
	var o appendOptions
	for _, opt := range opts {
		opt(&o)
	}

	lookup := func(name string) (any, bool) {
		for _, r := range []Record{o.overrides, o.data, s.data, o.defaults} {
			if v, ok := r.Lookup(name); ok {
				return v, true
			}
		}
		return nil, false
	}

	positional := o.value
	if positional == nil {
		for _, key := range o.keys {
			if v, ok := lookup(key); ok {
				positional = v
				break
			}
		}
	}

	resolve := func(name string) (any, bool) {
		if name == "" {
			if positional != nil {
				return positional, true
			}
			return o.fill, o.fill != nil
		}
		if v, ok := lookup(name); ok {
			return v, true
		}
		if name == "value" && positional != nil {
			return positional, true
		}
		return o.fill, o.fill != nil
	}

	line, ok := renderTemplate(template, resolve)
	if !ok {
		return
	}
	s.emit(line)
}

func renderTemplate(tmpl string, resolve func(string) (any, bool)) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			b.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			b.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", false
			}
			name, spec, _ := strings.Cut(tmpl[i+1:i+end], ":")
			v, ok := resolve(name)
			if !ok {
				return "", false
			}
			text, ok := formatField(v, spec)
			if !ok {
				return "", false
			}
			b.WriteString(text)
			i += end + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), true
}

// formatField applies a format spec. Only fixed precision (".Nf") is
// understood; anything else prints the value as is.
func formatField(v any, spec string) (string, bool) {
	if !strings.HasPrefix(spec, ".") || !strings.HasSuffix(spec, "f") {
		return renderValue(v), true
	}
	prec, err := strconv.Atoi(spec[1 : len(spec)-1])
	if err != nil {
		return renderValue(v), true
	}
	n, ok := toNumber(v)
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(n.f, 'f', prec, 64), true
}
