// Package pattern compiles declarative path templates into matchers that
// extract named parameters from concrete request paths.
//
// A template is a /-separated string; segments beginning with ':' are named
// parameters and every other segment is matched literally. Matching is
// anchored: the whole path must match, never a prefix.
package pattern

import (
	"fmt"
	"strings"
)

// segment is one compiled piece of a template: either a literal to compare
// exactly or a named parameter capturing the path segment in that position.
type segment struct {
	literal string
	param   string
}

// Pattern is an immutable compiled path template.
type Pattern struct {
	template string
	segments []segment
	params   []string
}

// Compile parses a path template into a Pattern. Duplicate parameter names
// within one template are a configuration error and fail here rather than at
// match time.
func Compile(template string) (*Pattern, error) {
	parts := strings.Split(template, "/")

	p := &Pattern{
		template: template,
		segments: make([]segment, 0, len(parts)),
	}

	seen := make(map[string]bool)
	for _, part := range parts {
		if strings.HasPrefix(part, ":") {
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("pattern %q: parameter segment missing a name", template)
			}
			if seen[name] {
				return nil, fmt.Errorf("pattern %q: duplicate parameter name %q", template, name)
			}
			seen[name] = true
			p.segments = append(p.segments, segment{param: name})
			p.params = append(p.params, name)
			continue
		}
		p.segments = append(p.segments, segment{literal: part})
	}

	return p, nil
}

// MustCompile is like Compile but panics on error. Intended for patterns
// known at adapter-configuration time.
func MustCompile(template string) *Pattern {
	p, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Template returns the original template string.
func (p *Pattern) Template() string {
	return p.template
}

// ParamNames returns the parameter names in template order.
func (p *Pattern) ParamNames() []string {
	names := make([]string, len(p.params))
	copy(names, p.params)
	return names
}

// Match tests a concrete path against the pattern. It returns a map from
// parameter name to the captured segment, or nil when the path does not
// match. A matching pattern with no parameters returns a non-nil empty map
// so callers can tell "no match" apart from "matched with zero params".
func (p *Pattern) Match(path string) map[string]string {
	parts := strings.Split(path, "/")
	if len(parts) != len(p.segments) {
		return nil
	}

	params := make(map[string]string, len(p.params))
	for i, seg := range p.segments {
		if seg.param != "" {
			params[seg.param] = parts[i]
			continue
		}
		if parts[i] != seg.literal {
			return nil
		}
	}

	return params
}

// Registry holds an ordered list of compiled patterns. It is built once at
// adapter-configuration time and only ever read afterward, so it needs no
// synchronization. Matching is first-match-wins in registration order;
// callers order more specific templates before more general ones.
type Registry struct {
	patterns []*Pattern
}

// NewRegistry compiles the given templates in order.
func NewRegistry(templates ...string) (*Registry, error) {
	r := &Registry{patterns: make([]*Pattern, 0, len(templates))}
	for _, tmpl := range templates {
		p, err := Compile(tmpl)
		if err != nil {
			return nil, err
		}
		r.patterns = append(r.patterns, p)
	}
	return r, nil
}

// Match tries each registered pattern in order and returns the parameters of
// the first one that accepts the path. A nil map means no pattern matched.
func (r *Registry) Match(path string) map[string]string {
	if r == nil {
		return nil
	}
	for _, p := range r.patterns {
		if params := p.Match(path); params != nil {
			return params
		}
	}
	return nil
}

// Len returns the number of registered patterns.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.patterns)
}
