// Package query builds repository query strings. Values are always rendered
// as quoted string literals, so identifiers and search phrases containing
// quotes cannot change the shape of the query.
package query

import "strings"

// Predicate is one bracketed filter of a path query.
type Predicate interface {
	render(b *strings.Builder)
}

// Query is an immutable path query such as /s-ramp/xsd/XsdDocument.
type Query struct {
	path       string
	predicates []Predicate
}

// Path starts a query at the given path. Segments are joined with "/".
func Path(segments ...string) Query {
	var b strings.Builder
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(s)
	}
	if b.Len() == 0 {
		return Query{path: "/"}
	}
	return Query{path: b.String()}
}

// Parse wraps an already written query path. Parse does not validate it.
func Parse(raw string) Query {
	return Query{path: raw}
}

// Where returns a copy of q with the predicates appended.
func (q Query) Where(preds ...Predicate) Query {
	next := make([]Predicate, 0, len(q.predicates)+len(preds))
	next = append(next, q.predicates...)
	next = append(next, preds...)
	return Query{path: q.path, predicates: next}
}

func (q Query) String() string {
	var b strings.Builder
	b.WriteString(q.path)
	for _, p := range q.predicates {
		b.WriteByte('[')
		p.render(&b)
		b.WriteByte(']')
	}
	return b.String()
}

type eq struct {
	attr  string
	value string
}

// Eq matches artifacts whose attribute equals value, e.g. Eq("uuid", id)
// renders @uuid = '<id>'.
func Eq(attr, value string) Predicate {
	return eq{attr: strings.TrimPrefix(attr, "@"), value: value}
}

func (p eq) render(b *strings.Builder) {
	b.WriteByte('@')
	b.WriteString(p.attr)
	b.WriteString(" = ")
	writeLiteral(b, p.value)
}

type matches struct {
	phrase string
}

// Matches is a full-text predicate over the whole artifact.
func Matches(phrase string) Predicate {
	return matches{phrase: phrase}
}

func (p matches) render(b *strings.Builder) {
	b.WriteString("xp2:matches(., ")
	writeLiteral(b, p.phrase)
	b.WriteByte(')')
}

// writeLiteral quotes s as a single-quoted string literal, doubling embedded
// single quotes.
func writeLiteral(b *strings.Builder, s string) {
	b.WriteByte('\'')
	b.WriteString(strings.ReplaceAll(s, "'", "''"))
	b.WriteByte('\'')
}
