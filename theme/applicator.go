package theme

import (
	"html/template"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	borderOpacity     = 0.2
	cardBorderOpacity = 0.1
	accentOpacity     = 0.3
)

var maxWidths = map[Width]string{
	WidthStandard: "800px",
	WidthWide:     "1200px",
	WidthFull:     "none",
}

// Variable is one CSS custom property.
type Variable struct {
	Name  string
	Value string
}

// Applicator hands out theme scopes for menu renders. It keeps no tenant
// state of its own; it only counts scopes that have not been released.
type Applicator struct {
	active int64
}

func NewApplicator() *Applicator {
	return &Applicator{}
}

// Active reports how many scopes are acquired and not yet released.
func (a *Applicator) Active() int {
	return int(atomic.LoadInt64(&a.active))
}

// Scope is the presentation state of one menu view. It is passed explicitly
// to the renderer and must be released when the view is done.
type Scope struct {
	owner       *Applicator
	tokens      Tokens
	variables   []Variable
	bodyClasses []string
	stylesheet  template.CSS
	once        sync.Once
	released    atomic.Bool
}

// Acquire projects tokens onto a new scope.
func (a *Applicator) Acquire(t Tokens) *Scope {
	layout := effectiveLayout(t.LayoutStyle)
	width := effectiveWidth(t.MenuWidth)

	vars := []Variable{
		{"--menu-primary", cssValue(t.PrimaryColor)},
		{"--menu-background", cssValue(t.BackgroundColor)},
		{"--menu-text", cssValue(t.TextColor)},
		{"--menu-card-background", cssValue(t.CardBackgroundColor)},
		{"--menu-border", cssValue(WithOpacity(t.TextColor, borderOpacity))},
		{"--menu-card-border", cssValue(WithOpacity(t.TextColor, cardBorderOpacity))},
		{"--menu-accent-soft", cssValue(WithOpacity(t.PrimaryColor, accentOpacity))},
		{"--menu-font-body", FontStack(t.FontFamily)},
		{"--menu-font-heading", FontStack(t.HeadingFontFamily)},
		{"--menu-max-width", maxWidths[width]},
	}

	s := &Scope{
		owner:       a,
		tokens:      t,
		variables:   vars,
		bodyClasses: []string{"menu-theme", "layout-" + string(layout), "width-" + string(width)},
		stylesheet:  template.CSS(buildStylesheet(vars, layout)),
	}
	atomic.AddInt64(&a.active, 1)
	return s
}

// Apply acquires a scope for t, runs fn with it and releases the scope on
// every return path, panics included.
func (a *Applicator) Apply(t Tokens, fn func(*Scope) error) error {
	s := a.Acquire(t)
	defer s.Release()
	return fn(s)
}

// Release removes everything the scope applied. Calling it more than once
// is harmless.
func (s *Scope) Release() {
	s.once.Do(func() {
		s.variables = nil
		s.bodyClasses = nil
		s.stylesheet = ""
		s.released.Store(true)
		atomic.AddInt64(&s.owner.active, -1)
	})
}

func (s *Scope) Released() bool {
	return s.released.Load()
}

func (s *Scope) Tokens() Tokens {
	return s.tokens
}

func (s *Scope) Variables() []Variable {
	return s.variables
}

func (s *Scope) BodyClasses() []string {
	return s.bodyClasses
}

// BodyClass is the class attribute for <body>.
func (s *Scope) BodyClass() string {
	return strings.Join(s.bodyClasses, " ")
}

func (s *Scope) Stylesheet() template.CSS {
	return s.stylesheet
}

func effectiveLayout(l Layout) Layout {
	l = Layout(strings.ToLower(string(l)))
	if l.Valid() {
		return l
	}
	return LayoutClassic
}

func effectiveWidth(w Width) Width {
	w = Width(strings.ToLower(string(w)))
	if w.Valid() {
		return w
	}
	return WidthStandard
}

// cssValue drops characters that would let a pass-through value end its
// declaration or the style element.
func cssValue(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', ';', '<', '>', '"', '\'', '\\', '\n', '\r':
			return -1
		}
		return r
	}, v)
}

func buildStylesheet(vars []Variable, layout Layout) string {
	var b strings.Builder

	b.WriteString(":root{")
	for _, v := range vars {
		b.WriteString(v.Name)
		b.WriteByte(':')
		b.WriteString(v.Value)
		b.WriteByte(';')
	}
	b.WriteString("}\n")

	b.WriteString("body.menu-theme{margin:0;background:var(--menu-background);color:var(--menu-text);font-family:var(--menu-font-body);}\n")
	b.WriteString("body.menu-theme h1,body.menu-theme h2,body.menu-theme h3{font-family:var(--menu-font-heading);}\n")
	b.WriteString(".menu-container{max-width:var(--menu-max-width);margin:0 auto;padding:24px 16px;}\n")
	b.WriteString(".menu-header{border-bottom:1px solid var(--menu-border);padding-bottom:16px;margin-bottom:24px;}\n")
	b.WriteString(".category-title{color:var(--menu-primary);border-bottom:2px solid var(--menu-accent-soft);padding-bottom:8px;}\n")
	b.WriteString(".menu-item{background:var(--menu-card-background);border:1px solid var(--menu-card-border);}\n")
	b.WriteString(".menu-item .price{color:var(--menu-primary);font-weight:600;}\n")
	b.WriteString(".menu-item .tag{border:1px solid var(--menu-border);border-radius:9999px;padding:2px 8px;font-size:12px;}\n")
	b.WriteString(".table-banner{background:var(--menu-accent-soft);border-radius:8px;padding:8px 12px;}\n")

	switch layout {
	case LayoutModern:
		b.WriteString(".menu-items{display:flex;flex-direction:column;gap:20px;}\n")
		b.WriteString(".menu-item{border-radius:16px;padding:20px;overflow:hidden;}\n")
		b.WriteString(".menu-item img{display:block;width:100%;height:240px;object-fit:cover;border-radius:12px;}\n")
	case LayoutCompact:
		b.WriteString(".menu-items{display:flex;flex-direction:column;gap:8px;}\n")
		b.WriteString(".menu-item{border-radius:6px;padding:12px;}\n")
		b.WriteString(".menu-item img{width:64px;height:64px;object-fit:cover;border-radius:4px;}\n")
	case LayoutGrid:
		b.WriteString(".menu-items{display:grid;grid-template-columns:repeat(1,minmax(0,1fr));gap:16px;}\n")
		b.WriteString("@media (min-width:640px){.menu-items{grid-template-columns:repeat(2,minmax(0,1fr));}}\n")
		b.WriteString("@media (min-width:1024px){.menu-items{grid-template-columns:repeat(3,minmax(0,1fr));}}\n")
		b.WriteString(".menu-item{border-radius:8px;padding:16px;}\n")
		b.WriteString(".menu-item img{width:100%;height:160px;object-fit:cover;border-radius:6px;}\n")
	default:
		b.WriteString(".menu-items{display:flex;flex-direction:column;gap:16px;}\n")
		b.WriteString(".menu-item{border-radius:8px;padding:16px;}\n")
		b.WriteString(".menu-item img{width:96px;height:96px;object-fit:cover;border-radius:6px;}\n")
	}
	return b.String()
}
