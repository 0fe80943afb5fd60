package document

import "github.com/kailas-cloud/searchsync/internal/domain/schema"

var (
	pageType = schema.MustType("wagtailcore", "Page", nil,
		schema.NewText("title", nil),
		schema.NewFilter("live", nil),
	)
	blogType = schema.MustType("tests", "BlogPage", pageType,
		schema.NewText("introduction", nil),
		schema.NewAutocomplete("subtitle", nil),
		schema.NewFilter("category", nil),
		schema.NewFilter("tags", nil),
		schema.NewFilter("editors", nil),
		schema.NewRelated("authors", nil,
			schema.NewText("name", nil),
			schema.NewFilter("country", nil),
		),
		schema.NewRelated("editor", nil, schema.NewText("name", nil)),
		schema.NewRelated("reviewer", nil, schema.NewText("name", nil)),
	)
)

type category struct{ id string }

func (c *category) SearchID() string { return c.id }

type author struct {
	id      string
	name    string
	country *category
}

func (a *author) SearchID() string { return a.id }

func (a *author) SearchValue(name string) (any, bool) {
	switch name {
	case "name":
		return a.name, true
	case "country":
		return a.country, true
	}
	return nil, false
}

type blogPage struct {
	id       string
	title    string
	live     bool
	intro    string
	subtitle string
	category *category
	tags     []string
	editors  schema.Members[*author]
	authors  []*author
	editor   func() *author
	reviewer *author
	locale   string
}

func (p *blogPage) SearchID() string         { return p.id }
func (p *blogPage) SearchType() *schema.Type { return blogType }
func (p *blogPage) SearchLocale() string     { return p.locale }

func (p *blogPage) SearchValue(name string) (any, bool) {
	switch name {
	case "title":
		return p.title, true
	case "live":
		return p.live, true
	case "introduction":
		return p.intro, true
	case "subtitle":
		return p.subtitle, true
	case "category":
		return p.category, true
	case "tags":
		return p.tags, true
	case "editors":
		return p.editors, true
	case "authors":
		return p.authors, true
	case "editor":
		return p.editor, true
	case "reviewer":
		return p.reviewer, true
	}
	return nil, false
}

func newTestBlogPage() *blogPage {
	ann := &author{id: "a1", name: "Ann", country: &category{id: "nz"}}
	bob := &author{id: "a2", name: "Bob"}
	return &blogPage{
		id:       "7",
		title:    "Apples",
		live:     true,
		intro:    "All about apples",
		subtitle: "Fruit",
		category: &category{id: "c3"},
		tags:     []string{"fruit", "red"},
		editors:  schema.Members[*author]{ann, bob},
		authors:  []*author{ann, bob},
		editor:   func() *author { return ann },
		locale:   "en",
	}
}
