// Package searchsync keeps a polymorphic object model searchable through a
// hosted search index (Algolia or Meilisearch).
//
// Indexed types declare text, autocomplete, filter and related fields.
// Objects are flattened into one document per object, namespaced by the
// type that declares each field. Search hits are mapped back to host
// objects through an ObjectStore, in relevance order and restricted to
// the requested type.
//
// # Declaring types
//
//	page := searchsync.MustType("wagtailcore", "Page", nil,
//	    searchsync.NewText("title", func(o any) any { return o.(*Post).Title }),
//	)
//	post := searchsync.MustType("blog", "Post", page,
//	    searchsync.MustFieldsOf[Post]()...,
//	)
//	reg, _ := searchsync.NewRegistry(page, post)
//
// A struct that embeds its parent's struct tags the embedded field
// `search:"-"` so only its own fields land in its section. TypeOf drops
// promoted fields the parent already declares.
//
// # Indexing and searching
//
//	b, _ := searchsync.New(
//	    searchsync.WithIndexName("content"),
//	    searchsync.WithAlgolia(appID, adminKey),
//	    searchsync.WithRegistry(reg),
//	    searchsync.WithObjectStore(store),
//	)
//	_ = b.Add(ctx, p)
//	res := b.Search("hello", searchsync.All(post))
//	posts, _ := res.Results(ctx)
//	cats, _ := res.Facet(ctx, "category")
package searchsync
