package document

import (
	"strings"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

// Root document keys.
const (
	KeyObjectID = "objectID"
	KeyManaged  = "wagtail_managed"
	KeyLocale   = "locale"
	KeyModel    = "model"
)

// Document is the flat, serializable record pushed to the search index.
type Document map[string]any

// ObjectID returns the document identifier.
func (d Document) ObjectID() string {
	id, _ := d[KeyObjectID].(string)
	return id
}

// Section returns the sub-object written by the type with the given key.
func (d Document) Section(key string) map[string]any {
	m, _ := d[key].(map[string]any)
	return m
}

// ObjectID returns "<qualified-name>:<id>" for inst.
func ObjectID(inst schema.Instance) string {
	return inst.SearchType().QualifiedName() + ":" + inst.SearchID()
}

// ParseObjectID splits an objectID into its type name and instance id.
func ParseObjectID(objectID string) (typeName, id string, err error) {
	parts := strings.Split(objectID, ":")
	if len(parts) != 2 {
		return "", "", &domain.MalformedIdentifierError{ObjectID: objectID}
	}
	return parts[0], parts[1], nil
}

// Build converts an instance into its index document. Every search field,
// inherited ones included, is written under the key of the type declaring it.
func Build(inst schema.Instance) Document {
	t := inst.SearchType()
	doc := Document{
		KeyObjectID: ObjectID(inst),
		KeyManaged:  true,
		KeyLocale:   nil,
		KeyModel:    t.QualifiedName(),
	}
	if l, ok := inst.(schema.Localized); ok {
		if code := l.SearchLocale(); code != "" {
			doc[KeyLocale] = code
		}
	}

	for _, f := range t.SearchFields() {
		key := f.Owner().Key()
		section := doc.Section(key)
		if section == nil {
			section = make(map[string]any)
			doc[key] = section
		}
		for pf, v := range Classify(f, inst) {
			section[pf.Name()] = v
		}
	}
	return doc
}

// BuildAll converts a batch, preserving order.
func BuildAll(insts []schema.Instance) []Document {
	docs := make([]Document, 0, len(insts))
	for _, inst := range insts {
		docs = append(docs, Build(inst))
	}
	return docs
}
