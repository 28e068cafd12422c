package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// KVEntry is a single named JSON document. The quiz history list lives
// under one key.
type KVEntry struct {
	ent.Schema
}

func (KVEntry) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("key").
			NotEmpty(),
		field.Text("value"),
		field.Int64("updated_at").
			Comment("Unix milliseconds of the last write"),
	}
}
