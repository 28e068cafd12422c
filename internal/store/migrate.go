package store

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/scholar/ent/schema"
)

const (
	kvTable       = "kv_entries"
	llmEventTable = "llm_request_events"
)

// entDefinition is the subset of ent.Interface the migrator reads.
type entDefinition interface {
	Fields() []ent.Field
	Indexes() []ent.Index
	Mixin() []ent.Mixin
}

// Tables returns the SQL tables derived from the ent schema definitions.
func Tables() ([]*schema.Table, error) {
	defs := []struct {
		name string
		def  entDefinition
	}{
		{kvTable, entschema.KVEntry{}},
		{llmEventTable, entschema.LLMRequestEvent{}},
	}

	tables := make([]*schema.Table, 0, len(defs))
	for _, d := range defs {
		t, err := tableFor(d.name, d.def)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", d.name, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// tableFor converts an ent schema into a migration table. A field named
// "id" becomes the primary key under its storage key; otherwise an
// auto-increment integer id is added, as ent codegen would.
func tableFor(name string, def entDefinition) (*schema.Table, error) {
	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range def.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, def.Fields()...)
	indexes = append(indexes, def.Indexes()...)

	t := schema.NewTable(name)
	if !slices.ContainsFunc(fields, func(f ent.Field) bool { return f.Descriptor().Name == "id" }) {
		t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})
	}
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, d.Err)
		}
		if d.Name == "id" {
			t.AddPrimary(columnFor(d))
			continue
		}
		t.AddColumn(columnFor(d))
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		idxName := d.StorageKey
		if idxName == "" {
			idxName = strings.ToLower(name + "_" + strings.Join(d.Fields, "_"))
		}
		t.AddIndex(idxName, d.Unique, d.Fields)
	}
	return t, nil
}

func columnFor(d *field.Descriptor) *schema.Column {
	name := d.Name
	if d.StorageKey != "" {
		name = d.StorageKey
	}
	col := &schema.Column{
		Name:     name,
		Type:     d.Info.Type,
		Unique:   d.Unique,
		Nullable: d.Optional,
		Size:     int64(d.Size),
		Comment:  d.Comment,
	}
	// Function defaults are applied by the repository, not the database.
	if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
		col.Default = d.Default
	}
	return col
}

// migrate creates or updates every table.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	tables, err := Tables()
	if err != nil {
		return err
	}
	m, err := schema.NewMigrate(drv, schema.WithDropColumn(false), schema.WithDropIndex(false))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// sqlite is the dialect every query in this package is built for.
func sqlite() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
