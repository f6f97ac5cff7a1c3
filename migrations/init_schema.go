package migrations

import (
	"context"
	"sort"

	"github.com/nonsonwune/ncaafb_db/dataset"
	"github.com/nonsonwune/ncaafb_db/engine"
	"github.com/nonsonwune/ncaafb_db/loader"
	"github.com/nonsonwune/ncaafb_db/models"
)

// DefaultSchema is the Postgres schema holding the tables.
const DefaultSchema = "public"

const columnsQuery = `
	SELECT table_name, column_name
	FROM information_schema.columns
	WHERE table_schema = $1`

// Loader is satisfied by *loader.Loader.
type Loader interface {
	Load(ctx context.Context, src loader.Source) (*dataset.Dataset, error)
}

// InitSchema verifies that every catalog table exists with the columns the
// reports read. We only read from existing tables, nothing is created.
func InitSchema(ctx context.Context, ld Loader, schema string) error {
	if schema == "" {
		schema = DefaultSchema
	}

	columns, err := ld.Load(ctx, loader.Source{
		Name: "information_schema.columns",
		SQL:  columnsQuery,
		Args: []any{schema},
	})
	if err != nil {
		return err
	}
	if err := columns.RequireColumns("table_name", "column_name"); err != nil {
		return err
	}

	var missingTables, missingColumns []string
	for _, table := range models.Tables() {
		found, err := engine.ApplyFilters(columns, engine.Equals("table_name", dataset.String(table.Name)))
		if err != nil {
			return err
		}
		if found.Len() == 0 {
			missingTables = append(missingTables, table.Name)
			continue
		}

		present := make(map[string]bool, found.Len())
		for _, v := range found.Distinct("column_name") {
			present[v.String()] = true
		}
		for _, col := range table.Columns {
			if !present[col] {
				missingColumns = append(missingColumns, table.Name+"."+col)
			}
		}
	}

	if len(missingTables) == 0 && len(missingColumns) == 0 {
		return nil
	}

	sort.Strings(missingColumns)
	data := map[string]any{"schema": schema}
	if len(missingTables) > 0 {
		data["tables"] = missingTables
	}
	if len(missingColumns) > 0 {
		data["columns"] = missingColumns
	}
	return dataset.SchemaErr("required tables or columns do not exist", data)
}
