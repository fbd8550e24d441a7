package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// CategoriesColumns holds the columns for the "categories" table.
	CategoriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt, Default: 0},
		{Name: "parent_id", Type: field.TypeInt, Nullable: true},
	}
	// CategoriesTable holds the schema information for the "categories" table.
	CategoriesTable = &schema.Table{
		Name:       "categories",
		Columns:    CategoriesColumns,
		PrimaryKey: []*schema.Column{CategoriesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "categories_categories_children",
				Columns:    []*schema.Column{CategoriesColumns[3]},
				RefColumns: []*schema.Column{CategoriesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// CardsColumns holds the columns for the "cards" table.
	CardsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "level", Type: field.TypeInt, Default: 0},
		{Name: "position", Type: field.TypeInt, Default: 0},
		{Name: "front", Type: field.TypeString, Size: 2147483647},
		{Name: "back", Type: field.TypeString, Size: 2147483647},
		{Name: "front_images", Type: field.TypeJSON, Nullable: true},
		{Name: "back_images", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "modified_at", Type: field.TypeTime},
		{Name: "tested_at", Type: field.TypeTime, Nullable: true},
		{Name: "expires_at", Type: field.TypeTime, Nullable: true},
		{Name: "tests_total", Type: field.TypeInt, Default: 0},
		{Name: "tests_passed", Type: field.TypeInt, Default: 0},
		{Name: "front_learned", Type: field.TypeInt, Default: 0},
		{Name: "back_learned", Type: field.TypeInt, Default: 0},
		{Name: "category_id", Type: field.TypeInt},
	}
	// CardsTable holds the schema information for the "cards" table.
	CardsTable = &schema.Table{
		Name:       "cards",
		Columns:    CardsColumns,
		PrimaryKey: []*schema.Column{CardsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "cards_categories_cards",
				Columns:    []*schema.Column{CardsColumns[15]},
				RefColumns: []*schema.Column{CategoriesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "card_category_id_level_position",
				Unique:  false,
				Columns: []*schema.Column{CardsColumns[15], CardsColumns[1], CardsColumns[2]},
			},
			{
				Name:    "card_expires_at",
				Unique:  false,
				Columns: []*schema.Column{CardsColumns[10]},
			},
		},
	}

	// LearnSessionsColumns holds the columns for the "learn_sessions" table.
	LearnSessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString, Unique: true},
		{Name: "category_path", Type: field.TypeString, Default: ""},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "ended_at", Type: field.TypeTime},
		{Name: "passed", Type: field.TypeInt, Default: 0},
		{Name: "failed", Type: field.TypeInt, Default: 0},
		{Name: "skipped", Type: field.TypeInt, Default: 0},
		{Name: "relearned", Type: field.TypeInt, Default: 0},
	}
	// LearnSessionsTable holds the schema information for the "learn_sessions" table.
	LearnSessionsTable = &schema.Table{
		Name:       "learn_sessions",
		Columns:    LearnSessionsColumns,
		PrimaryKey: []*schema.Column{LearnSessionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "learnsession_started_at",
				Unique:  false,
				Columns: []*schema.Column{LearnSessionsColumns[3]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		CategoriesTable,
		CardsTable,
		LearnSessionsTable,
	}
)

func init() {
	CategoriesTable.ForeignKeys[0].RefTable = CategoriesTable
	CardsTable.ForeignKeys[0].RefTable = CategoriesTable
}
