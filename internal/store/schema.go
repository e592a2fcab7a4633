package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions for the migrator. Every table that holds appended
// records carries a global sequence number and a millisecond timestamp.

var (
	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	resultColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "slot", Type: field.TypeString, Default: DefaultSlot},
		{Name: "result_id", Type: field.TypeString, Unique: true},
		{Name: "student_name", Type: field.TypeString, Default: ""},
		{Name: "preliminary_level", Type: field.TypeString, Default: ""},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "max_score", Type: field.TypeInt, Default: 0},
		{Name: "data", Type: field.TypeJSON},
	}
	resultTable = &schema.Table{
		Name:       "test_results",
		Columns:    resultColumns,
		PrimaryKey: []*schema.Column{resultColumns[0]},
		Indexes: []*schema.Index{
			{Name: "testresult_slot_sequence", Columns: []*schema.Column{resultColumns[3], resultColumns[1]}},
		},
	}

	requestColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "kind", Type: field.TypeString},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
	}
	requestTable = &schema.Table{
		Name:       "request_events",
		Columns:    requestColumns,
		PrimaryKey: []*schema.Column{requestColumns[0]},
		Indexes: []*schema.Index{
			{Name: "requestevent_kind", Columns: []*schema.Column{requestColumns[3]}},
			{Name: "requestevent_purpose", Columns: []*schema.Column{requestColumns[6]}},
			{Name: "requestevent_created_at", Columns: []*schema.Column{requestColumns[2]}},
		},
	}

	reviewColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "result_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeInt},
		{Name: "model", Type: field.TypeString, Default: ""},
		{Name: "suggested_level", Type: field.TypeString},
		{Name: "feedback", Type: field.TypeString, Size: 1 << 16},
		{Name: "strengths", Type: field.TypeJSON},
		{Name: "issues", Type: field.TypeJSON},
	}
	reviewTable = &schema.Table{
		Name:       "review_notes",
		Columns:    reviewColumns,
		PrimaryKey: []*schema.Column{reviewColumns[0]},
		Indexes: []*schema.Index{
			{Name: "reviewnote_result_question", Columns: []*schema.Column{reviewColumns[3], reviewColumns[4]}},
		},
	}

	tables = []*schema.Table{
		sequenceTable,
		resultTable,
		requestTable,
		reviewTable,
	}
)
