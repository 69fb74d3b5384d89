package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions migrated by ent's schema engine on Open.
var (
	// ProgressColumns holds the columns for the "progress" table.
	ProgressColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "xp", Type: field.TypeInt, Default: 0},
		{Name: "level", Type: field.TypeInt, Default: 1},
		{Name: "streak_days", Type: field.TypeInt, Default: 0},
		{Name: "last_activity", Type: field.TypeTime, Nullable: true},
		{Name: "current_lesson", Type: field.TypeInt, Default: 0},
		{Name: "last_lesson_at", Type: field.TypeTime, Nullable: true},
		{Name: "completed_lessons", Type: field.TypeJSON},
		{Name: "achievements", Type: field.TypeJSON},
		{Name: "share_count", Type: field.TypeInt, Default: 0},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ProgressTable holds the schema information for the "progress" table.
	ProgressTable = &schema.Table{
		Name:       "progress",
		Columns:    ProgressColumns,
		PrimaryKey: []*schema.Column{ProgressColumns[0]},
	}

	// AwardEventsColumns holds the columns for the "award_events" table.
	AwardEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "amount", Type: field.TypeInt, Default: 0},
		{Name: "achievement_id", Type: field.TypeString, Default: ""},
		{Name: "reason", Type: field.TypeString, Default: ""},
		{Name: "dedup_key", Type: field.TypeString, Nullable: true},
		{Name: "xp_after", Type: field.TypeInt},
		{Name: "level_after", Type: field.TypeInt},
		{Name: "streak_after", Type: field.TypeInt},
	}
	// AwardEventsTable holds the schema information for the "award_events" table.
	AwardEventsTable = &schema.Table{
		Name:       "award_events",
		Columns:    AwardEventsColumns,
		PrimaryKey: []*schema.Column{AwardEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "awardevent_user_id_sequence", Columns: []*schema.Column{AwardEventsColumns[3], AwardEventsColumns[1]}},
			{Name: "awardevent_user_id_dedup_key", Unique: true, Columns: []*schema.Column{AwardEventsColumns[3], AwardEventsColumns[8]}},
			{Name: "awardevent_kind", Columns: []*schema.Column{AwardEventsColumns[4]}},
		},
	}

	// TestResultsColumns holds the columns for the "test_results" table.
	TestResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString},
		{Name: "correct", Type: field.TypeInt},
		{Name: "total", Type: field.TypeInt},
		{Name: "scores", Type: field.TypeJSON},
		{Name: "weak_areas", Type: field.TypeJSON},
		{Name: "plan", Type: field.TypeJSON},
	}
	// TestResultsTable holds the schema information for the "test_results" table.
	TestResultsTable = &schema.Table{
		Name:       "test_results",
		Columns:    TestResultsColumns,
		PrimaryKey: []*schema.Column{TestResultsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "testresult_user_id_sequence", Columns: []*schema.Column{TestResultsColumns[3], TestResultsColumns[1]}},
		},
	}

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[5]}},
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LLMRequestEventsColumns[2]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ProgressTable,
		AwardEventsTable,
		TestResultsTable,
		LLMRequestEventsTable,
	}
)
