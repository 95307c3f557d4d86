package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	countryRecordsTable = "country_learning_records"
	dailyEntriesTable   = "daily_challenge_entries"
	dailyStreakTable    = "daily_streak"
	answerEventsTable   = "answer_events"
	sessionEventsTable  = "session_events"
	hintEventsTable     = "hint_events"
	llmEventsTable      = "llm_request_events"
	sequenceTable       = "global_sequence"
)

var (
	countryRecordsColumns = []*schema.Column{
		{Name: "code", Type: field.TypeString, Size: 3},
		{Name: "last_checked", Type: field.TypeString, Nullable: true},
		{Name: "learning_rate", Type: field.TypeFloat64, Nullable: true},
		{Name: "updated_at", Type: field.TypeTime},
	}
	countryRecords = &schema.Table{
		Name:       countryRecordsTable,
		Columns:    countryRecordsColumns,
		PrimaryKey: []*schema.Column{countryRecordsColumns[0]},
	}

	dailyEntriesColumns = []*schema.Column{
		{Name: "date", Type: field.TypeString},
		{Name: "skill_score", Type: field.TypeFloat64},
		{Name: "score", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
	}
	dailyEntries = &schema.Table{
		Name:       dailyEntriesTable,
		Columns:    dailyEntriesColumns,
		PrimaryKey: []*schema.Column{dailyEntriesColumns[0]},
	}

	dailyStreakColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "current_streak", Type: field.TypeInt},
		{Name: "last_played", Type: field.TypeString, Nullable: true},
	}
	dailyStreak = &schema.Table{
		Name:       dailyStreakTable,
		Columns:    dailyStreakColumns,
		PrimaryKey: []*schema.Column{dailyStreakColumns[0]},
	}

	answerEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "country_code", Type: field.TypeString},
		{Name: "prompt_type", Type: field.TypeString},
		{Name: "answer", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "attempt", Type: field.TypeInt},
	}
	answerEvents = &schema.Table{
		Name:       answerEventsTable,
		Columns:    answerEventsColumns,
		PrimaryKey: []*schema.Column{answerEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "answerevent_session_id", Columns: []*schema.Column{answerEventsColumns[3]}},
			{Name: "answerevent_country_code", Columns: []*schema.Column{answerEventsColumns[5]}},
		},
	}

	sessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "quiz_set", Type: field.TypeString},
		{Name: "prompts", Type: field.TypeInt},
		{Name: "successful", Type: field.TypeInt},
	}
	sessionEvents = &schema.Table{
		Name:       sessionEventsTable,
		Columns:    sessionEventsColumns,
		PrimaryKey: []*schema.Column{sessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_session_id", Columns: []*schema.Column{sessionEventsColumns[3]}},
		},
	}

	hintEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "country_code", Type: field.TypeString},
		{Name: "hint_text", Type: field.TypeString, Size: 2048},
	}
	hintEvents = &schema.Table{
		Name:       hintEventsTable,
		Columns:    hintEventsColumns,
		PrimaryKey: []*schema.Column{hintEventsColumns[0]},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
	}
	llmEvents = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	globalSequence = &schema.Table{
		Name:       sequenceTable,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	// Tables lists every table managed by the migrator.
	Tables = []*schema.Table{
		countryRecords,
		dailyEntries,
		dailyStreak,
		answerEvents,
		sessionEvents,
		hintEvents,
		llmEvents,
		globalSequence,
	}
)
