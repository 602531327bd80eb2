package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	callsTable       = "api_calls"
	llmRequestsTable = "llm_requests"
	questionsTable   = "questions"
)

var (
	// apiCallsColumns holds one row per client request, including retries.
	apiCallsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "op", Type: field.TypeString},
		{Name: "method", Type: field.TypeString},
		{Name: "path", Type: field.TypeString},
		{Name: "request_id", Type: field.TypeString, Default: ""},
		{Name: "status", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "response_bytes", Type: field.TypeInt, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_kind", Type: field.TypeString, Default: ""},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	apiCallsSchema = &schema.Table{
		Name:       callsTable,
		Columns:    apiCallsColumns,
		PrimaryKey: []*schema.Column{apiCallsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "apicall_op", Unique: false, Columns: []*schema.Column{apiCallsColumns[3]}},
			{Name: "apicall_success", Unique: false, Columns: []*schema.Column{apiCallsColumns[10]}},
		},
	}

	llmRequestsColumns = []*schema.Column{
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
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestsSchema = &schema.Table{
		Name:       llmRequestsTable,
		Columns:    llmRequestsColumns,
		PrimaryKey: []*schema.Column{llmRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_purpose", Unique: false, Columns: []*schema.Column{llmRequestsColumns[5]}},
			{Name: "llmrequest_model", Unique: false, Columns: []*schema.Column{llmRequestsColumns[4]}},
		},
	}

	questionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "question", Type: field.TypeString, Size: 2147483647},
		{Name: "answer", Type: field.TypeString, Size: 2147483647},
		{Name: "tags", Type: field.TypeString, Size: 255, Nullable: true},
		{Name: "difficulty", Type: field.TypeString, Size: 50, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	questionsSchema = &schema.Table{
		Name:       questionsTable,
		Columns:    questionsColumns,
		PrimaryKey: []*schema.Column{questionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "question_difficulty", Unique: false, Columns: []*schema.Column{questionsColumns[4]}},
		},
	}

	// tables lists every table managed by auto-migration.
	tables = []*schema.Table{
		apiCallsSchema,
		llmRequestsSchema,
		questionsSchema,
	}
)
