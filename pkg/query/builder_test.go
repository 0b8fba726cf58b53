package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/clarus/pkg/query"
)

var projection = query.
	NewProjectionMap("public", "guided_sessions", "s").
	Project("id", "ID").
	Project("workflow_id", "WorkflowID").
	Project("created_at", "CreatedAt")

func TestBuilder_Build(t *testing.T) {
	sql, args := query.NewBuilder(projection,
		query.SortField{Field: "CreatedAt", Descending: true},
		query.SortField{Field: "ID", Descending: true},
	).Build()

	assert.Equal(t,
		"SELECT s.id, s.workflow_id, s.created_at FROM public.guided_sessions s ORDER BY s.created_at DESC, s.id DESC",
		sql,
	)
	assert.Empty(t, args)
}

func TestBuilder_WhereAndLimit(t *testing.T) {
	workflow := "renewal"
	sql, args := query.NewBuilder(projection).
		WhereEquals("WorkflowID", workflow).
		WhereEquals("ID", nil).
		OrderBy(query.SortField{Field: "CreatedAt"}).
		Limit(10).
		Build()

	assert.Equal(t,
		"SELECT s.id, s.workflow_id, s.created_at FROM public.guided_sessions s WHERE s.workflow_id = $1 ORDER BY s.created_at ASC LIMIT 10",
		sql,
	)
	assert.Equal(t, []any{"renewal"}, args)
}

func TestBuilder_BuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(projection).BuildSingle("ID", "abc")

	assert.Equal(t, "SELECT s.id, s.workflow_id, s.created_at FROM public.guided_sessions s WHERE s.id = $1", sql)
	assert.Equal(t, []any{"abc"}, args)
}

func TestBuilder_BuildCount(t *testing.T) {
	sql, args := query.NewBuilder(projection).
		WhereEquals("WorkflowID", "renewal").
		WhereEquals("CreatedAt", "2025-01-01").
		BuildCount()

	assert.Equal(t, "SELECT COUNT(*) FROM public.guided_sessions s WHERE s.workflow_id = $1 AND s.created_at = $2", sql)
	assert.Equal(t, []any{"renewal", "2025-01-01"}, args)
}

func TestProjection_UnknownFieldPanics(t *testing.T) {
	assert.Panics(t, func() {
		projection.Column("Missing")
	})
}
