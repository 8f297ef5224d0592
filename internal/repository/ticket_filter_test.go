package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/helpdesk-api/internal/domain"
)

func TestWhereClausesAdminQueue(t *testing.T) {
	filter := TicketFilter{ViewerID: "admin-1", ViewerAdmin: true, Tab: TabQueue}

	clauses, args := filter.whereClauses()

	assert.Equal(t, []string{"t.status='open'", "t.assigned_to_user_id IS NULL"}, clauses)
	assert.Empty(t, args)
}

func TestWhereClausesNonAdminVisibility(t *testing.T) {
	filter := TicketFilter{ViewerID: "agent-1", Tab: TabAll}

	clauses, args := filter.whereClauses()

	require.Len(t, clauses, 1)
	assert.Contains(t, clauses[0], "t.status='open'")
	assert.Contains(t, clauses[0], "t.assigned_to_user_id=$1")
	assert.Contains(t, clauses[0], "t.created_by_user_id=$1")
	assert.Equal(t, []any{"agent-1"}, args)
}

func TestWhereClausesAdminAllUnrestricted(t *testing.T) {
	filter := TicketFilter{ViewerID: "admin-1", ViewerAdmin: true, Tab: TabAll}

	clauses, args := filter.whereClauses()

	assert.Empty(t, clauses)
	assert.Empty(t, args)
}

func TestWhereClausesMineTab(t *testing.T) {
	filter := TicketFilter{ViewerID: "admin-1", ViewerAdmin: true, Tab: TabMine}

	clauses, args := filter.whereClauses()

	require.Len(t, clauses, 1)
	assert.Contains(t, clauses[0], "t.assigned_to_user_id=$1")
	assert.Contains(t, clauses[0], "t.created_by_user_id=$1")
	assert.Equal(t, []any{"admin-1"}, args)
}

func TestWhereClausesEmptyTabDefaultsToQueue(t *testing.T) {
	filter := TicketFilter{ViewerAdmin: true}

	clauses, _ := filter.whereClauses()

	assert.Contains(t, clauses, "t.status='open'")
	assert.Contains(t, clauses, "t.assigned_to_user_id IS NULL")
}

func TestWhereClausesFieldFilters(t *testing.T) {
	status := domain.TicketStatusInProgress
	priority := domain.TicketPriorityHigh
	departmentID := "dep-1"
	assignee := "agent-2"

	filter := TicketFilter{
		ViewerAdmin:      true,
		Tab:              TabAll,
		Status:           &status,
		Priority:         &priority,
		DepartmentID:     &departmentID,
		AssignedToUserID: &assignee,
	}

	clauses, args := filter.whereClauses()

	require.Len(t, clauses, 4)
	assert.Equal(t, "t.status=$1", clauses[0])
	assert.Equal(t, "t.priority=$2", clauses[1])
	assert.Equal(t, "t.department_id=$3", clauses[2])
	assert.Equal(t, "t.assigned_to_user_id=$4", clauses[3])
	assert.Equal(t, []any{status, priority, departmentID, assignee}, args)
}

func TestWhereClausesSearch(t *testing.T) {
	search := "  printer jam  "
	filter := TicketFilter{ViewerAdmin: true, Tab: TabAll, Search: &search}

	clauses, args := filter.whereClauses()

	require.Len(t, clauses, 1)
	assert.Contains(t, clauses[0], "t.title ILIKE $1")
	assert.Contains(t, clauses[0], "t.description ILIKE $1")
	require.Len(t, args, 1)
	assert.Equal(t, "%printer jam%", args[0])
}

func TestWhereClausesBlankSearchIgnored(t *testing.T) {
	search := "   "
	filter := TicketFilter{ViewerAdmin: true, Tab: TabAll, Search: &search}

	clauses, args := filter.whereClauses()

	assert.Empty(t, clauses)
	assert.Empty(t, args)
}

func TestWhereClausesPlaceholdersMatchArgs(t *testing.T) {
	status := domain.TicketStatusOpen
	search := "vpn"
	filter := TicketFilter{
		ViewerID: "agent-1",
		Tab:      TabMine,
		Status:   &status,
		Search:   &search,
	}

	clauses, args := filter.whereClauses()

	joined := strings.Join(clauses, " AND ")
	for i := range args {
		assert.Contains(t, joined, fmt.Sprintf("$%d", i+1))
	}
}

func TestTicketTabValid(t *testing.T) {
	assert.True(t, TabQueue.Valid())
	assert.True(t, TabMine.Valid())
	assert.True(t, TabAll.Valid())
	assert.False(t, TicketTab("mine").Valid())
	assert.False(t, TicketTab("").Valid())
}
