package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gtix/helpdesk/internal/auth"
	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/events"
	"github.com/gtix/helpdesk/internal/repository"
	"github.com/gtix/helpdesk/pkg/util"
)

func employeePrincipal(id int64) *auth.Principal {
	return &auth.Principal{ID: id, Name: "Employee", Email: "employee@example.com", Role: domain.RoleEmployee}
}

func itSupportDept() *domain.Department {
	return &domain.Department{ID: 7, Name: "IT Support"}
}

func defaultAssignee() *domain.Assignee {
	return &domain.Assignee{
		ID:           42,
		UserID:       9,
		DepartmentID: 7,
		IsDefault:    true,
		User:         &domain.UserRef{ID: 9, Name: "Dana", Email: "dana@example.com"},
	}
}

func newTicketService(tickets *ticketRepoMock, departments *departmentRepoMock, assignees *assigneeRepoMock, dispatcher events.Dispatcher) *TicketService {
	return NewTicketService(tickets, departments, assignees, dispatcher, zap.NewNop())
}

func TestTicketService_Create_Success(t *testing.T) {
	departments := &departmentRepoMock{
		getByIDFn: func(_ context.Context, id int64) (*domain.Department, error) {
			require.Equal(t, int64(7), id)
			return itSupportDept(), nil
		},
	}
	assignees := &assigneeRepoMock{
		getDefaultFn: func(_ context.Context, departmentID int64) (*domain.Assignee, error) {
			require.Equal(t, int64(7), departmentID)
			return defaultAssignee(), nil
		},
	}
	var created *domain.Ticket
	tickets := &ticketRepoMock{
		nextTicketNumberFn: func(context.Context) (int64, error) { return 12, nil },
		createFn: func(_ context.Context, ticket *domain.Ticket) error {
			ticket.ID = 100
			created = ticket
			return nil
		},
	}
	dispatcher := &recordingDispatcher{}

	svc := newTicketService(tickets, departments, assignees, dispatcher)
	ticket, err := svc.Create(context.Background(), employeePrincipal(3), CreateTicketInput{
		DepartmentID: 7,
		Title:        "Laptop will not boot",
		Description:  "Black screen on power up",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "TKT-0012", ticket.TicketNumber)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, int64(3), ticket.UserID)
	require.NotNil(t, ticket.AssigneeID)
	assert.Equal(t, int64(42), *ticket.AssigneeID)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
	payload, ok := published[0].Payload.(events.TicketCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, "TKT-0012", payload.TicketNumber)
	assert.Equal(t, "dana@example.com", payload.AssigneeEmail)
	assert.Equal(t, "IT Support", payload.DepartmentName)
}

func TestTicketService_Create_DepartmentNotFound(t *testing.T) {
	svc := newTicketService(&ticketRepoMock{}, &departmentRepoMock{}, &assigneeRepoMock{}, &recordingDispatcher{})

	_, err := svc.Create(context.Background(), employeePrincipal(3), CreateTicketInput{
		DepartmentID: 999,
		Title:        "Anything",
	})

	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeNotFound))
}

func TestTicketService_Create_NoDefaultAssignee(t *testing.T) {
	departments := &departmentRepoMock{
		getByIDFn: func(context.Context, int64) (*domain.Department, error) { return itSupportDept(), nil },
	}
	svc := newTicketService(&ticketRepoMock{}, departments, &assigneeRepoMock{}, &recordingDispatcher{})

	_, err := svc.Create(context.Background(), employeePrincipal(3), CreateTicketInput{
		DepartmentID: 7,
		Title:        "Anything",
	})

	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeInvalidState))
}

func TestTicketService_Create_NumberSequence(t *testing.T) {
	departments := &departmentRepoMock{
		getByIDFn: func(context.Context, int64) (*domain.Department, error) { return itSupportDept(), nil },
	}
	assignees := &assigneeRepoMock{
		getDefaultFn: func(context.Context, int64) (*domain.Assignee, error) { return defaultAssignee(), nil },
	}
	var counter int64
	tickets := &ticketRepoMock{
		nextTicketNumberFn: func(context.Context) (int64, error) {
			counter++
			return counter, nil
		},
	}
	svc := newTicketService(tickets, departments, assignees, &recordingDispatcher{})

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		ticket, err := svc.Create(context.Background(), employeePrincipal(3), CreateTicketInput{
			DepartmentID: 7,
			Title:        fmt.Sprintf("Issue %d", i),
		})
		require.NoError(t, err)
		assert.False(t, seen[ticket.TicketNumber], "duplicate ticket number %s", ticket.TicketNumber)
		seen[ticket.TicketNumber] = true
	}
	assert.True(t, seen["TKT-0001"])
	assert.True(t, seen["TKT-0005"])
}

func TestTicketService_Create_InvalidPriority(t *testing.T) {
	svc := newTicketService(&ticketRepoMock{}, &departmentRepoMock{}, &assigneeRepoMock{}, &recordingDispatcher{})

	_, err := svc.Create(context.Background(), employeePrincipal(3), CreateTicketInput{
		DepartmentID: 7,
		Title:        "Anything",
		Priority:     "IMMEDIATE",
	})

	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeValidation))
}

func TestTicketService_List_NonAdminFiltersApplied(t *testing.T) {
	requestedUser := int64(5)
	requestedAssignee := int64(42)
	tests := []struct {
		name      string
		principal *auth.Principal
		input     ListTicketsInput
		check     func(t *testing.T, filter repository.TicketFilter)
	}{
		{
			name:      "employee filters by another user and department",
			principal: employeePrincipal(3),
			input:     ListTicketsInput{UserID: &requestedUser, DepartmentIDs: []int64{2}},
			check: func(t *testing.T, filter repository.TicketFilter) {
				require.NotNil(t, filter.UserID)
				assert.Equal(t, int64(5), *filter.UserID)
				assert.Equal(t, []int64{2}, filter.DepartmentIDs)
				assert.Nil(t, filter.AssigneeID)
			},
		},
		{
			name:      "assignee filters by assignee id",
			principal: &auth.Principal{ID: 9, Role: domain.RoleAssignee, AssigneeID: &requestedAssignee},
			input:     ListTicketsInput{AssigneeID: &requestedAssignee},
			check: func(t *testing.T, filter repository.TicketFilter) {
				require.NotNil(t, filter.AssigneeID)
				assert.Equal(t, int64(42), *filter.AssigneeID)
				assert.Nil(t, filter.UserID)
			},
		},
		{
			name:      "no filters means no identity scoping",
			principal: employeePrincipal(3),
			input:     ListTicketsInput{},
			check: func(t *testing.T, filter repository.TicketFilter) {
				assert.Nil(t, filter.UserID)
				assert.Nil(t, filter.AssigneeID)
				assert.Empty(t, filter.DepartmentIDs)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured repository.TicketFilter
			tickets := &ticketRepoMock{
				countFn: func(_ context.Context, filter repository.TicketFilter) (int64, error) {
					captured = filter
					return 0, nil
				},
			}
			svc := newTicketService(tickets, &departmentRepoMock{}, &assigneeRepoMock{}, &recordingDispatcher{})

			_, err := svc.List(context.Background(), tt.principal, tt.input)
			require.NoError(t, err)
			tt.check(t, captured)
		})
	}
}

func TestTicketService_List_AdminSeesEverything(t *testing.T) {
	callerSupplied := int64(3)
	var captured repository.TicketFilter
	tickets := &ticketRepoMock{
		countFn: func(_ context.Context, filter repository.TicketFilter) (int64, error) {
			captured = filter
			return 25, nil
		},
		listWithFilterFn: func(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
			return make([]domain.Ticket, 10), nil
		},
	}
	svc := newTicketService(tickets, &departmentRepoMock{}, &assigneeRepoMock{}, &recordingDispatcher{})

	admin := &auth.Principal{ID: 1, Role: domain.RoleAdmin}
	result, err := svc.List(context.Background(), admin, ListTicketsInput{
		UserID:        &callerSupplied,
		AssigneeID:    &callerSupplied,
		DepartmentIDs: []int64{7},
		Page:          1,
		PerPage:       10,
	})

	require.NoError(t, err)
	assert.Nil(t, captured.UserID, "admin listing must not scope by user")
	assert.Nil(t, captured.AssigneeID, "admin listing must not scope by assignee")
	assert.Empty(t, captured.DepartmentIDs, "admin listing must not scope by department")
	assert.Equal(t, int64(25), result.TotalTickets)
	assert.Equal(t, int64(3), result.TotalPages)
}

func TestTicketService_UpdateStatus_PublishesEvent(t *testing.T) {
	assigneeID := int64(42)
	ticket := &domain.Ticket{
		ID: 100, TicketNumber: "TKT-0012", UserID: 3, DepartmentID: 7,
		AssigneeID: &assigneeID, Title: "Laptop will not boot",
		Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityMedium,
		UserName: "Casey", UserEmail: "casey@example.com",
	}
	tickets := &ticketRepoMock{
		getByIDFn: func(context.Context, int64) (*domain.Ticket, error) { return ticket, nil },
	}
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(tickets, &departmentRepoMock{}, &assigneeRepoMock{}, dispatcher)

	principal := &auth.Principal{ID: 9, Role: domain.RoleAssignee, AssigneeID: &assigneeID}
	updated, err := svc.UpdateStatus(context.Background(), principal, 100, domain.TicketStatusInProgress)

	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	published := dispatcher.published()
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusInProgress, payload.NewStatus)
	assert.Equal(t, "casey@example.com", payload.CreatorEmail)
}

func TestTicketService_UpdateStatus_ReopenClosedTicket(t *testing.T) {
	ticket := &domain.Ticket{ID: 100, UserID: 3, Status: domain.TicketStatusClosed}
	tickets := &ticketRepoMock{
		getByIDFn: func(context.Context, int64) (*domain.Ticket, error) { return ticket, nil },
	}
	svc := newTicketService(tickets, &departmentRepoMock{}, &assigneeRepoMock{}, &recordingDispatcher{})

	updated, err := svc.UpdateStatus(context.Background(), employeePrincipal(3), 100, domain.TicketStatusOpen)

	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, updated.Status)
}

func TestTicketService_UpdateStatus_NoopWhenUnchanged(t *testing.T) {
	ticket := &domain.Ticket{ID: 100, UserID: 3, Status: domain.TicketStatusOpen}
	tickets := &ticketRepoMock{
		getByIDFn: func(context.Context, int64) (*domain.Ticket, error) { return ticket, nil },
	}
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(tickets, &departmentRepoMock{}, &assigneeRepoMock{}, dispatcher)

	_, err := svc.UpdateStatus(context.Background(), employeePrincipal(3), 100, domain.TicketStatusOpen)

	require.NoError(t, err)
	assert.Empty(t, dispatcher.published())
}

func TestTicketService_UpdateStatus_InvalidValue(t *testing.T) {
	svc := newTicketService(&ticketRepoMock{}, &departmentRepoMock{}, &assigneeRepoMock{}, &recordingDispatcher{})

	_, err := svc.UpdateStatus(context.Background(), employeePrincipal(3), 100, "ARCHIVED")

	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeValidation))
}

func TestTicketService_Reassign_RejectsCrossDepartment(t *testing.T) {
	ticket := &domain.Ticket{ID: 100, UserID: 3, DepartmentID: 7}
	tickets := &ticketRepoMock{
		getByIDFn: func(context.Context, int64) (*domain.Ticket, error) { return ticket, nil },
	}
	assignees := &assigneeRepoMock{
		getByIDFn: func(context.Context, int64) (*domain.Assignee, error) {
			return &domain.Assignee{ID: 50, DepartmentID: 8}, nil
		},
	}
	svc := newTicketService(tickets, &departmentRepoMock{}, assignees, &recordingDispatcher{})

	_, err := svc.Reassign(context.Background(), &auth.Principal{ID: 1, Role: domain.RoleAdmin}, 100, 50)

	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeValidation))
}

func TestTicketService_Delete_CreatorOnly(t *testing.T) {
	ticket := &domain.Ticket{ID: 100, UserID: 3}
	tickets := &ticketRepoMock{
		getByIDFn: func(context.Context, int64) (*domain.Ticket, error) { return ticket, nil },
	}
	svc := newTicketService(tickets, &departmentRepoMock{}, &assigneeRepoMock{}, &recordingDispatcher{})

	err := svc.Delete(context.Background(), employeePrincipal(4), 100)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeForbidden))

	err = svc.Delete(context.Background(), employeePrincipal(3), 100)
	assert.NoError(t, err)
}
