package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gtix/helpdesk/internal/domain"
	"github.com/gtix/helpdesk/internal/events"
	"github.com/gtix/helpdesk/internal/repository"
)

type userRepoMock struct {
	createFn           func(ctx context.Context, user *domain.User) error
	updateFn           func(ctx context.Context, user *domain.User) error
	getByIDFn          func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFn       func(ctx context.Context, email string) (*domain.User, error)
	getByEmailPermsFn  func(ctx context.Context, email string) (*domain.User, []domain.Permission, error)
	getRoleByNameFn    func(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	getDepartmentRefFn func(ctx context.Context, id int64) (*domain.Department, error)
	findByEmployeeFn   func(ctx context.Context, code string, excludeID int64) (*domain.User, error)
	listActiveByRoleFn func(ctx context.Context, role domain.RoleName) ([]domain.UserRef, error)
}

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *userRepoMock) Update(ctx context.Context, user *domain.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *userRepoMock) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *userRepoMock) GetByEmailWithPermissions(ctx context.Context, email string) (*domain.User, []domain.Permission, error) {
	if m.getByEmailPermsFn != nil {
		return m.getByEmailPermsFn(ctx, email)
	}
	return nil, nil, pgx.ErrNoRows
}

func (m *userRepoMock) GetRoleByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	if m.getRoleByNameFn != nil {
		return m.getRoleByNameFn(ctx, name)
	}
	return nil, pgx.ErrNoRows
}

func (m *userRepoMock) GetDepartmentRef(ctx context.Context, id int64) (*domain.Department, error) {
	if m.getDepartmentRefFn != nil {
		return m.getDepartmentRefFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *userRepoMock) FindByEmployeeCode(ctx context.Context, code string, excludeID int64) (*domain.User, error) {
	if m.findByEmployeeFn != nil {
		return m.findByEmployeeFn(ctx, code, excludeID)
	}
	return nil, pgx.ErrNoRows
}

func (m *userRepoMock) ListActiveByRole(ctx context.Context, role domain.RoleName) ([]domain.UserRef, error) {
	if m.listActiveByRoleFn != nil {
		return m.listActiveByRoleFn(ctx, role)
	}
	return nil, nil
}

type assigneeRepoMock struct {
	listByDepartmentFn func(ctx context.Context, departmentID int64) ([]domain.Assignee, error)
	getDefaultFn       func(ctx context.Context, departmentID int64) (*domain.Assignee, error)
	getByIDFn          func(ctx context.Context, id int64) (*domain.Assignee, error)
	findByUserFn       func(ctx context.Context, userID int64) (*domain.Assignee, error)
	replaceFn          func(ctx context.Context, departmentID int64, userIDs []int64, defaultUserID int64) error
}

func (m *assigneeRepoMock) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Assignee, error) {
	if m.listByDepartmentFn != nil {
		return m.listByDepartmentFn(ctx, departmentID)
	}
	return nil, nil
}

func (m *assigneeRepoMock) GetDefaultByDepartment(ctx context.Context, departmentID int64) (*domain.Assignee, error) {
	if m.getDefaultFn != nil {
		return m.getDefaultFn(ctx, departmentID)
	}
	return nil, pgx.ErrNoRows
}

func (m *assigneeRepoMock) GetByID(ctx context.Context, id int64) (*domain.Assignee, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *assigneeRepoMock) FindByUser(ctx context.Context, userID int64) (*domain.Assignee, error) {
	if m.findByUserFn != nil {
		return m.findByUserFn(ctx, userID)
	}
	return nil, pgx.ErrNoRows
}

func (m *assigneeRepoMock) Replace(ctx context.Context, departmentID int64, userIDs []int64, defaultUserID int64) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, departmentID, userIDs, defaultUserID)
	}
	return nil
}

type ticketRepoMock struct {
	nextTicketNumberFn  func(ctx context.Context) (int64, error)
	createFn            func(ctx context.Context, ticket *domain.Ticket) error
	getByIDFn           func(ctx context.Context, id int64) (*domain.Ticket, error)
	listWithFilterFn    func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error)
	countFn             func(ctx context.Context, filter repository.TicketFilter) (int64, error)
	countByDepartmentFn func(ctx context.Context, departmentID int64) (int64, error)
	updateStatusFn      func(ctx context.Context, id int64, status domain.TicketStatus) error
	updatePriorityFn    func(ctx context.Context, id int64, priority domain.TicketPriority) error
	updateFieldsFn      func(ctx context.Context, id int64, patch repository.TicketPatch) error
	deleteFn            func(ctx context.Context, id int64) error
}

func (m *ticketRepoMock) NextTicketNumber(ctx context.Context) (int64, error) {
	if m.nextTicketNumberFn != nil {
		return m.nextTicketNumberFn(ctx)
	}
	return 1, nil
}

func (m *ticketRepoMock) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.createFn != nil {
		return m.createFn(ctx, ticket)
	}
	return nil
}

func (m *ticketRepoMock) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *ticketRepoMock) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if m.listWithFilterFn != nil {
		return m.listWithFilterFn(ctx, filter)
	}
	return nil, nil
}

func (m *ticketRepoMock) Count(ctx context.Context, filter repository.TicketFilter) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, filter)
	}
	return 0, nil
}

func (m *ticketRepoMock) CountByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	if m.countByDepartmentFn != nil {
		return m.countByDepartmentFn(ctx, departmentID)
	}
	return 0, nil
}

func (m *ticketRepoMock) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *ticketRepoMock) UpdatePriority(ctx context.Context, id int64, priority domain.TicketPriority) error {
	if m.updatePriorityFn != nil {
		return m.updatePriorityFn(ctx, id, priority)
	}
	return nil
}

func (m *ticketRepoMock) UpdateFields(ctx context.Context, id int64, patch repository.TicketPatch) error {
	if m.updateFieldsFn != nil {
		return m.updateFieldsFn(ctx, id, patch)
	}
	return nil
}

func (m *ticketRepoMock) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type departmentRepoMock struct {
	createFn                func(ctx context.Context, dept *domain.Department) error
	renameFn                func(ctx context.Context, id int64, name string) error
	deleteFn                func(ctx context.Context, id int64) error
	getByIDFn               func(ctx context.Context, id int64) (*domain.Department, error)
	findByNameInsensitiveFn func(ctx context.Context, name string, excludeID int64) (*domain.Department, error)
	listFn                  func(ctx context.Context, search string) ([]domain.Department, error)
	listPagedFn             func(ctx context.Context, page repository.DepartmentPage) ([]domain.Department, error)
	countFn                 func(ctx context.Context, search string) (int64, error)
	getManagerFn            func(ctx context.Context, departmentID int64) (*domain.DepartmentManager, error)
	createManagerFn         func(ctx context.Context, mgr *domain.DepartmentManager) error
	setManagerActiveFn      func(ctx context.Context, id int64, active bool) error
}

func (m *departmentRepoMock) Create(ctx context.Context, dept *domain.Department) error {
	if m.createFn != nil {
		return m.createFn(ctx, dept)
	}
	return nil
}

func (m *departmentRepoMock) Rename(ctx context.Context, id int64, name string) error {
	if m.renameFn != nil {
		return m.renameFn(ctx, id, name)
	}
	return nil
}

func (m *departmentRepoMock) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *departmentRepoMock) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *departmentRepoMock) FindByNameInsensitive(ctx context.Context, name string, excludeID int64) (*domain.Department, error) {
	if m.findByNameInsensitiveFn != nil {
		return m.findByNameInsensitiveFn(ctx, name, excludeID)
	}
	return nil, pgx.ErrNoRows
}

func (m *departmentRepoMock) List(ctx context.Context, search string) ([]domain.Department, error) {
	if m.listFn != nil {
		return m.listFn(ctx, search)
	}
	return nil, nil
}

func (m *departmentRepoMock) ListPaged(ctx context.Context, page repository.DepartmentPage) ([]domain.Department, error) {
	if m.listPagedFn != nil {
		return m.listPagedFn(ctx, page)
	}
	return nil, nil
}

func (m *departmentRepoMock) Count(ctx context.Context, search string) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, search)
	}
	return 0, nil
}

func (m *departmentRepoMock) GetManager(ctx context.Context, departmentID int64) (*domain.DepartmentManager, error) {
	if m.getManagerFn != nil {
		return m.getManagerFn(ctx, departmentID)
	}
	return nil, pgx.ErrNoRows
}

func (m *departmentRepoMock) CreateManager(ctx context.Context, mgr *domain.DepartmentManager) error {
	if m.createManagerFn != nil {
		return m.createManagerFn(ctx, mgr)
	}
	return nil
}

func (m *departmentRepoMock) SetManagerActive(ctx context.Context, id int64, active bool) error {
	if m.setManagerActiveFn != nil {
		return m.setManagerActiveFn(ctx, id, active)
	}
	return nil
}

type reviewerRepoMock struct {
	listByDepartmentFn func(ctx context.Context, departmentID int64) ([]domain.Reviewer, error)
	setDefaultFn       func(ctx context.Context, departmentID, userID int64) error
}

func (m *reviewerRepoMock) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Reviewer, error) {
	if m.listByDepartmentFn != nil {
		return m.listByDepartmentFn(ctx, departmentID)
	}
	return nil, nil
}

func (m *reviewerRepoMock) SetDefault(ctx context.Context, departmentID, userID int64) error {
	if m.setDefaultFn != nil {
		return m.setDefaultFn(ctx, departmentID, userID)
	}
	return nil
}

type commentRepoMock struct {
	createFn       func(ctx context.Context, comment *domain.Comment) error
	getByIDFn      func(ctx context.Context, id int64) (*domain.Comment, error)
	listByTicketFn func(ctx context.Context, ticketID int64) ([]domain.Comment, error)
	updateFn       func(ctx context.Context, id int64, body string) error
	deleteFn       func(ctx context.Context, id int64) error
}

func (m *commentRepoMock) Create(ctx context.Context, comment *domain.Comment) error {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	return nil
}

func (m *commentRepoMock) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *commentRepoMock) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	if m.listByTicketFn != nil {
		return m.listByTicketFn(ctx, ticketID)
	}
	return nil, nil
}

func (m *commentRepoMock) Update(ctx context.Context, id int64, body string) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, body)
	}
	return nil
}

func (m *commentRepoMock) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// recordingDispatcher collects published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.Event, len(d.events))
	copy(out, d.events)
	return out
}

// recordingSender captures outbound mail, optionally failing every send.
type recordingSender struct {
	mu    sync.Mutex
	sent  []sentMail
	errFn func() error
	done  chan struct{}
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func newRecordingSender() *recordingSender {
	return &recordingSender{done: make(chan struct{}, 16)}
}

func (s *recordingSender) Send(to, subject, htmlBody string) error {
	s.mu.Lock()
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	s.mu.Unlock()
	s.done <- struct{}{}
	if s.errFn != nil {
		return s.errFn()
	}
	return nil
}

func (s *recordingSender) waitForSend(timeout time.Duration) bool {
	select {
	case <-s.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (s *recordingSender) messages() []sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sentMail, len(s.sent))
	copy(out, s.sent)
	return out
}
