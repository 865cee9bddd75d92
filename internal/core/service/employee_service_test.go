package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffhub/employee-api/internal/core/domain"
	"github.com/staffhub/employee-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubEmployeeRepo struct {
	employees map[string]*domain.Employee
	deptNames map[string]string
	seq       int
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{
		employees: make(map[string]*domain.Employee),
		deptNames: make(map[string]string),
	}
}

func cloneEmployee(e *domain.Employee) *domain.Employee {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	for _, existing := range r.employees {
		if existing.Email == e.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.seq++
	created := cloneEmployee(e)
	created.ID = fmt.Sprintf("emp-%03d", r.seq)
	r.employees[created.ID] = cloneEmployee(created)
	return created, nil
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, e *domain.Employee) error {
	if _, ok := r.employees[e.ID]; !ok {
		return domain.ErrEmployeeNotFound
	}
	for id, existing := range r.employees {
		if id != e.ID && existing.Email == e.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.employees[e.ID] = cloneEmployee(e)
	return nil
}

func (r *stubEmployeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.employees[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}

func (r *stubEmployeeRepo) List(_ context.Context, filter ports.EmployeeFilter, limit, offset int64) ([]ports.EmployeeRow, int64, error) {
	var matched []*domain.Employee
	for _, e := range r.employees {
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Keyword)) {
			continue
		}
		if filter.DepartmentID != "" && e.DepartmentID != filter.DepartmentID {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	count := int64(len(matched))
	if offset >= count {
		return nil, count, nil
	}
	matched = matched[offset:]
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}

	rows := make([]ports.EmployeeRow, 0, len(matched))
	for _, e := range matched {
		rows = append(rows, ports.EmployeeRow{
			Employee:       *cloneEmployee(e),
			DepartmentName: r.deptNames[e.DepartmentID],
		})
	}
	return rows, count, nil
}

func (r *stubEmployeeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.employees)), nil
}

func (r *stubEmployeeRepo) Distribution(_ context.Context) ([]ports.DistributionRow, error) {
	counts := make(map[string]int64)
	for _, e := range r.employees {
		// Dangling foreign keys drop out, as an inner join would.
		if _, ok := r.deptNames[e.DepartmentID]; !ok {
			continue
		}
		counts[e.DepartmentID]++
	}

	rows := make([]ports.DistributionRow, 0, len(counts))
	for id, n := range counts {
		rows = append(rows, ports.DistributionRow{DepartmentID: id, Name: r.deptNames[id], Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows, nil
}

type stubDepartmentRepo struct {
	departments map[string]*domain.Department
	seq         int
}

func newStubDepartmentRepo() *stubDepartmentRepo {
	return &stubDepartmentRepo{departments: make(map[string]*domain.Department)}
}

func cloneDepartment(d *domain.Department) *domain.Department {
	if d == nil {
		return nil
	}
	clone := *d
	return &clone
}

func (r *stubDepartmentRepo) Create(_ context.Context, d *domain.Department) (*domain.Department, error) {
	r.seq++
	created := cloneDepartment(d)
	created.ID = fmt.Sprintf("dept-%03d", r.seq)
	r.departments[created.ID] = cloneDepartment(created)
	return created, nil
}

func (r *stubDepartmentRepo) FindByID(_ context.Context, id string) (*domain.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, domain.ErrDepartmentNotFound
	}
	return cloneDepartment(d), nil
}

func (r *stubDepartmentRepo) FindAll(_ context.Context) ([]domain.Department, error) {
	all := make([]domain.Department, 0, len(r.departments))
	for _, d := range r.departments {
		all = append(all, *cloneDepartment(d))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (r *stubDepartmentRepo) Update(_ context.Context, d *domain.Department) error {
	if _, ok := r.departments[d.ID]; !ok {
		return domain.ErrDepartmentNotFound
	}
	r.departments[d.ID] = cloneDepartment(d)
	return nil
}

func (r *stubDepartmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.departments[id]; !ok {
		return domain.ErrDepartmentNotFound
	}
	delete(r.departments, id)
	return nil
}

func (r *stubDepartmentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.departments)), nil
}

// stubPhotoStore records stored paths and reports removals on a channel so
// tests can observe fire-and-forget cleanup.
type stubPhotoStore struct {
	seq     int
	removed chan string
}

func newStubPhotoStore() *stubPhotoStore {
	return &stubPhotoStore{removed: make(chan string, 8)}
}

func (s *stubPhotoStore) Store(_ io.Reader, originalName string) (string, error) {
	s.seq++
	return fmt.Sprintf("uploads/photo-%03d%s", s.seq, strings.ToLower(filepath.Ext(originalName))), nil
}

func (s *stubPhotoStore) Remove(storedPath string) error {
	s.removed <- storedPath
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type employeeFixture struct {
	svc    *EmployeeService
	repo   *stubEmployeeRepo
	depts  *stubDepartmentRepo
	photos *stubPhotoStore
	deptID string
}

func newEmployeeFixture(t *testing.T) *employeeFixture {
	t.Helper()

	repo := newStubEmployeeRepo()
	depts := newStubDepartmentRepo()
	photos := newStubPhotoStore()

	dept, err := depts.Create(context.Background(), &domain.Department{Name: "Engineering"})
	if err != nil {
		t.Fatalf("seeding department failed: %v", err)
	}
	repo.deptNames[dept.ID] = dept.Name

	return &employeeFixture{
		svc:    NewEmployeeService(repo, depts, photos, zerolog.Nop()),
		repo:   repo,
		depts:  depts,
		photos: photos,
		deptID: dept.ID,
	}
}

func (f *employeeFixture) create(t *testing.T, name, email string) *domain.Employee {
	t.Helper()
	created, err := f.svc.Create(context.Background(), ports.CreateEmployeeInput{
		Name:         name,
		Email:        email,
		Phone:        "555-0100",
		DepartmentID: f.deptID,
		JobRole:      "Engineer",
	})
	if err != nil {
		t.Fatalf("create %s failed: %v", name, err)
	}
	return created
}

func awaitRemoval(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case path := <-ch:
		return path
	case <-time.After(2 * time.Second):
		t.Fatalf("photo removal never happened")
		return ""
	}
}

// ---------------------------------------------------------------------------
// Create / Get
// ---------------------------------------------------------------------------

func TestEmployeeService_CreateAndGet(t *testing.T) {
	f := newEmployeeFixture(t)

	created := f.create(t, "Alice Smith", "alice@example.com")
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	found, err := f.svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found.Name != "Alice Smith" || found.Email != "alice@example.com" {
		t.Fatalf("unexpected employee: %+v", found)
	}
}

func TestEmployeeService_Create_Validation(t *testing.T) {
	f := newEmployeeFixture(t)

	var ve *domain.ValidationError
	_, err := f.svc.Create(context.Background(), ports.CreateEmployeeInput{Email: "not-an-email"})
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Violations) != 5 {
		t.Fatalf("expected 5 violations, got %v", ve.Violations)
	}
}

func TestEmployeeService_Create_UnknownDepartment(t *testing.T) {
	f := newEmployeeFixture(t)

	var ve *domain.ValidationError
	_, err := f.svc.Create(context.Background(), ports.CreateEmployeeInput{
		Name:         "Bob",
		Email:        "bob@example.com",
		Phone:        "555-0100",
		DepartmentID: "dept-999",
		JobRole:      "Engineer",
	})
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unknown department, got %v", err)
	}
}

func TestEmployeeService_Create_DuplicateEmail(t *testing.T) {
	f := newEmployeeFixture(t)

	f.create(t, "Alice", "alice@example.com")
	_, err := f.svc.Create(context.Background(), ports.CreateEmployeeInput{
		Name:         "Other Alice",
		Email:        "alice@example.com",
		Phone:        "555-0100",
		DepartmentID: f.deptID,
		JobRole:      "Engineer",
	})
	if err != domain.ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestEmployeeService_List_Pagination(t *testing.T) {
	f := newEmployeeFixture(t)

	for i := 1; i <= 12; i++ {
		f.create(t, fmt.Sprintf("Employee %02d", i), fmt.Sprintf("e%02d@example.com", i))
	}

	page1, err := f.svc.List(context.Background(), ports.EmployeeFilter{}, 1)
	if err != nil {
		t.Fatalf("list page 1 failed: %v", err)
	}
	if len(page1.Items) != 5 || page1.Page != 1 || page1.Pages != 3 {
		t.Fatalf("unexpected page 1: items=%d page=%d pages=%d", len(page1.Items), page1.Page, page1.Pages)
	}
	if page1.Items[0].Name != "Employee 01" {
		t.Fatalf("expected stable ordering, got %s first", page1.Items[0].Name)
	}
	if page1.Items[0].DepartmentName != "Engineering" {
		t.Fatalf("expected department name on rows, got %q", page1.Items[0].DepartmentName)
	}

	page3, err := f.svc.List(context.Background(), ports.EmployeeFilter{}, 3)
	if err != nil {
		t.Fatalf("list page 3 failed: %v", err)
	}
	if len(page3.Items) != 2 {
		t.Fatalf("expected 2 items on the last page, got %d", len(page3.Items))
	}

	beyond, err := f.svc.List(context.Background(), ports.EmployeeFilter{}, 9)
	if err != nil {
		t.Fatalf("list beyond last page failed: %v", err)
	}
	if len(beyond.Items) != 0 || beyond.Pages != 3 {
		t.Fatalf("expected empty page with total pages intact, got items=%d pages=%d", len(beyond.Items), beyond.Pages)
	}

	clamped, err := f.svc.List(context.Background(), ports.EmployeeFilter{}, 0)
	if err != nil {
		t.Fatalf("list page 0 failed: %v", err)
	}
	if clamped.Page != 1 || len(clamped.Items) != 5 {
		t.Fatalf("expected page 0 to clamp to 1, got page=%d items=%d", clamped.Page, len(clamped.Items))
	}
}

func TestEmployeeService_List_KeywordCaseInsensitive(t *testing.T) {
	f := newEmployeeFixture(t)

	f.create(t, "Alice Smith", "alice@example.com")
	f.create(t, "Alicia Keys", "alicia@example.com")
	f.create(t, "Bob Jones", "bob@example.com")

	res, err := f.svc.List(context.Background(), ports.EmployeeFilter{Keyword: "ALI"}, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 matches for keyword, got %d", len(res.Items))
	}
	if res.Pages != 1 {
		t.Fatalf("expected pages to reflect the filtered count, got %d", res.Pages)
	}
}

func TestEmployeeService_List_DepartmentFilter(t *testing.T) {
	f := newEmployeeFixture(t)

	other, err := f.depts.Create(context.Background(), &domain.Department{Name: "Sales"})
	if err != nil {
		t.Fatalf("seeding department failed: %v", err)
	}
	f.repo.deptNames[other.ID] = other.Name

	f.create(t, "Alice", "alice@example.com")
	if _, err := f.svc.Create(context.Background(), ports.CreateEmployeeInput{
		Name:         "Bob",
		Email:        "bob@example.com",
		Phone:        "555-0100",
		DepartmentID: other.ID,
		JobRole:      "Account Executive",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	res, err := f.svc.List(context.Background(), ports.EmployeeFilter{DepartmentID: other.ID}, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Name != "Bob" {
		t.Fatalf("unexpected filter result: %+v", res.Items)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestEmployeeService_Update_Partial(t *testing.T) {
	f := newEmployeeFixture(t)

	created := f.create(t, "Alice", "alice@example.com")

	phone := "555-0199"
	updated, err := f.svc.Update(context.Background(), created.ID, ports.UpdateEmployeeInput{Phone: &phone})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Phone != "555-0199" {
		t.Fatalf("phone not updated: %s", updated.Phone)
	}
	if updated.Name != "Alice" || updated.Email != "alice@example.com" {
		t.Fatalf("omitted fields must keep their values: %+v", updated)
	}
}

func TestEmployeeService_Update_InvalidEmail(t *testing.T) {
	f := newEmployeeFixture(t)

	created := f.create(t, "Alice", "alice@example.com")

	bad := "nope"
	var ve *domain.ValidationError
	if _, err := f.svc.Update(context.Background(), created.ID, ports.UpdateEmployeeInput{Email: &bad}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEmployeeService_Update_UnknownEmployee(t *testing.T) {
	f := newEmployeeFixture(t)

	name := "Nobody"
	if _, err := f.svc.Update(context.Background(), "emp-999", ports.UpdateEmployeeInput{Name: &name}); err != domain.ErrEmployeeNotFound {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestEmployeeService_Update_ReplacePhotoRemovesOld(t *testing.T) {
	f := newEmployeeFixture(t)

	created, err := f.svc.Create(context.Background(), ports.CreateEmployeeInput{
		Name:         "Alice",
		Email:        "alice@example.com",
		Phone:        "555-0100",
		DepartmentID: f.deptID,
		JobRole:      "Engineer",
		Photo:        &ports.PhotoUpload{Content: strings.NewReader("old-bytes"), Filename: "old.png"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	oldPath := created.ProfilePhoto
	if oldPath == "" {
		t.Fatalf("expected stored photo path")
	}

	updated, err := f.svc.Update(context.Background(), created.ID, ports.UpdateEmployeeInput{
		Photo: &ports.PhotoUpload{Content: strings.NewReader("new-bytes"), Filename: "new.png"},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ProfilePhoto == oldPath {
		t.Fatalf("expected a new photo path")
	}

	if removed := awaitRemoval(t, f.photos.removed); removed != oldPath {
		t.Fatalf("expected removal of %s, got %s", oldPath, removed)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestEmployeeService_Delete_RemovesRecordAndPhoto(t *testing.T) {
	f := newEmployeeFixture(t)

	created, err := f.svc.Create(context.Background(), ports.CreateEmployeeInput{
		Name:         "Alice",
		Email:        "alice@example.com",
		Phone:        "555-0100",
		DepartmentID: f.deptID,
		JobRole:      "Engineer",
		Photo:        &ports.PhotoUpload{Content: strings.NewReader("bytes"), Filename: "pic.jpg"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), created.ID); err != domain.ErrEmployeeNotFound {
		t.Fatalf("expected ErrEmployeeNotFound after delete, got %v", err)
	}

	if removed := awaitRemoval(t, f.photos.removed); removed != created.ProfilePhoto {
		t.Fatalf("expected removal of %s, got %s", created.ProfilePhoto, removed)
	}
}

func TestEmployeeService_Delete_Unknown(t *testing.T) {
	f := newEmployeeFixture(t)

	if err := f.svc.Delete(context.Background(), "emp-999"); err != domain.ErrEmployeeNotFound {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}
