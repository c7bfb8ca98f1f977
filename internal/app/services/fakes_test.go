package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/repositories"
	"github.com/yigit/enrollhub/internal/pkg/auth"
)

var testLogger = zerolog.Nop()

// fakeHasher prefixes instead of hashing so tests can read stored digests.
type fakeHasher struct {
	hashCalls int
	err       error
}

func (h *fakeHasher) Hash(plain string) (string, error) {
	h.hashCalls++
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plain, nil
}

func (h *fakeHasher) Verify(plain, digest string) bool {
	return digest == "hashed:"+plain
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(identifier string, role auth.Role) (string, int, error) {
	return "token-" + string(role) + "-" + identifier, 3600, nil
}

// fakeImportStore keeps imported students in memory. raceIDs are ids that
// ExistingKeys does not report but InsertBatch rejects, as when a concurrent
// import commits first.
type fakeImportStore struct {
	mu sync.Mutex

	ids    map[string]bool
	emails map[string]bool

	raceIDs   map[string]bool
	rejectIDs map[string]bool
	fatalIDs  map[string]bool
	enterErr  error

	relaxed     []bool
	batchSizes  []int
	existingArg [][]string
}

func newFakeImportStore() *fakeImportStore {
	return &fakeImportStore{
		ids:       map[string]bool{},
		emails:    map[string]bool{},
		raceIDs:   map[string]bool{},
		rejectIDs: map[string]bool{},
		fatalIDs:  map[string]bool{},
	}
}

func (s *fakeImportStore) WithRelaxedConstraints(ctx context.Context, relax bool, fn func(ctx context.Context, w repositories.ImportWriter) error) error {
	s.relaxed = append(s.relaxed, relax)
	if s.enterErr != nil {
		return s.enterErr
	}
	return fn(ctx, s)
}

func (s *fakeImportStore) ExistingKeys(ctx context.Context, ids, emails []string) (map[string]bool, map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existingArg = append(s.existingArg, ids)

	foundIDs, foundEmails := map[string]bool{}, map[string]bool{}
	for _, id := range ids {
		if s.ids[id] {
			foundIDs[id] = true
		}
	}
	for _, e := range emails {
		if s.emails[e] {
			foundEmails[e] = true
		}
	}
	return foundIDs, foundEmails, nil
}

func (s *fakeImportStore) InsertBatch(ctx context.Context, students []models.NewStudent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchSizes = append(s.batchSizes, len(students))

	for _, st := range students {
		switch {
		case s.fatalIDs[st.StudentID]:
			return errors.New("connection reset by peer")
		case s.ids[st.StudentID] || s.raceIDs[st.StudentID]:
			return fmt.Errorf("%w: unique violation", repositories.ErrDuplicateStudentID)
		case s.emails[st.Email]:
			return fmt.Errorf("%w: unique violation", repositories.ErrDuplicateEmail)
		case s.rejectIDs[st.StudentID]:
			return fmt.Errorf("%w: value too long", repositories.ErrRejectedRow)
		}
	}
	for _, st := range students {
		s.ids[st.StudentID] = true
		s.emails[st.Email] = true
	}
	return nil
}

func (s *fakeImportStore) storedIDs() []string {
	var out []string
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// fakeStudentStore is an in-memory StudentStore, StudentLookup and StudentAccountStore.
type fakeStudentStore struct {
	students  map[string]*models.Student
	accounts  map[string]*models.StudentAccount
	created   []models.NewStudent
	createErr error
	updates   []models.StudentUpdate
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{
		students: map[string]*models.Student{},
		accounts: map[string]*models.StudentAccount{},
	}
}

func (s *fakeStudentStore) add(id string, status models.StudentStatus, passwordHash string) {
	s.students[id] = &models.Student{
		StudentDetails: models.StudentDetails{StudentID: id, LastName: "Cruz", FirstName: "Ana", Email: strings.ToLower(id) + "@school.edu", Status: status},
		AccountStatus:  status,
	}
	s.accounts[id] = &models.StudentAccount{StudentID: id, PasswordHash: passwordHash, Status: status}
}

func (s *fakeStudentStore) Create(ctx context.Context, st models.NewStudent) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.accounts[st.StudentID]; ok {
		return repositories.ErrDuplicateStudentID
	}
	for _, existing := range s.students {
		if existing.Email == st.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	s.created = append(s.created, st)
	s.add(st.StudentID, models.StudentActive, st.PasswordHash)
	s.students[st.StudentID].Email = st.Email
	return nil
}

func (s *fakeStudentStore) GetByID(ctx context.Context, id string) (*models.Student, error) {
	st, ok := s.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return st, nil
}

func (s *fakeStudentStore) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := s.accounts[id]
	return ok, nil
}

func (s *fakeStudentStore) GetAccount(ctx context.Context, id string) (*models.StudentAccount, error) {
	acc, ok := s.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return acc, nil
}

func (s *fakeStudentStore) UpdatePassword(ctx context.Context, id, hash string) error {
	acc, ok := s.accounts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	acc.PasswordHash = hash
	return nil
}

func (s *fakeStudentStore) Update(ctx context.Context, id string, u models.StudentUpdate) error {
	st, ok := s.students[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s.updates = append(s.updates, u)
	if u.LastName != nil {
		st.LastName = *u.LastName
	}
	if u.Email != nil {
		st.Email = *u.Email
	}
	return nil
}

func (s *fakeStudentStore) SetStatus(ctx context.Context, id string, status models.StudentStatus) error {
	st, ok := s.students[id]
	if !ok {
		return repositories.ErrNotFound
	}
	st.Status = status
	st.AccountStatus = status
	s.accounts[id].Status = status
	return nil
}

func (s *fakeStudentStore) SetStatusAll(ctx context.Context, from, to models.StudentStatus) (int64, error) {
	var n int64
	for id, st := range s.students {
		if st.AccountStatus == from {
			st.Status, st.AccountStatus = to, to
			s.accounts[id].Status = to
			n++
		}
	}
	return n, nil
}

func (s *fakeStudentStore) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error) {
	want := models.StudentActive
	if filter.ShowArchived {
		want = models.StudentArchived
	}
	var out []models.Student
	for _, st := range s.students {
		if st.Status == want && (filter.Search == "" || strings.Contains(st.StudentID, filter.Search)) {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, int64(len(out)), nil
}

// fakeTrackStore is an in-memory TrackStore.
type fakeTrackStore struct {
	tracks map[int]*models.Track
	inUse  map[int]bool
}

func newFakeTrackStore(tracks ...models.Track) *fakeTrackStore {
	s := &fakeTrackStore{tracks: map[int]*models.Track{}, inUse: map[int]bool{}}
	for i := range tracks {
		t := tracks[i]
		s.tracks[t.TrackID] = &t
	}
	return s
}

func (s *fakeTrackStore) Create(ctx context.Context, t *models.Track) error {
	if _, ok := s.tracks[t.TrackID]; ok {
		return repositories.ErrDuplicateID
	}
	s.tracks[t.TrackID] = t
	return nil
}

func (s *fakeTrackStore) GetByID(ctx context.Context, id int) (*models.Track, error) {
	t, ok := s.tracks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return t, nil
}

func (s *fakeTrackStore) List(ctx context.Context) ([]models.Track, error) {
	out := []models.Track{}
	for _, t := range s.tracks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrackID < out[j].TrackID })
	return out, nil
}

func (s *fakeTrackStore) Update(ctx context.Context, id int, u models.TrackUpdate) (*models.Track, error) {
	t, ok := s.tracks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if u.TrackName != nil {
		t.TrackName = *u.TrackName
	}
	if u.Description != nil {
		t.Description = u.Description
	}
	return t, nil
}

func (s *fakeTrackStore) Delete(ctx context.Context, id int) error {
	if _, ok := s.tracks[id]; !ok {
		return repositories.ErrNotFound
	}
	if s.inUse[id] {
		return repositories.ErrTrackInUse
	}
	delete(s.tracks, id)
	return nil
}

// fakeEnrollmentStore mirrors the repository's conditional updates.
type fakeEnrollmentStore struct {
	tracks   *fakeTrackStore
	requests []*models.EnrollmentRequest
	filters  []models.EnrollmentFilter
	// raceOnCreate makes CreatePending behave as if the unique index fired.
	raceOnCreate bool
}

func (s *fakeEnrollmentStore) CreatePending(ctx context.Context, studentID string, trackID int) (*models.EnrollmentRequest, error) {
	if s.raceOnCreate {
		return nil, repositories.ErrActiveEnrollmentExists
	}
	for _, r := range s.requests {
		if r.StudentID == studentID && r.Status.Active() {
			return nil, repositories.ErrActiveEnrollmentExists
		}
	}
	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return nil, repositories.ErrTrackNotFound
	}
	req := &models.EnrollmentRequest{
		ID:        int64(len(s.requests) + 1),
		StudentID: studentID,
		TrackID:   trackID,
		TrackName: track.TrackName,
		Status:    models.EnrollmentPending,
	}
	s.requests = append(s.requests, req)
	return req, nil
}

func (s *fakeEnrollmentStore) find(id int64) *models.EnrollmentRequest {
	for _, r := range s.requests {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *fakeEnrollmentStore) Transition(ctx context.Context, id int64, to models.EnrollmentStatus) (*models.EnrollmentRequest, error) {
	r := s.find(id)
	if r == nil {
		return nil, repositories.ErrNotFound
	}
	if r.Status != models.EnrollmentPending {
		return nil, repositories.ErrNotPending
	}
	r.Status = to
	return r, nil
}

func (s *fakeEnrollmentStore) Cancel(ctx context.Context, id int64, studentID string) (*models.EnrollmentRequest, error) {
	r := s.find(id)
	if r == nil || r.StudentID != studentID {
		return nil, repositories.ErrNotFound
	}
	if r.Status != models.EnrollmentPending {
		return nil, repositories.ErrNotPending
	}
	r.Status = models.EnrollmentCancelled
	return r, nil
}

func (s *fakeEnrollmentStore) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentView, error) {
	s.filters = append(s.filters, filter)
	out := []models.EnrollmentView{}
	for i := len(s.requests) - 1; i >= 0; i-- {
		r := s.requests[i]
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, r.Status) {
			continue
		}
		out = append(out, models.EnrollmentView{EnrollmentRequest: *r})
	}
	return out, nil
}

func containsStatus(statuses []models.EnrollmentStatus, s models.EnrollmentStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (s *fakeEnrollmentStore) LatestForStudent(ctx context.Context, studentID string) (*models.EnrollmentView, error) {
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].StudentID == studentID {
			return &models.EnrollmentView{EnrollmentRequest: *s.requests[i]}, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// fakeCoordinatorStore is an in-memory CoordinatorStore and CoordinatorAccountStore.
type fakeCoordinatorStore struct {
	coordinators map[string]*models.Coordinator
	prefs        map[string]*models.CoordinatorPreference
}

func newFakeCoordinatorStore() *fakeCoordinatorStore {
	return &fakeCoordinatorStore{
		coordinators: map[string]*models.Coordinator{},
		prefs:        map[string]*models.CoordinatorPreference{},
	}
}

func (s *fakeCoordinatorStore) Create(ctx context.Context, c *models.Coordinator) error {
	if _, ok := s.coordinators[c.CoordinatorID]; ok {
		return repositories.ErrDuplicateID
	}
	for _, existing := range s.coordinators {
		if existing.Email == c.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	s.coordinators[c.CoordinatorID] = c
	return nil
}

func (s *fakeCoordinatorStore) GetByID(ctx context.Context, id string) (*models.Coordinator, error) {
	c, ok := s.coordinators[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

func (s *fakeCoordinatorStore) UpdatePassword(ctx context.Context, id, hash string) error {
	c, ok := s.coordinators[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.PasswordHash = hash
	return nil
}

func (s *fakeCoordinatorStore) GetOrCreatePreferences(ctx context.Context, id string) (*models.CoordinatorPreference, error) {
	if _, ok := s.coordinators[id]; !ok {
		return nil, repositories.ErrNotFound
	}
	p, ok := s.prefs[id]
	if !ok {
		p = &models.CoordinatorPreference{CoordinatorID: id}
		s.prefs[id] = p
	}
	copied := *p
	return &copied, nil
}

func (s *fakeCoordinatorStore) UpsertPreferences(ctx context.Context, pref models.CoordinatorPreference) (*models.CoordinatorPreference, error) {
	if _, ok := s.coordinators[pref.CoordinatorID]; !ok {
		return nil, repositories.ErrNotFound
	}
	s.prefs[pref.CoordinatorID] = &pref
	copied := pref
	return &copied, nil
}

// fakeInstructorStore is an in-memory InstructorStore.
type fakeInstructorStore struct {
	instructors map[string]*models.Instructor
}

func (s *fakeInstructorStore) Create(ctx context.Context, i *models.Instructor) error {
	if _, ok := s.instructors[i.InstructorID]; ok {
		return repositories.ErrDuplicateID
	}
	s.instructors[i.InstructorID] = i
	return nil
}

func (s *fakeInstructorStore) GetByID(ctx context.Context, id string) (*models.Instructor, error) {
	i, ok := s.instructors[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return i, nil
}

func (s *fakeInstructorStore) List(ctx context.Context) ([]models.Instructor, error) {
	out := []models.Instructor{}
	for _, i := range s.instructors {
		out = append(out, *i)
	}
	return out, nil
}

func (s *fakeInstructorStore) Update(ctx context.Context, id string, u models.InstructorUpdate) (*models.Instructor, error) {
	i, ok := s.instructors[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if u.LastName != nil {
		i.LastName = *u.LastName
	}
	if u.Phone != nil {
		i.Phone = u.Phone
	}
	return i, nil
}

func (s *fakeInstructorStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.instructors[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.instructors, id)
	return nil
}
