package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollhub/internal/app/auth"
	"github.com/yigit/enrollhub/internal/app/importer"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/app/services"
	"github.com/yigit/enrollhub/internal/middleware"
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
	pkgauth "github.com/yigit/enrollhub/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidation()
}

// as authenticates every request of a test router as p.
func as(p auth.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetPrincipal(c, p)
		c.Next()
	}
}

var (
	coordinator = auth.Principal{ID: "C-1", Role: pkgauth.RoleCoordinator}
	student     = auth.Principal{ID: "S-1", Role: pkgauth.RoleStudent}
)

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder, data interface{}) dto.APIResponse {
	t.Helper()
	var envelope struct {
		dto.APIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	if data != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
	return envelope.APIResponse
}

func decodeFailure(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorDetail {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)
	return resp.Error
}

// --- import ---

type fakeImporter struct {
	result *services.ImportResult
	err    error
	body   string
}

func (f *fakeImporter) Import(_ context.Context, r io.Reader) (*services.ImportResult, error) {
	b, _ := io.ReadAll(r)
	f.body = string(b)
	return f.result, f.err
}

func uploadRequest(t *testing.T, filename, contentType, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import-csv", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func importRouter(imp StudentImporter, maxSize int64) *gin.Engine {
	r := gin.New()
	r.POST("/import-csv", NewImportController(imp, maxSize).ImportCSV)
	return r
}

func decodeImport(t *testing.T, w *httptest.ResponseRecorder) dto.ImportResponse {
	t.Helper()
	var resp dto.ImportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestImportCSV(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		ctype    string
		result   *services.ImportResult
		err      error
		status   int
		success  bool
		message  string
		imported int
		errors   []string
	}{
		{
			name: "partial success", filename: "roster.csv", ctype: "text/csv",
			result: &services.ImportResult{Imported: 2, Errors: []importer.RowError{{Row: 3, Message: "Invalid email format"}}},
			status: http.StatusOK, success: true, message: MsgImportSucceeded, imported: 2,
			errors: []string{"Row 3: Invalid email format"},
		},
		{
			name: "nothing imported", filename: "roster.txt", ctype: "text/plain",
			result: &services.ImportResult{Errors: []importer.RowError{{Row: 2, Message: "Invalid year level"}}},
			status: http.StatusUnprocessableEntity, message: MsgNothingImported,
			errors: []string{"Row 2: Invalid year level"},
		},
		{
			name: "empty file", filename: "roster.csv", ctype: "",
			result: &services.ImportResult{},
			status: http.StatusOK, success: true, message: MsgImportSucceeded, errors: []string{},
		},
		{
			name: "missing columns", filename: "roster.csv", ctype: "text/csv",
			err:    apperrors.NewValidationError("file", "Missing required columns: gender"),
			status: http.StatusUnprocessableEntity, message: "Missing required columns: gender", errors: []string{},
		},
		{
			name: "busy", filename: "roster.csv", ctype: "text/csv",
			err:    apperrors.NewTooManyRequestsError("too many concurrent imports"),
			status: http.StatusTooManyRequests, message: "too many concurrent imports", errors: []string{},
		},
		{
			name: "fatal keeps committed count", filename: "roster.csv", ctype: "text/csv",
			result: &services.ImportResult{Imported: 250},
			err:    errors.New("connection reset"),
			status: http.StatusInternalServerError, message: "Import failed: connection reset", imported: 250, errors: []string{},
		},
		{
			name: "wrong extension", filename: "roster.xlsx", ctype: "application/octet-stream",
			status: http.StatusUnprocessableEntity, message: importer.ErrUnsupportedFile.Error(), errors: []string{},
		},
		{
			name: "wrong media type", filename: "roster.csv", ctype: "image/png",
			status: http.StatusUnprocessableEntity, message: importer.ErrUnsupportedFile.Error(), errors: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := &fakeImporter{result: tt.result, err: tt.err}
			w := httptest.NewRecorder()
			importRouter(imp, 1<<20).ServeHTTP(w, uploadRequest(t, tt.filename, tt.ctype, "student_id\n"))

			assert.Equal(t, tt.status, w.Code)
			resp := decodeImport(t, w)
			assert.Equal(t, tt.success, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, tt.imported, resp.ImportedCount)
			assert.Equal(t, tt.errors, resp.Errors)
		})
	}
}

func TestImportCSVStreamsFileToImporter(t *testing.T) {
	imp := &fakeImporter{result: &services.ImportResult{Imported: 1}}
	w := httptest.NewRecorder()
	importRouter(imp, 1<<20).ServeHTTP(w, uploadRequest(t, "r.csv", "text/csv", "student_id,lname\nS-1,Cruz\n"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student_id,lname\nS-1,Cruz\n", imp.body)
}

func TestImportCSVRequiresFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/import-csv", strings.NewReader(""))
	w := httptest.NewRecorder()
	importRouter(&fakeImporter{}, 1<<20).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "The file field is required.", decodeImport(t, w).Message)
}

func TestImportCSVRejectsLargeFiles(t *testing.T) {
	imp := &fakeImporter{result: &services.ImportResult{}}
	w := httptest.NewRecorder()
	importRouter(imp, 16).ServeHTTP(w, uploadRequest(t, "r.csv", "text/csv", strings.Repeat("x", 64)))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "The file may not be greater than the allowed size.", decodeImport(t, w).Message)
	assert.Empty(t, imp.body)
}

// --- enrollments ---

type fakeEnrollments struct {
	enrolled   []string
	listParams services.ListEnrollmentsParams
	decideErr  error
}

func (f *fakeEnrollments) Enroll(_ context.Context, studentID string, trackID int) (*models.EnrollmentRequest, error) {
	f.enrolled = append(f.enrolled, studentID)
	return &models.EnrollmentRequest{ID: 7, StudentID: studentID, TrackID: trackID, Status: models.EnrollmentPending}, nil
}

func (f *fakeEnrollments) Decide(_ context.Context, id int64, token string) (*models.EnrollmentRequest, models.EnrollmentAction, error) {
	if f.decideErr != nil {
		return nil, "", f.decideErr
	}
	action, err := models.ParseEnrollmentAction(token)
	if err != nil {
		return nil, "", apperrors.NewBadRequestError(services.MsgInvalidAction)
	}
	return &models.EnrollmentRequest{ID: id, Status: action.TargetStatus()}, action, nil
}

func (f *fakeEnrollments) Cancel(_ context.Context, id int64, studentID string) (*models.EnrollmentRequest, error) {
	return &models.EnrollmentRequest{ID: id, StudentID: studentID, Status: models.EnrollmentCancelled}, nil
}

func (f *fakeEnrollments) List(_ context.Context, params services.ListEnrollmentsParams) ([]models.EnrollmentView, error) {
	f.listParams = params
	return nil, nil
}

func (f *fakeEnrollments) Latest(_ context.Context, studentID string) (*models.EnrollmentView, error) {
	return nil, apperrors.NewResourceNotFoundError(services.MsgNoEnrollment)
}

func (f *fakeEnrollments) AvailableTracks(context.Context) ([]models.Track, error) {
	return []models.Track{{TrackID: 1, TrackName: "Web Development"}}, nil
}

func enrollmentRouter(f *fakeEnrollments, p auth.Principal) *gin.Engine {
	c := NewEnrollmentController(f)
	r := gin.New()
	r.Use(as(p))
	r.POST("/enroll-track", c.EnrollTrack)
	r.POST("/cancel-enrollment", c.CancelEnrollment)
	r.GET("/enrollment-status/:student_id", c.EnrollmentStatus)
	r.GET("/enrollments", c.ListEnrollments)
	r.PUT("/enrollments/:id/:action", c.DecideEnrollment)
	r.GET("/available-tracks", c.AvailableTracks)
	return r
}

func TestEnrollTrackActsOnlyForSelf(t *testing.T) {
	f := &fakeEnrollments{}

	w := doJSON(enrollmentRouter(f, student), http.MethodPost, "/enroll-track", `{"student_id":"S-2","track_id":1}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, f.enrolled)

	w = doJSON(enrollmentRouter(f, student), http.MethodPost, "/enroll-track", `{"student_id":"S-1","track_id":1}`)
	assert.Equal(t, http.StatusOK, w.Code)
	var req models.EnrollmentRequest
	resp := decodeSuccess(t, w, &req)
	assert.Equal(t, "Enrollment request submitted successfully", resp.Message)
	assert.Equal(t, models.EnrollmentPending, req.Status)

	w = doJSON(enrollmentRouter(f, coordinator), http.MethodPost, "/enroll-track", `{"student_id":"S-2","track_id":1}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"S-1", "S-2"}, f.enrolled)
}

func TestEnrollTrackValidation(t *testing.T) {
	w := doJSON(enrollmentRouter(&fakeEnrollments{}, student), http.MethodPost, "/enroll-track", `{"student_id":"S-1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "track_id", decodeFailure(t, w).Field)
}

func TestDecideEnrollment(t *testing.T) {
	r := enrollmentRouter(&fakeEnrollments{}, coordinator)

	w := doJSON(r, http.MethodPut, "/enrollments/5/decline", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var req models.EnrollmentRequest
	assert.Equal(t, "Enrollment declined successfully", decodeSuccess(t, w, &req).Message)
	assert.Equal(t, models.EnrollmentDeclined, req.Status)

	w = doJSON(r, http.MethodPut, "/enrollments/5/approve", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.MsgInvalidAction, decodeFailure(t, w).Message)

	w = doJSON(r, http.MethodPut, "/enrollments/abc/accept", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r = enrollmentRouter(&fakeEnrollments{decideErr: apperrors.NewInvalidStateError(services.MsgAlreadyProcessed)}, coordinator)
	w = doJSON(r, http.MethodPut, "/enrollments/5/accept", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.MsgAlreadyProcessed, decodeFailure(t, w).Message)
}

func TestListEnrollmentsPassesCaller(t *testing.T) {
	f := &fakeEnrollments{}
	w := doJSON(enrollmentRouter(f, coordinator), http.MethodGet, "/enrollments", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.ListEnrollmentsParams{CoordinatorID: "C-1"}, f.listParams)
	assert.Contains(t, w.Body.String(), `"data":[]`)

	w = doJSON(enrollmentRouter(f, coordinator), http.MethodGet, "/enrollments?status=pending&apply_preferences=true", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.ListEnrollmentsParams{Status: "pending", CoordinatorID: "C-1", ApplyPreferences: true}, f.listParams)
}

func TestEnrollmentStatusAndCancel(t *testing.T) {
	r := enrollmentRouter(&fakeEnrollments{}, student)

	w := doJSON(r, http.MethodGet, "/enrollment-status/S-2", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, "/enrollment-status/S-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, services.MsgNoEnrollment, decodeFailure(t, w).Message)

	w = doJSON(r, http.MethodPost, "/cancel-enrollment", `{"id":3,"student_id":"S-1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/available-tracks", "")
	var tracks []models.Track
	decodeSuccess(t, w, &tracks)
	assert.Len(t, tracks, 1)
}

// --- students ---

type fakeStudents struct {
	StudentManager
	filter  models.StudentFilter
	created dto.CreateStudentRequest
}

func (f *fakeStudents) Create(_ context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	f.created = req
	if req.StudentID == "taken" {
		return nil, apperrors.NewValidationError("student_id", services.MsgStudentIDTaken)
	}
	return &models.Student{}, nil
}

func (f *fakeStudents) List(_ context.Context, filter models.StudentFilter) ([]models.Student, int64, error) {
	f.filter = filter
	return []models.Student{{}, {}}, 12, nil
}

func (f *fakeStudents) ArchiveAll(context.Context) (int64, error) { return 4, nil }

func (f *fakeStudents) Restore(_ context.Context, id string) error {
	return apperrors.NewResourceNotFoundError("Student not found")
}

func studentRouter(f *fakeStudents) *gin.Engine {
	c := NewStudentController(f)
	r := gin.New()
	r.POST("/students", c.CreateStudent)
	r.GET("/showStudents", c.ListStudents)
	r.DELETE("/students/archive-all", c.ArchiveAllStudents)
	r.GET("/restore-student/:id", c.RestoreStudent)
	return r
}

const newStudentBody = `{"student_id":"%s","lname":"Cruz","fname":"Ana","email":"ana@school.edu","phone_number":"09171234567","gender":"Female","course":"BSIT","year_level":"First Year","section":"A"}`

func TestCreateStudent(t *testing.T) {
	f := &fakeStudents{}
	r := studentRouter(f)

	w := doJSON(r, http.MethodPost, "/students", strings.Replace(newStudentBody, "%s", "2021-0001", 1))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Cruz", f.created.LastName)

	w = doJSON(r, http.MethodPost, "/students", strings.Replace(newStudentBody, "%s", "taken", 1))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	detail := decodeFailure(t, w)
	assert.Equal(t, "student_id", detail.Field)
	assert.Equal(t, services.MsgStudentIDTaken, detail.Message)

	w = doJSON(r, http.MethodPost, "/students", `{"student_id":"x","lname":"Cruz"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListStudentsPagination(t *testing.T) {
	f := &fakeStudents{}
	w := doJSON(studentRouter(f), http.MethodGet, "/showStudents?page=2&per_page=5&search=ana&show_archived=true", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StudentFilter{Search: "ana", ShowArchived: true, Offset: 5, Limit: 5}, f.filter)

	var page struct {
		Items      []models.Student   `json:"items"`
		Pagination dto.PaginationInfo `json:"pagination"`
	}
	decodeSuccess(t, w, &page)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, int64(12), page.Pagination.TotalItems)
}

func TestBulkStatusAndRestore(t *testing.T) {
	r := studentRouter(&fakeStudents{})

	w := doJSON(r, http.MethodDelete, "/students/archive-all", "")
	var count dto.CountResponse
	decodeSuccess(t, w, &count)
	assert.Equal(t, int64(4), count.Affected)

	w = doJSON(r, http.MethodGet, "/restore-student/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- coordinators, tracks, auth, health ---

type fakeCoordinators struct {
	prefs models.CoordinatorPreference
}

func (f *fakeCoordinators) Create(_ context.Context, req dto.CreateCoordinatorRequest) (*models.Coordinator, error) {
	return &models.Coordinator{CoordinatorID: req.CoordinatorID}, nil
}

func (f *fakeCoordinators) Preferences(_ context.Context, id string) (*models.CoordinatorPreference, error) {
	f.prefs.CoordinatorID = id
	return &f.prefs, nil
}

func (f *fakeCoordinators) UpdatePreferences(_ context.Context, id string, req dto.UpdatePreferencesRequest) (*models.CoordinatorPreference, error) {
	if req.ShowAcceptedEnrollments != nil {
		f.prefs.ShowAcceptedEnrollments = *req.ShowAcceptedEnrollments
	}
	return f.Preferences(context.Background(), id)
}

func TestPreferencesOwnIDOnly(t *testing.T) {
	c := NewCoordinatorController(&fakeCoordinators{})
	r := gin.New()
	r.Use(as(coordinator))
	r.GET("/coordinator/:id/preferences", c.GetPreferences)
	r.PUT("/coordinator/:id/preferences", c.UpdatePreferences)

	w := doJSON(r, http.MethodGet, "/coordinator/C-2/preferences", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPut, "/coordinator/C-1/preferences", `{"show_accepted_enrollments":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	var prefs models.CoordinatorPreference
	decodeSuccess(t, w, &prefs)
	assert.True(t, prefs.ShowAcceptedEnrollments)
	assert.False(t, prefs.ShowRejectedEnrollments)
}

type fakeTracks struct {
	TrackManager
}

func (fakeTracks) Delete(_ context.Context, id int) error {
	if id == 1 {
		return apperrors.NewConflictError("Track has enrollment requests and cannot be deleted")
	}
	return apperrors.NewResourceNotFoundError("Track not found")
}

func TestDeleteTrack(t *testing.T) {
	r := gin.New()
	r.DELETE("/DeleteTrack/:id", NewTrackController(fakeTracks{}).DeleteTrack)

	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodDelete, "/DeleteTrack/1", "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, "/DeleteTrack/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodDelete, "/DeleteTrack/x", "").Code)
}

type fakeAuth struct{}

func (fakeAuth) StudentLogin(_ context.Context, req dto.StudentLoginRequest) (*dto.AuthResponse, error) {
	if req.Password != "password123" {
		return nil, apperrors.NewUnauthorizedError("Invalid password")
	}
	return &dto.AuthResponse{Token: dto.TokenResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 3600}}, nil
}

func (fakeAuth) CoordinatorLogin(context.Context, dto.CoordinatorLoginRequest) (*dto.AuthResponse, error) {
	return nil, apperrors.NewResourceNotFoundError("Coordinator not found.")
}

func TestLogin(t *testing.T) {
	c := NewAuthController(fakeAuth{}, testLogger())
	r := gin.New()
	r.POST("/login", c.StudentLogin)
	r.POST("/coordinator/login", c.CoordinatorLogin)

	w := doJSON(r, http.MethodPost, "/login", `{"student_id":"S-1","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login dto.AuthResponse
	decodeSuccess(t, w, &login)
	assert.Equal(t, "tok", login.Token.AccessToken)

	w = doJSON(r, http.MethodPost, "/login", `{"student_id":"S-1","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid password", decodeFailure(t, w).Message)

	w = doJSON(r, http.MethodPost, "/coordinator/login", `{"coordinator_id":"C-9","password":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/ok", NewHealthController(fakePinger{}).Health)
	r.GET("/down", NewHealthController(fakePinger{err: errors.New("dial tcp: refused")}).Health)

	w := doJSON(r, http.MethodGet, "/ok", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var health dto.HealthResponse
	decodeSuccess(t, w, &health)
	assert.Equal(t, "ok", health.Database)

	w = doJSON(r, http.MethodGet, "/down", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unreachable")
}

func testLogger() zerolog.Logger { return zerolog.Nop() }
