package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/gradhub/thesisdesk/core"
	"github.com/gradhub/thesisdesk/core/committee"
	"github.com/gradhub/thesisdesk/core/progress"
	"github.com/gradhub/thesisdesk/core/topic"
	"github.com/gradhub/thesisdesk/core/user"
	emailsvc "github.com/gradhub/thesisdesk/services/email"
	dummydb "github.com/gradhub/thesisdesk/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

func testCtx() context.Context { return context.Background() }

func init() {
	// error payloads are asserted in their production shape
	core.Conf.Debug = false
	core.Conf.TestMode = true
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

type testDeps struct {
	usrRepo  user.Repository
	cmtRepo  committee.Repository
	topRepo  topic.Repository
	progRepo progress.Repository

	usrSvc  user.Service
	cmtSvc  committee.Service
	topSvc  topic.Service
	progSvc progress.Service
}

// nopLogger drops everything; API tests assert on responses, not logs.
type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) (Server, *testDeps) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	mailSvc := emailsvc.NewConsoleServiceMock()

	deps := &testDeps{
		usrRepo:  dummydb.NewUserRepository(db),
		cmtRepo:  dummydb.NewCommitteeRepository(db),
		topRepo:  dummydb.NewTopicRepository(db),
		progRepo: dummydb.NewProgressRepository(db),
	}
	deps.usrSvc = user.NewServiceMock(deps.usrRepo, mailSvc)
	deps.cmtSvc = committee.NewService(deps.cmtRepo, mailSvc)
	deps.topSvc = topic.NewService(deps.topRepo)
	deps.progSvc = progress.NewService(deps.progRepo)

	srv := NewServer(&Options{
		Addr:           ":0",
		DisableReqLogs: true,
		Logger:         nopLogger{},
		UserSvc:        deps.usrSvc,
		CommitteeSvc:   deps.cmtSvc,
		TopicSvc:       deps.topSvc,
		ProgressSvc:    deps.progSvc,
	})
	return srv, deps
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func createUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  &isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(testCtx(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func createCommittee(
	t *testing.T,
	repo committee.Repository,
	code, name, semester string,
	members []committee.Member,
	assignments []committee.Assignment,
	defenseDate time.Time,
	room, startTime, endTime string,
) committee.Committee {
	t.Helper()
	now := time.Now().UTC()
	cmt := committee.Committee{
		Code:        code,
		Name:        name,
		Semester:    semester,
		Members:     members,
		Assignments: assignments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !defenseDate.IsZero() {
		cmt.DefenseDate = null.TimeFrom(defenseDate.UTC())
		cmt.Room = null.StringFrom(room)
		cmt.StartTime = null.NewString(startTime, startTime != "")
		cmt.EndTime = null.NewString(endTime, endTime != "")
	}
	cmt, err := repo.CreateCommittee(testCtx(), cmt)
	if err != nil {
		t.Fatalf("createCommittee() failed: %v", err)
	}
	return cmt
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	t.Helper()
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
