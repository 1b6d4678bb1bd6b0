package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gradhub/thesisdesk/core/topic"
	"github.com/gradhub/thesisdesk/core/user"
)

func createTopic(t *testing.T, repo topic.Repository, code, studentCode, supervisorCode, status string) topic.Topic {
	t.Helper()
	now := time.Now().UTC()
	tpc := topic.Topic{
		Code:           code,
		Title:          "Đề tài " + code,
		StudentCode:    studentCode,
		SupervisorCode: supervisorCode,
		Semester:       "2025.1",
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	tpc, err := repo.CreateTopic(testCtx(), tpc)
	if err != nil {
		t.Fatalf("createTopic() failed: %v", err)
	}
	return tpc
}

func Test_topicApi_register(t *testing.T) {
	srv, deps := setup(t)

	admin := createUser(t, deps.usrRepo, "Admin", "admin", "admin@test.edu", "LolC@t123", user.AdminRoles, true)
	lecturer := createUser(t, deps.usrRepo, "Lecturer", "lecturer", "gv@test.edu", "LolC@t123", user.LecturerRoles, true)
	lecturer.LecturerCode = "GV01"
	student := createUser(t, deps.usrRepo, "Student", "student", "sv@test.edu", "LolC@t123", user.StudentRoles, true)
	student.StudentCode = "SV01"

	newTopic := func(code, studentCode string) []byte {
		return marshallObj(t, topic.NewTopic{
			Code:           code,
			Title:          "Hệ thống quản lý luận văn",
			StudentCode:    studentCode,
			SupervisorCode: "GV01",
			Semester:       "2025.1",
		})
	}

	tests := []httpTest{
		{name: "auth required", body: newTopic("DT01", "SV01"), wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "lecturer cannot register", token: getToken(t, lecturer), body: newTopic("DT01", "SV01"),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "student registers own", token: getToken(t, student), body: newTopic("DT01", "SV01"), wantCode: http.StatusCreated, extra: "SV01"},
		// the claimed student code always wins over the payload's
		{name: "student cannot spoof another", token: getToken(t, student), body: newTopic("DT02", "SV99"), wantCode: http.StatusCreated, extra: "SV01"},
		{
			name: "duplicate code", token: getToken(t, student), body: newTopic("DT01", "SV01"),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, map[string]string{"code": topic.ErrCodeExists.Error()}),
		},
		{name: "admin registers for anyone", token: getToken(t, admin), body: newTopic("DT03", "SV42"), wantCode: http.StatusCreated, extra: "SV42"},
		{
			name: "missing fields", token: getToken(t, admin), body: marshallObj(t, topic.NewTopic{Code: "DT04", StudentCode: "SV01"}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{
				"title":           "this field is required",
				"supervisor_code": "this field is required",
				"semester":        "this field is required",
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/topics/register", tt.token, tt.body)
			srv.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var tpc topic.Topic
				if err := json.Unmarshal(rec.Body.Bytes(), &tpc); err != nil {
					t.Fatalf("unmarshalling Topic: %v", err)
				}
				if tpc.Status != topic.StatusPending {
					t.Errorf("status = %q; want %q", tpc.Status, topic.StatusPending)
				}
				if wantStudent := tt.extra.(string); tpc.StudentCode != wantStudent {
					t.Errorf("studentCode = %q; want %q", tpc.StudentCode, wantStudent)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_topicApi_query(t *testing.T) {
	srv, deps := setup(t)

	admin := createUser(t, deps.usrRepo, "Admin", "admin", "admin@test.edu", "LolC@t123", user.AdminRoles, true)
	student := createUser(t, deps.usrRepo, "Student", "student", "sv@test.edu", "LolC@t123", user.StudentRoles, true)
	student.StudentCode = "SV01"

	t1 := createTopic(t, deps.topRepo, "DT01", "SV01", "GV01", topic.StatusPending)
	t2 := createTopic(t, deps.topRepo, "DT02", "SV02", "GV01", topic.StatusApproved)

	t.Run("admin sees all", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/topics", getToken(t, admin))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, []topic.Topic{t1, t2})}, rec)
	})

	t.Run("student only sees own", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/topics", getToken(t, student))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, []topic.Topic{t1})}, rec)
	})

	t.Run("filter by status", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/topics?status=approved", getToken(t, admin))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, []topic.Topic{t2})}, rec)
	})
}

func Test_topicApi_decide(t *testing.T) {
	srv, deps := setup(t)

	supervisor := createUser(t, deps.usrRepo, "Supervisor", "gv01", "gv01@test.edu", "LolC@t123", user.LecturerRoles, true)
	supervisor.LecturerCode = "GV01"
	other := createUser(t, deps.usrRepo, "Other", "gv02", "gv02@test.edu", "LolC@t123", user.LecturerRoles, true)
	other.LecturerCode = "GV02"
	student := createUser(t, deps.usrRepo, "Student", "sv01", "sv01@test.edu", "LolC@t123", user.StudentRoles, true)
	student.StudentCode = "SV01"

	createTopic(t, deps.topRepo, "DT01", "SV01", "GV01", topic.StatusPending)

	decision := marshallObj(t, topic.TopicDecision{Note: "OK"})

	t.Run("student cannot decide", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/topics/DT01/approve", getToken(t, student), decision)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"})}, rec)
	})

	t.Run("non-supervisor cannot decide", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/topics/DT01/approve", getToken(t, other), decision)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"})}, rec)
	})

	t.Run("supervisor approves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/topics/DT01/approve", getToken(t, supervisor), decision)
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var tpc topic.Topic
		if err := json.Unmarshal(rec.Body.Bytes(), &tpc); err != nil {
			t.Fatalf("unmarshalling Topic: %v", err)
		}
		if tpc.Status != topic.StatusApproved || tpc.DecisionNote != "OK" || tpc.DecidedAt.IsZero() {
			t.Errorf("unexpected topic: %+v", tpc)
		}
	})

	t.Run("decisions are final", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/topics/DT01/reject", getToken(t, supervisor), decision)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"status": topic.ErrAlreadyDecided.Error()}),
		}, rec)
	})

	t.Run("unknown topic", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/topics/DT99/approve", getToken(t, supervisor), decision)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"})}, rec)
	})
}
