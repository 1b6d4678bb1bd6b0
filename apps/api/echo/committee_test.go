package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gradhub/thesisdesk/core/committee"
	"github.com/gradhub/thesisdesk/core/user"
)

func Test_committeeApi_create(t *testing.T) {
	srv, deps := setup(t)

	admin := createUser(t, deps.usrRepo, "Admin", "admin", "admin@test.edu", "LolC@t123", user.AdminRoles, true)
	lecturer := createUser(t, deps.usrRepo, "Lecturer", "lecturer", "gv@test.edu", "LolC@t123", user.LecturerRoles, true)
	adminToken := getToken(t, admin)

	newCmt := committee.NewCommittee{
		Code:     "HD2025A",
		Name:     "Hội đồng 1",
		Semester: "2025.1",
		Members: []committee.Member{
			{LecturerCode: "GV01", Name: "Nguyễn Văn A", Role: committee.RoleChair},
		},
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, body: marshallObj(t, newCmt), wantData: marshallObj(t, errMissingToken)},
		{
			name: "admin required", token: getToken(t, lecturer), body: marshallObj(t, newCmt),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "create", token: adminToken, body: marshallObj(t, newCmt), wantCode: http.StatusCreated},
		{
			name: "duplicate code", token: adminToken, body: marshallObj(t, newCmt),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"code": committee.ErrCodeExists.Error()}),
		},
		{
			name: "missing fields", token: adminToken, body: marshallObj(t, committee.NewCommittee{Code: "HD2025B"}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"name": "this field is required", "semester": "this field is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/committees", tt.token, tt.body)
			srv.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var cmt committee.Committee
				if err := json.Unmarshal(rec.Body.Bytes(), &cmt); err != nil {
					t.Fatalf("unmarshalling Committee: %v", err)
				}
				if cmt.ID == "" || cmt.Code != newCmt.Code || len(cmt.Members) != 1 {
					t.Errorf("unexpected committee: %+v", cmt)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_committeeApi_membership(t *testing.T) {
	srv, deps := setup(t)

	admin := createUser(t, deps.usrRepo, "Admin", "admin", "admin@test.edu", "LolC@t123", user.AdminRoles, true)
	adminToken := getToken(t, admin)

	createCommittee(t, deps.cmtRepo, "HD2025A", "Hội đồng 1", "2025.1",
		[]committee.Member{{LecturerCode: "GV01", Name: "Nguyễn Văn A", Role: committee.RoleChair}},
		nil, time.Time{}, "", "", "")

	t.Run("add member", func(t *testing.T) {
		body := marshallObj(t, committee.Member{LecturerCode: "GV02", Name: "Trần Thị B", Role: committee.RoleSecretary})
		req, rec := newAuthRequest(http.MethodPost, "/api/committees/HD2025A/members", adminToken, body)
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var cmt committee.Committee
		if err := json.Unmarshal(rec.Body.Bytes(), &cmt); err != nil {
			t.Fatalf("unmarshalling Committee: %v", err)
		}
		if len(cmt.Members) != 2 {
			t.Errorf("len(Members) = %d; want 2", len(cmt.Members))
		}
	})

	t.Run("duplicate member rejected", func(t *testing.T) {
		body := marshallObj(t, committee.Member{LecturerCode: "GV01", Name: "Nguyễn Văn A", Role: committee.RoleMember})
		req, rec := newAuthRequest(http.MethodPost, "/api/committees/HD2025A/members", adminToken, body)
		srv.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"lecturer_code": committee.ErrMemberExists.Error()}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("assign student", func(t *testing.T) {
		body := marshallObj(t, committee.Assignment{
			TopicCode: "DT01", Title: "Hệ thống quản lý luận văn", StudentCode: "SV01", StudentName: "Lê Văn C",
		})
		req, rec := newAuthRequest(http.MethodPost, "/api/committees/HD2025A/assignments", adminToken, body)
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("duplicate student rejected", func(t *testing.T) {
		body := marshallObj(t, committee.Assignment{
			TopicCode: "DT02", Title: "Khác", StudentCode: "SV01", StudentName: "Lê Văn C",
		})
		req, rec := newAuthRequest(http.MethodPost, "/api/committees/HD2025A/assignments", adminToken, body)
		srv.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"student_code": committee.ErrStudentAssigned.Error()}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("schedule", func(t *testing.T) {
		body := marshallObj(t, committee.ScheduleCommittee{
			DefenseDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			Room:        "B4-203",
			StartTime:   "08:00:00",
			EndTime:     "11:30:00",
		})
		req, rec := newAuthRequest(http.MethodPut, "/api/committees/HD2025A/schedule", adminToken, body)
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var cmt committee.Committee
		if err := json.Unmarshal(rec.Body.Bytes(), &cmt); err != nil {
			t.Fatalf("unmarshalling Committee: %v", err)
		}
		if !cmt.IsScheduled() || cmt.Room.String != "B4-203" {
			t.Errorf("unexpected schedule: %+v", cmt)
		}
	})

	t.Run("bad time format rejected", func(t *testing.T) {
		body := marshallObj(t, committee.ScheduleCommittee{
			DefenseDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			Room:        "B4-203",
			StartTime:   "8am",
		})
		req, rec := newAuthRequest(http.MethodPut, "/api/committees/HD2025A/schedule", adminToken, body)
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_committeeApi_query(t *testing.T) {
	srv, deps := setup(t)

	admin := createUser(t, deps.usrRepo, "Admin", "admin", "admin@test.edu", "LolC@t123", user.AdminRoles, true)
	lecturer := createUser(t, deps.usrRepo, "Lecturer", "lecturer", "gv@test.edu", "LolC@t123", user.LecturerRoles, true)
	lecturer.LecturerCode = "GV01"

	c1 := createCommittee(t, deps.cmtRepo, "HD2025A", "Hội đồng 1", "2025.1",
		[]committee.Member{{LecturerCode: "GV01", Name: "Nguyễn Văn A", Role: committee.RoleChair}},
		nil, time.Time{}, "", "", "")
	c2 := createCommittee(t, deps.cmtRepo, "HD2025B", "Hội đồng 2", "2025.1",
		[]committee.Member{{LecturerCode: "GV02", Name: "Trần Thị B", Role: committee.RoleChair}},
		nil, time.Time{}, "", "", "")

	t.Run("admin sees all", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/committees", getToken(t, admin))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, []committee.Committee{c1, c2})}, rec)
	})

	t.Run("lecturer only sees own", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/committees", getToken(t, lecturer))
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, []committee.Committee{c1})}, rec)
	})
}
