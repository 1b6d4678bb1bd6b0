package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gradhub/thesisdesk/core/user"
)

func Test_userApi_login(t *testing.T) {
	srv, deps := setup(t)

	usr := createUser(t, deps.usrRepo, "Trần Văn An", "an.tran", "an.tran@test.edu", "Str0ngPassw0rd!", user.StudentRoles, true)
	createUser(t, deps.usrRepo, "Inactive", "inactive", "inactive@test.edu", "Str0ngPassw0rd!", user.StudentRoles, false)

	tests := []httpTest{
		{
			name: "empty credentials", wantCode: http.StatusBadRequest,
			body:     marshallObj(t, LoginRequest{}),
			wantData: marshallObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown user", wantCode: http.StatusBadRequest,
			body:     marshallObj(t, LoginRequest{Username: "ghost", Password: "lol"}),
			wantData: marshallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", wantCode: http.StatusBadRequest,
			body:     marshallObj(t, LoginRequest{Username: usr.Username, Password: "nope"}),
			wantData: marshallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", wantCode: http.StatusForbidden,
			body:     marshallObj(t, LoginRequest{Username: "inactive", Password: "Str0ngPassw0rd!"}),
			wantData: marshallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "login with username", wantCode: http.StatusOK, body: marshallObj(t, LoginRequest{Username: usr.Username, Password: "Str0ngPassw0rd!"})},
		{name: "login with email", wantCode: http.StatusOK, body: marshallObj(t, LoginRequest{Username: usr.Email, Password: "Str0ngPassw0rd!"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/users/login", tt.body)
			srv.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling LoginResponse: %v", err)
				}
				if resp.Token == "" {
					t.Error("expected a token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_query(t *testing.T) {
	srv, deps := setup(t)

	admin := createUser(t, deps.usrRepo, "Admin", "admin", "admin@test.edu", "LolC@t123", user.AdminRoles, true)
	student := createUser(t, deps.usrRepo, "Student", "student", "student@test.edu", "LolC@t123", user.StudentRoles, true)

	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "admin role required", token: studentToken, wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "all users", token: adminToken, wantCode: http.StatusOK,
			wantData: marshallObj(t, []user.User{admin, student}),
		},
		{
			name: "search by name", path: "?search=student", token: adminToken, wantCode: http.StatusOK,
			wantData: marshallObj(t, []user.User{student}),
		},
		{
			name: "filter by role", path: "?role=admin:", token: adminToken, wantCode: http.StatusOK,
			wantData: marshallObj(t, []user.User{admin}),
		},
		{
			name: "no match", path: "?search=nothing", token: adminToken, wantCode: http.StatusOK,
			wantData: marshallObj(t, []user.User{}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/users"+tt.path, tt.token)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	srv, deps := setup(t)

	admin := createUser(t, deps.usrRepo, "Admin", "admin", "admin@test.edu", "LolC@t123", user.AdminRoles, true)
	student := createUser(t, deps.usrRepo, "Student", "student", "student@test.edu", "LolC@t123", user.StudentRoles, true)

	tests := []httpTest{
		{
			name: "own profile", path: "/api/users/" + student.ID, token: getToken(t, student),
			wantCode: http.StatusOK, wantData: marshallObj(t, student),
		},
		{
			name: "someone else's profile is hidden", path: "/api/users/" + admin.ID, token: getToken(t, student),
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "admin sees anyone", path: "/api/users/" + student.ID, token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marshallObj(t, student),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
