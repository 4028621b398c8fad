package models

import "testing"

func TestUserCreateRequestValidate(t *testing.T) {
	valid := func() *UserCreateRequest {
		return &UserCreateRequest{
			Email:    "ada@example.com",
			Password: "correct-horse",
			Name:     "Ada",
			Role:     RoleAttendee,
		}
	}

	tests := []struct {
		name      string
		mutate    func(*UserCreateRequest)
		wantField string
	}{
		{"valid attendee", func(r *UserCreateRequest) {}, ""},
		{"valid organizer", func(r *UserCreateRequest) { r.Role = RoleOrganizer }, ""},
		{"missing email", func(r *UserCreateRequest) { r.Email = "" }, "email"},
		{"malformed email", func(r *UserCreateRequest) { r.Email = "not-an-address" }, "email"},
		{"short password", func(r *UserCreateRequest) { r.Password = "short" }, "password"},
		{"missing name", func(r *UserCreateRequest) { r.Name = "  " }, "name"},
		{"missing role", func(r *UserCreateRequest) { r.Role = "" }, "role"},
		{"admin not allowed via signup", func(r *UserCreateRequest) { r.Role = RoleAdmin }, "role"},
		{"unknown role", func(r *UserCreateRequest) { r.Role = "superuser" }, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)

			err := req.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestUserIsOrganizer(t *testing.T) {
	if (&User{Role: RoleAttendee}).IsOrganizer() {
		t.Error("attendee should not be an organizer")
	}
	if !(&User{Role: RoleOrganizer}).IsOrganizer() {
		t.Error("organizer should be an organizer")
	}
	if !(&User{Role: RoleAdmin}).IsOrganizer() {
		t.Error("admin should pass organizer checks")
	}
}
