package models

import (
	"testing"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/validation"
)

func strPtr(s string) *string { return &s }

func TestCreateStudentRequest_SanitizeThenValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateStudentRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  CreateStudentRequest{StudentID: " s1 ", Name: "Ann", Email: " ann@x.com ", Password: "secret123"},
		},
		{
			name:    "whitespace name counts as missing",
			req:     CreateStudentRequest{StudentID: "s1", Name: "   ", Email: "ann@x.com", Password: "secret123"},
			wantErr: "name is required",
		},
		{
			name:    "markup only name counts as missing",
			req:     CreateStudentRequest{StudentID: "s1", Name: "<b></b>", Email: "ann@x.com", Password: "secret123"},
			wantErr: "name is required",
		},
		{
			name:    "invalid email",
			req:     CreateStudentRequest{StudentID: "s1", Name: "Ann", Email: "not-an-email", Password: "secret123"},
			wantErr: "email must be a valid email address",
		},
		{
			name:    "missing password",
			req:     CreateStudentRequest{StudentID: "s1", Name: "Ann", Email: "ann@x.com"},
			wantErr: "password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Sanitize()
			err := validation.Struct(&tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestCreateStudentRequest_SanitizeKeepsPassword(t *testing.T) {
	req := CreateStudentRequest{StudentID: "s1", Name: "<b>Ann</b>", Email: "ann@x.com", Password: "  <pw> "}
	req.Sanitize()

	if req.Name != "Ann" {
		t.Errorf("Name = %q, want Ann", req.Name)
	}
	if req.Password != "  <pw> " {
		t.Errorf("Password modified to %q", req.Password)
	}
}

func TestUpdateStudentRequest_Changes(t *testing.T) {
	req := UpdateStudentRequest{StudentID: "s1", Name: strPtr("  "), Email: strPtr("")}
	req.Sanitize()

	if !req.Changes().Empty() {
		t.Errorf("blank fields should not count as changes: %+v", req.Changes())
	}

	req = UpdateStudentRequest{StudentID: "s1", Name: strPtr(" Bob ")}
	req.Sanitize()
	changes := req.Changes()
	if changes.Empty() || changes.Name == nil || *changes.Name != "Bob" {
		t.Errorf("Changes() = %+v, want name Bob", changes)
	}
}

func TestStudentRequests_LowercaseEmail(t *testing.T) {
	create := CreateStudentRequest{StudentID: "s1", Name: "Ann", Email: " Ann@X.io ", Password: "secret123"}
	create.Sanitize()
	if create.Email != "ann@x.io" {
		t.Errorf("create Email = %q, want ann@x.io", create.Email)
	}

	update := UpdateStudentRequest{StudentID: "s1", Email: strPtr("ANN@x.IO")}
	update.Sanitize()
	if update.Email == nil || *update.Email != "ann@x.io" {
		t.Errorf("update Email = %v, want ann@x.io", update.Email)
	}
}

func TestLinkListsRejectUnsafeSchemes(t *testing.T) {
	assignment := CreateAssignmentRequest{
		Title:       "HW1",
		Description: "d",
		DueDate:     "2025-01-01",
		Files:       []string{" /api/v1/files/k1 ", "javascript:alert(1)"},
	}
	assignment.Sanitize()
	if err := validation.Struct(&assignment); err == nil || err.Error() != "files[1] must be an http(s) URL or a relative path" {
		t.Errorf("assignment error = %v", err)
	}

	links := []string{"https://a.example", "data:text/html,<script>x</script>"}
	week := UpdateWeekRequest{WeekID: "w1", Links: &links}
	week.Sanitize()
	if err := validation.Struct(&week); err == nil {
		t.Error("week update accepted a data: link")
	}

	ok := CreateWeekRequest{
		WeekID:      "w1",
		Title:       "Intro",
		StartDate:   "2025-01-06",
		Description: "d",
		Links:       []string{"https://a.example/slides", "/api/v1/files/k2"},
	}
	ok.Sanitize()
	if err := validation.Struct(&ok); err != nil {
		t.Errorf("valid links rejected: %v", err)
	}
}

func TestUpdateAssignmentRequest_EmptyFilesIsAChange(t *testing.T) {
	files := []string{}
	req := UpdateAssignmentRequest{ID: 1, Files: &files}
	req.Sanitize()

	if req.Changes().Empty() {
		t.Error("explicit empty files list should clear files")
	}
}

func TestUpdateWeekRequest_InvalidDate(t *testing.T) {
	req := UpdateWeekRequest{WeekID: "w1", StartDate: strPtr("2024-02-30")}
	req.Sanitize()

	err := validation.Struct(&req)
	if err == nil || err.Error() != "start_date must be a valid date in YYYY-MM-DD format" {
		t.Errorf("error = %v", err)
	}
}

func TestCreateAssignmentCommentRequest_RequiresParent(t *testing.T) {
	req := CreateAssignmentCommentRequest{Author: "Ann", Text: "hi"}
	req.Sanitize()

	err := validation.Struct(&req)
	if err == nil || err.Error() != "assignment_id is required" {
		t.Errorf("error = %v", err)
	}
}
