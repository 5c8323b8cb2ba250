package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"workforce/internal/domain/apperr"
)

type samplePayload struct {
	Email  string  `json:"email" validate:"required,email"`
	Status string  `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	Hours  *int    `json:"hoursPerWeek" validate:"omitempty,min=0,max=168"`
	Items  []item  `json:"items" validate:"dive"`
	Note   *string `json:"note"`
}

type item struct {
	Description string `json:"description" validate:"required"`
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
		wantErr    bool
	}{
		{name: "valid", body: `{"email":"a@example.com","status":"ACTIVE"}`},
		{name: "malformed", body: `{"email":`, wantErr: true},
		{name: "missing email", body: `{}`, wantErr: true, wantFields: []string{"email"}},
		{name: "bad enum and range", body: `{"email":"a@example.com","status":"X","hoursPerWeek":200}`, wantErr: true, wantFields: []string{"hoursPerWeek", "status"}},
		{name: "nested item", body: `{"email":"a@example.com","items":[{"description":""}]}`, wantErr: true, wantFields: []string{"items[0].description"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst samplePayload
			err := DecodeAndValidate(req, &dst)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := apperr.As(err)
			if !ok || appErr.Kind != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(appErr.Fields) != len(tc.wantFields) {
				t.Fatalf("expected fields %v, got %+v", tc.wantFields, appErr.Fields)
			}
			for i, field := range tc.wantFields {
				if appErr.Fields[i].Field != field {
					t.Fatalf("expected field %s at %d, got %s", field, i, appErr.Fields[i].Field)
				}
			}
		})
	}
}

func TestDecodeAllowsEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	dst := samplePayload{Email: "kept@example.com"}
	if err := Decode(req, &dst, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dst.Email != "kept@example.com" {
		t.Fatalf("expected dst untouched, got %q", dst.Email)
	}
	if err := Decode(httptest.NewRequest(http.MethodPost, "/", http.NoBody), &dst, false); err == nil {
		t.Fatal("expected empty body to fail when not allowed")
	}
}

func TestValidatorIssuesSorted(t *testing.T) {
	v := NewValidator()
	v.Add("year", "must be positive")
	v.Required("month", " ", "is required")
	v.Enum("status", "paid", []string{"PENDING", "PAID"}, "invalid status")
	v.Enum("status", "unknown", []string{"PENDING", "PAID"}, "invalid status")

	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %+v", issues)
	}
	if issues[0].Field != "month" || issues[2].Field != "year" {
		t.Fatalf("expected sorted issues, got %+v", issues)
	}
	if NewValidator().Err() != nil {
		t.Fatal("expected nil error without issues")
	}
}
