package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ratepoint/internal/entity"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&entity.FieldError{Kind: "post", Field: "rating", Reason: entity.FieldInvalid}, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", entity.ErrInvalidRelationShape), http.StatusBadRequest},
		{entity.ErrInvalidSearchInput, http.StatusBadRequest},
		{entity.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", entity.ErrReferenced), http.StatusConflict},
		{entity.ErrUniqueViolation, http.StatusConflict},
		{entity.ErrInvariant, http.StatusInternalServerError},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v): got %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, errors.New("pq: password authentication failed"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "password") {
		t.Errorf("internal error detail leaked: %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	writeError(rr, fmt.Errorf("delete tag: %w", entity.ErrNotFound))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "not found") {
		t.Errorf("client error message missing: %s", rr.Body.String())
	}
}

func TestDecodeFields(t *testing.T) {
	t.Run("envelope", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/tags",
			strings.NewReader(`{"tag": {"tag_name": "camping"}}`))
		f, err := decodeFields(r, "tag")
		if err != nil {
			t.Fatal(err)
		}
		if name, _ := f.String("tag_name"); name != "camping" {
			t.Errorf("got %+v", f)
		}
	})

	t.Run("bare fields", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/tags",
			strings.NewReader(`{"tag_name": "camping"}`))
		f, err := decodeFields(r, "tag")
		if err != nil {
			t.Fatal(err)
		}
		if name, _ := f.String("tag_name"); name != "camping" {
			t.Errorf("got %+v", f)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/tags", strings.NewReader(`{`))
		if _, err := decodeFields(r, "tag"); err == nil {
			t.Error("expected decode error")
		}
	})
}
