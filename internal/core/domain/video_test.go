package domain

import (
	"fmt"
	"reflect"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a, b ,,c", []string{"a", "b", "c"}},
		{"", []string{}},
		{" , ,", []string{}},
		{"intro,intro", []string{"intro", "intro"}},
		{"go lang , web", []string{"go lang", "web"}},
	}
	for _, tc := range cases {
		got := NormalizeTags(tc.in)
		if got == nil {
			t.Fatalf("NormalizeTags(%q) returned nil slice", tc.in)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("NormalizeTags(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestObjectKey_NamespacedByOwner(t *testing.T) {
	a := ObjectKey("user-a", "clip.mp4")
	b := ObjectKey("user-b", "clip.mp4")
	if a == b {
		t.Fatalf("expected distinct keys, both were %q", a)
	}
	if a != "user-a/clip.mp4" {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestAuthorizeOwner(t *testing.T) {
	owner := User{ID: "u1"}
	if err := AuthorizeOwner(owner, &VideoRecord{UserID: "u1"}); err != nil {
		t.Fatalf("owner write rejected: %v", err)
	}
	if err := AuthorizeOwner(owner, &VideoRecord{UserID: "u2"}); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := AuthorizeOwner(User{}, &VideoRecord{UserID: ""}); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for anonymous caller, got %v", err)
	}
}

func TestCanView(t *testing.T) {
	rec := &VideoRecord{UserID: "u1"}
	if !CanView("u1", false, rec) {
		t.Errorf("owner should see own record")
	}
	if CanView("u2", false, rec) {
		t.Errorf("other user should not see record")
	}
	if !CanView("u2", true, rec) {
		t.Errorf("admin should see every record")
	}
	if CanView("", true, rec) {
		t.Errorf("anonymous caller should see nothing")
	}
}

func TestKindOf(t *testing.T) {
	cases := map[error]ErrorKind{
		ErrInvalidCredentials:                      KindAuth,
		ErrEmailNotConfirmed:                       KindAuth,
		ErrFileTooLarge:                            KindFileTooLarge,
		ErrUploadTimeout:                           KindUploadTimeout,
		fmt.Errorf("store: %w: boom", ErrBackend):  KindBackend,
		&InsertRejectedError{Status: 403}:          KindInsertRejected,
		fmt.Errorf("x: %w", ErrProfileProvision):   KindProfileProvision,
		ErrVideoNotFound:                           KindNotFound,
		ErrProfileExists:                           KindConflict,
		fmt.Errorf("plain failure"):                KindUnknown,
	}
	for err, want := range cases {
		if got := KindOf(err); got != want {
			t.Errorf("KindOf(%v) = %s, want %s", err, got, want)
		}
	}
}
