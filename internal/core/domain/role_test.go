package domain

import (
	"reflect"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
		ok    bool
	}{
		{"admin", RoleAdmin, true},
		{" Reviewer ", RoleReviewer, true},
		{"PUBLISHER", RolePublisher, true},
		{"user", RoleUser, true},
		{"root", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPermissionsFor(t *testing.T) {
	tests := []struct {
		role   Role
		has    []Permission
		hasNot []Permission
	}{
		{RoleUser, []Permission{PermProfileRead, PermSubmissionRead}, []Permission{PermSubmissionCreate, PermSessionAdmin}},
		{RolePublisher, []Permission{PermSubmissionCreate}, []Permission{PermSubmissionReview}},
		{RoleReviewer, []Permission{PermSubmissionReview}, []Permission{PermSubmissionCreate}},
		{RoleAdmin, AllPermissions, nil},
		{Role("ghost"), nil, AllPermissions},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			set := PermissionsFor(tt.role)
			for _, p := range tt.has {
				if !set.Has(p) {
					t.Errorf("%s should have %s", tt.role, p)
				}
			}
			for _, p := range tt.hasNot {
				if set.Has(p) {
					t.Errorf("%s should not have %s", tt.role, p)
				}
			}
		})
	}
}

func TestPermissionsFor_ReturnsIndependentSets(t *testing.T) {
	a := PermissionsFor(RoleUser)
	a[PermSessionAdmin] = struct{}{}

	if PermissionsFor(RoleUser).Has(PermSessionAdmin) {
		t.Error("mutating a returned set should not change the grant table")
	}
}

func TestPermissionSet_Covers(t *testing.T) {
	set := NewPermissionSet(PermProfileRead, PermSubmissionRead)

	tests := []struct {
		name     string
		required []Permission
		want     bool
	}{
		{"nil requirement", nil, true},
		{"empty requirement", []Permission{}, true},
		{"subset", []Permission{PermProfileRead}, true},
		{"equal", []Permission{PermSubmissionRead, PermProfileRead}, true},
		{"superset", []Permission{PermProfileRead, PermSessionAdmin}, false},
		{"disjoint", []Permission{PermSubmissionPublish}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.Covers(tt.required); got != tt.want {
				t.Errorf("Covers(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}

	if !NewPermissionSet().Covers(nil) {
		t.Error("empty set should cover an empty requirement")
	}
}

func TestPermissionSet_Missing(t *testing.T) {
	set := NewPermissionSet(PermProfileRead)
	got := set.Missing([]Permission{PermSubmissionReview, PermProfileRead, PermSessionAdmin})
	want := []Permission{PermSessionAdmin, PermSubmissionReview}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Missing() = %v, want %v", got, want)
	}
}

func TestPermissionSet_SliceAndClone(t *testing.T) {
	set := NewPermissionSet(PermSubmissionRead, PermProfileRead)
	want := []Permission{PermProfileRead, PermSubmissionRead}
	if got := set.Slice(); !reflect.DeepEqual(got, want) {
		t.Errorf("Slice() = %v, want %v", got, want)
	}

	clone := set.Clone()
	delete(clone, PermProfileRead)
	if !set.Has(PermProfileRead) {
		t.Error("Clone() should not share storage with the original")
	}
}

func TestParsePermissions(t *testing.T) {
	got := ParsePermissions([]string{" profile:read", "", "  ", "submission:read "})
	want := []Permission{PermProfileRead, PermSubmissionRead}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParsePermissions() = %v, want %v", got, want)
	}
}
