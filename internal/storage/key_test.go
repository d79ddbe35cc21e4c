package storage

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{`..\..\windows\system32`, "system32"},
		{"my report (final).pdf", "my_report__final_.pdf"},
		{"..hidden", "hidden"},
		{"", "file"},
		{"///", "file"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewKeyValidation(t *testing.T) {
	if _, err := NewKey(Category("archive"), "report.pdf"); err != ErrCategoryRejected {
		t.Fatalf("unknown category: want ErrCategoryRejected, got %v", err)
	}
	if _, err := NewKey(CategoryDocument, "malware.exe"); err != ErrExtensionRejected {
		t.Fatalf("bad extension: want ErrExtensionRejected, got %v", err)
	}
	if _, err := NewKey(CategoryDocument, "REPORT.PDF"); err != nil {
		t.Fatalf("uppercase extension should pass: %v", err)
	}
}

func TestNewKeyUniqueness(t *testing.T) {
	a, err := NewKey(CategoryDocument, "report.pdf")
	if err != nil {
		t.Fatalf("new key: %v", err)
	}
	b, err := NewKey(CategoryDocument, "report.pdf")
	if err != nil {
		t.Fatalf("new key: %v", err)
	}
	if a == b {
		t.Fatalf("identical filenames produced identical keys: %s", a)
	}
	if !strings.HasSuffix(a, "_report.pdf") {
		t.Fatalf("key should retain sanitized filename, got %s", a)
	}
}

func TestCategoryAllowsExtension(t *testing.T) {
	if !CategoryImage.AllowsExtension("photo.JPG") {
		t.Error("jpg should be allowed for images")
	}
	if CategoryImage.AllowsExtension("photo.pdf") {
		t.Error("pdf should not be allowed for images")
	}
	if CategoryVideo.AllowsExtension("noextension") {
		t.Error("missing extension should be rejected")
	}
}
