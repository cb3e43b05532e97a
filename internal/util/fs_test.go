package util

import "testing"

func TestObjectName(t *testing.T) {
	cases := map[string]string{
		"report.pdf":              "report.pdf",
		"dir/sub/report.pdf":      "report.pdf",
		`C:\Users\me\report.pdf`:  "report.pdf",
		"../../etc/passwd":        "passwd",
		"":                        "",
		"/":                       "",
		"..":                      "",
		" spaced name.pdf ":       "spaced name.pdf",
	}
	for in, want := range cases {
		if got := ObjectName(in); got != want {
			t.Fatalf("ObjectName(%q) = %q, want %q", in, got, want)
		}
	}
}
