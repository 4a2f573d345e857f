package canonical

import (
	"slices"
	"testing"
)

func collect(u *URI) []string {
	var out []string
	for c := range u.Candidates() {
		out = append(out, c)
	}
	return out
}

func TestCandidates_Order(t *testing.T) {
	u := mustParse(t, "http://a.b.c.d.e.f.g/1.html?param=1")

	expected := []string{
		"a.b.c.d.e.f.g/1.html?param=1",
		"a.b.c.d.e.f.g/1.html",
		"a.b.c.d.e.f.g/",
		"b.c.d.e.f.g/1.html?param=1",
		"b.c.d.e.f.g/1.html",
		"b.c.d.e.f.g/",
		"c.d.e.f.g/1.html?param=1",
		"c.d.e.f.g/1.html",
		"c.d.e.f.g/",
		"d.e.f.g/1.html?param=1",
		"d.e.f.g/1.html",
		"d.e.f.g/",
		"e.f.g/1.html?param=1",
		"e.f.g/1.html",
		"e.f.g/",
	}

	got := collect(u)
	if !slices.Equal(got, expected) {
		t.Errorf("candidate order mismatch:\ngot  %q\nwant %q", got, expected)
	}
}

func TestCandidates_IPHost(t *testing.T) {
	u := mustParse(t, "http://0x01.0x02.0x03.0x04/a/b")

	expected := []string{
		"1.2.3.4/a/b",
		"1.2.3.4/a/",
		"1.2.3.4/",
	}

	got := collect(u)
	if !slices.Equal(got, expected) {
		t.Errorf("IP candidates:\ngot  %q\nwant %q", got, expected)
	}
}

func TestHostSuffixCount(t *testing.T) {
	tests := []struct {
		host string
		want int
	}{
		{"google.com", 1},
		{"a.google.com", 2},
		{"a.b.google.com", 3},
		{"a.b.c.google.com", 4},
		{"a.b.c.d.google.com", 5},
		{"a.b.c.d.e.google.com", 5},
		{"a.b.c.d.e.f.g", 5},
		{"google.co.uk", 1},
		{"a.google.co.uk", 2},
		{"foo.uk", 0},
		{"localhost", 0},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			u := mustParse(t, "http://"+tt.host+"/")
			if got := len(u.hostSuffixes()); got != tt.want {
				t.Errorf("hostSuffixes(%q) = %d, want %d", tt.host, got, tt.want)
			}
		})
	}
}

func TestCandidates_Bound(t *testing.T) {
	u := mustParse(t, "http://aaa.bbb.ccc.ddd.eee.fff.ggg.hhh/p1/p2/p3/p4/p5/p6/p7/p8?q=1")

	got := collect(u)
	if len(got) != MaxCandidates {
		t.Errorf("worst case produced %d candidates, want %d", len(got), MaxCandidates)
	}
}

func TestCandidates_Restartable(t *testing.T) {
	u := mustParse(t, "http://a.b.google.com/x/y?z=1")

	first := collect(u)
	second := collect(u)
	if !slices.Equal(first, second) {
		t.Errorf("re-enumeration diverged:\nfirst  %q\nsecond %q", first, second)
	}

	// Early termination must not affect a later full enumeration.
	for range u.Candidates() {
		break
	}
	third := collect(u)
	if !slices.Equal(first, third) {
		t.Errorf("enumeration after early break diverged:\nfirst %q\nthird %q", first, third)
	}
}
