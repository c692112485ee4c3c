package cmd

import (
	"testing"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name     string
		filename string

		wantMatch  bool
		wantPrefix string
		wantFirst  string
		wantSecond string
		wantExt    string
	}{
		// Connected-numbers rule (3-digit pairs)
		{
			name: "plus-joined pair", filename: "GL57-020+021.jpg",
			wantMatch: true, wantPrefix: "GL57", wantFirst: "020", wantSecond: "021", wantExt: ".jpg",
		},
		{
			name: "hyphen-joined pair", filename: "GL54-033-034.jpg",
			wantMatch: true, wantPrefix: "GL54", wantFirst: "033", wantSecond: "034", wantExt: ".jpg",
		},
		{
			name: "ampersand-joined pair", filename: "GL51-006&007.png",
			wantMatch: true, wantPrefix: "GL51", wantFirst: "006", wantSecond: "007", wantExt: ".png",
		},

		// Concatenated-digits rule (2+2)
		{
			name: "concatenated run", filename: "023-1213.jpg",
			wantMatch: true, wantPrefix: "023", wantFirst: "12", wantSecond: "13", wantExt: ".jpg",
		},
		{
			name: "concatenated with uppercase ext", filename: "Green Lantern 031-0809.JPG",
			wantMatch: true, wantPrefix: "Green Lantern 031", wantFirst: "08", wantSecond: "09", wantExt: ".JPG",
		},
		{
			name: "concatenated after ampersand", filename: "b&0405.png",
			wantMatch: true, wantPrefix: "b", wantFirst: "04", wantSecond: "05", wantExt: ".png",
		},
		{
			name: "hyphens in prefix", filename: "Tales-04-1213.jpg",
			wantMatch: true, wantPrefix: "Tales-04", wantFirst: "12", wantSecond: "13", wantExt: ".jpg",
		},
		{
			name: "jpeg extension", filename: "x-1011.JPEG",
			wantMatch: true, wantPrefix: "x", wantFirst: "10", wantSecond: "11", wantExt: ".JPEG",
		},

		// No match
		{name: "plain cover", filename: "cover.jpg"},
		{name: "no digits near separator", filename: "page-twelve.jpg"},
		{name: "single page number", filename: "GL57-020.jpg"},
		{name: "five digit run", filename: "a-12345.jpg"},
		{name: "three digit run", filename: "a-121.jpg"},
		{name: "no separator before run", filename: "a1213.jpg"},
		{name: "match not at end", filename: "a-1213.jpg.bak"},
		{name: "wrong extension", filename: "a-1213.gif"},
		{name: "empty string", filename: ""},
		{name: "extension only", filename: ".jpg"},

		// Both patterns are anchored, so only the trailing token counts
		{
			name: "connected pair at end wins over earlier run", filename: "a-1213.jpg-033-034.jpg",
			wantMatch: true, wantPrefix: "a-1213.jpg", wantFirst: "033", wantSecond: "034", wantExt: ".jpg",
		},
		{
			name: "run at end wins over earlier pair", filename: "a-033-034.jpg-1213.jpg",
			wantMatch: true, wantPrefix: "a-033-034.jpg", wantFirst: "12", wantSecond: "13", wantExt: ".jpg",
		},
	}

	sp := newSplitter(defaultConnectedWidth, defaultMergedWidth)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := sp.detect(tc.filename)
			if !tc.wantMatch {
				if m != nil {
					t.Fatalf("detect(%q) = %+v, want no match", tc.filename, *m)
				}
				return
			}
			if m == nil {
				t.Fatalf("detect(%q) = no match, want one", tc.filename)
			}
			if m.prefix != tc.wantPrefix || m.first != tc.wantFirst ||
				m.second != tc.wantSecond || m.ext != tc.wantExt {
				t.Errorf("detect(%q) = (%q,%q,%q,%q), want (%q,%q,%q,%q)",
					tc.filename, m.prefix, m.first, m.second, m.ext,
					tc.wantPrefix, tc.wantFirst, tc.wantSecond, tc.wantExt)
			}
		})
	}
}

func TestDetectWidthConfiguration(t *testing.T) {
	// 2-digit connected pairs are invisible to the default splitter but
	// selectable by width
	sp := newSplitter(2, 2)
	m := sp.detect("p-12+34.jpg")
	if m == nil {
		t.Fatal("width-2 splitter missed p-12+34.jpg")
	}
	if m.first != "12" || m.second != "34" {
		t.Errorf("got (%q,%q), want (12,34)", m.first, m.second)
	}

	if def := newSplitter(defaultConnectedWidth, defaultMergedWidth); def.detect("p-12+34.jpg") != nil {
		t.Error("default splitter should not match 2-digit connected pairs")
	}

	// 3-digit merged runs (6 digits total)
	sp = newSplitter(3, 3)
	m = sp.detect("p-123124.jpg")
	if m == nil {
		t.Fatal("width-3 splitter missed p-123124.jpg")
	}
	if m.first != "123" || m.second != "124" {
		t.Errorf("got (%q,%q), want (123,124)", m.first, m.second)
	}
}

func TestSuggestName(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"GL57-020+021.jpg", "GL57_020-021.jpg"},
		{"GL54-033-034.jpg", "GL54_033-034.jpg"},
		{"023-1213.jpg", "023_12-13.jpg"},
		// spaces in the prefix are left alone; only hyphens normalise
		{"Green Lantern 031-0809.JPG", "Green Lantern 031_08-09.JPG"},
		{"Tales-04-1213.jpg", "Tales_04_12-13.jpg"},
	}

	sp := newSplitter(defaultConnectedWidth, defaultMergedWidth)
	for _, tc := range cases {
		m := sp.detect(tc.filename)
		if m == nil {
			t.Errorf("detect(%q) = no match, want one", tc.filename)
			continue
		}
		if got := sp.suggestName(m); got != tc.want {
			t.Errorf("suggestName(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestDetectDeterministic(t *testing.T) {
	// Reconstructing a matched name from its own components must re-detect
	// with the same numbers
	sp := newSplitter(defaultConnectedWidth, defaultMergedWidth)
	for _, sep := range []string{"-", "+", "&"} {
		name := "Book 12" + sep + "033" + sep + "034.jpg"
		m := sp.detect(name)
		if m == nil {
			t.Fatalf("detect(%q) = no match", name)
		}
		again := sp.detect(m.prefix + sep + m.first + sep + m.second + m.ext)
		if again == nil || again.first != m.first || again.second != m.second {
			t.Errorf("re-detect of %q not stable: %+v vs %+v", name, m, again)
		}
	}
}

func TestSuggestedNamesAreFixed(t *testing.T) {
	// Running a corrected name back through detection must not match again:
	// the underscore before the first number is not a page separator, so
	// repeated fixes cannot mangle a name
	sp := newSplitter(defaultConnectedWidth, defaultMergedWidth)
	for _, fn := range []string{"GL57-020+021.jpg", "023-1213.jpg", "Tales-04-1213.jpg"} {
		m := sp.detect(fn)
		if m == nil {
			t.Fatalf("detect(%q) = no match", fn)
		}
		fixed := sp.suggestName(m)
		if again := sp.detect(fixed); again != nil {
			t.Errorf("detect(%q) = %+v, want no match after fixing %q", fixed, *again, fn)
		}
	}
}
