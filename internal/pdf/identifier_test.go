package pdf

import "testing"

func TestFindInText_DOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain doi",
			text: "available at doi 10.1038/nphys1170 in print",
			want: "10.1038/nphys1170",
		},
		{
			name: "doi with trailing punctuation",
			text: "see https://doi.org/10.1007/s10849-018-9270-x.",
			want: "10.1007/s10849-018-9270-x",
		},
		{
			name: "no identifier",
			text: "just some text without anything useful",
			want: "",
		},
		{
			name: "too short to be a doi",
			text: "ratio 10.5/2 observed",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := findInText(tt.text)
			if tt.want == "" {
				if id != nil {
					t.Fatalf("findInText() = %+v, want nil", id)
				}
				return
			}
			if id == nil {
				t.Fatalf("findInText() = nil, want %q", tt.want)
			}
			if id.Type != TypeDOI || id.Value != tt.want {
				t.Errorf("findInText() = %+v, want DOI %q", id, tt.want)
			}
		})
	}
}

func TestFindInText_ArXiv(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "new style with prefix",
			text: "arXiv:2101.01234v2 [quant-ph] 4 Jan 2021",
			want: "2101.01234",
		},
		{
			name: "lowercase prefix",
			text: "arxiv: 2301.00001",
			want: "2301.00001",
		},
		{
			name: "old style",
			text: "arXiv:hep-th/9901001v3",
			want: "hep-th/9901001",
		},
		{
			name: "datacite doi form",
			text: "https://doi.org/10.48550/arXiv.2101.01234",
			want: "2101.01234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := findInText(tt.text)
			if id == nil {
				t.Fatalf("findInText() = nil, want arXiv %q", tt.want)
			}
			if id.Type != TypeArXiv || id.Value != tt.want {
				t.Errorf("findInText() = %+v, want arXiv %q", id, tt.want)
			}
		})
	}
}

func TestFindInText_PrefersArXivOverDOI(t *testing.T) {
	// Preprints often cite the published DOI on the first page; the
	// arXiv ID identifies the actual file.
	text := "doi:10.1038/nphys1170 arXiv:2101.01234"
	id := findInText(text)
	if id == nil || id.Type != TypeArXiv {
		t.Errorf("findInText() = %+v, want the arXiv ID", id)
	}
}

func TestStripVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2101.01234v2", "2101.01234"},
		{"2101.01234", "2101.01234"},
		{"hep-th/9901001v10", "hep-th/9901001"},
	}
	for _, tt := range tests {
		if got := stripVersion(tt.in); got != tt.want {
			t.Errorf("stripVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1038/nphys1170", true},
		{"10.1234/abc123", true},
		{"11.1038/nphys1170", false},
		{"10.1038", false},
		{"10.12/a", false},
	}
	for _, tt := range tests {
		if got := isValidDOI(tt.doi); got != tt.want {
			t.Errorf("isValidDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}
