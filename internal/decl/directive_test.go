package decl

import (
	"testing"
)

func TestParseDirectiveDerive(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		conventions []string
		options     map[string]string
		wantErr     bool
	}{
		{
			name:        "single convention",
			line:        "//bridgegen:derive blocking",
			conventions: []string{"blocking"},
			options:     map[string]string{},
		},
		{
			name:        "all conventions",
			line:        "//bridgegen:derive blocking,future,callback,stream",
			conventions: []string{"blocking", "future", "callback", "stream"},
			options:     map[string]string{},
		},
		{
			name:        "with options",
			line:        "//bridgegen:derive future prefix=Legacy deliver=primary",
			conventions: []string{"future"},
			options:     map[string]string{"prefix": "Legacy", "deliver": "primary"},
		},
		{
			name:        "quoted value with spaces",
			line:        `//bridgegen:derive blocking deprecated="use Fetch instead"`,
			conventions: []string{"blocking"},
			options:     map[string]string{"deprecated": "use Fetch instead"},
		},
		{
			name:    "missing convention list",
			line:    "//bridgegen:derive",
			wantErr: true,
		},
		{
			name:    "empty convention",
			line:    "//bridgegen:derive blocking,,future",
			wantErr: true,
		},
		{
			name:    "bare option",
			line:    "//bridgegen:derive blocking prefix",
			wantErr: true,
		},
		{
			name:    "unterminated quote",
			line:    `//bridgegen:derive blocking deprecated="oops`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok, err := ParseDirective(tt.line, "test.go:1")
			if !ok {
				t.Fatalf("ParseDirective(%q) not recognized as directive", tt.line)
			}

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDirective(%q) expected error, got %+v", tt.line, d)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseDirective(%q) unexpected error: %v", tt.line, err)
			}

			if d.Kind != DirectiveDerive {
				t.Errorf("Kind = %v, want DirectiveDerive", d.Kind)
			}

			if len(d.Conventions) != len(tt.conventions) {
				t.Fatalf("Conventions = %v, want %v", d.Conventions, tt.conventions)
			}

			for i, c := range tt.conventions {
				if d.Conventions[i] != c {
					t.Errorf("Conventions[%d] = %q, want %q", i, d.Conventions[i], c)
				}
			}

			for k, want := range tt.options {
				if got := d.Options[k]; got != want {
					t.Errorf("Options[%q] = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestParseDirectiveDefaultsAndGuard(t *testing.T) {
	d, ok, err := ParseDirective("//bridgegen:defaults prefix=Svc deliver=primary", "x.go:3")
	if !ok || err != nil {
		t.Fatalf("defaults directive: ok=%v err=%v", ok, err)
	}

	if d.Kind != DirectiveDefaults || d.Options["prefix"] != "Svc" {
		t.Errorf("defaults parsed wrong: %+v", d)
	}

	g, ok, err := ParseDirective("//bridgegen:guard concurrent", "x.go:9")
	if !ok || err != nil {
		t.Fatalf("guard directive: ok=%v err=%v", ok, err)
	}

	if g.Kind != DirectiveGuard || g.Guard != "concurrent" {
		t.Errorf("guard parsed wrong: %+v", g)
	}

	bare, ok, err := ParseDirective("//bridgegen:guard", "x.go:12")
	if !ok || err != nil {
		t.Fatalf("bare guard directive: ok=%v err=%v", ok, err)
	}

	if bare.Guard != "" {
		t.Errorf("bare guard strategy = %q, want empty", bare.Guard)
	}

	if _, _, err := ParseDirective("//bridgegen:guard serial concurrent", "x.go:15"); err == nil {
		t.Error("two strategies should be rejected")
	}
}

func TestParseDirectiveIgnoresPlainComments(t *testing.T) {
	for _, line := range []string{
		"// just a comment",
		"//go:generate stringer",
		"// bridgegen is cool",
	} {
		if _, ok, _ := ParseDirective(line, ""); ok {
			t.Errorf("ParseDirective(%q) recognized as directive", line)
		}
	}
}
