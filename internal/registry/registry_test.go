package registry

import (
	"errors"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	t.Run("known_template_resolves", func(t *testing.T) {
		t.Parallel()
		tpl, err := Lookup("next")
		if err != nil {
			t.Fatalf("Lookup(next) error: %v", err)
		}
		if tpl.ID != "next" {
			t.Errorf("ID: got %q, want %q", tpl.ID, "next")
		}
		if tpl.Dir != "next" {
			t.Errorf("Dir: got %q, want %q", tpl.Dir, "next")
		}
	})

	t.Run("unknown_template_returns_sentinel", func(t *testing.T) {
		t.Parallel()
		_, err := Lookup("bogus")
		if err == nil {
			t.Fatal("Lookup(bogus) expected error, got nil")
		}
		if !errors.Is(err, ErrUnknownTemplate) {
			t.Errorf("error %v does not wrap ErrUnknownTemplate", err)
		}
	})

	t.Run("unknown_template_error_names_identifier", func(t *testing.T) {
		t.Parallel()
		_, err := Lookup("bogus")
		if err == nil {
			t.Fatal("expected error")
		}
		if got := err.Error(); !strings.Contains(got, `"bogus"`) {
			t.Errorf("error %q does not name the identifier", got)
		}
		if got := err.Error(); !strings.Contains(got, "hatch templates") {
			t.Errorf("error %q does not hint at the listing command", got)
		}
	})

	t.Run("default_template_is_in_catalog", func(t *testing.T) {
		t.Parallel()
		if _, err := Lookup(DefaultID); err != nil {
			t.Errorf("Lookup(DefaultID) error: %v", err)
		}
	})
}

func TestNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want NextStep
	}{
		{"next", NextDev},
		{"react", NextDev},
		{"react-ts", NextDev},
		{"vue", NextDev},
		{"vue-ts", NextDev},
		{"svelte", NextDev},
		{"express", NextDev},
		{"lib", NextBuild},
		{"lib-react", NextBuild},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()
			tpl, err := Lookup(tt.id)
			if err != nil {
				t.Fatalf("Lookup(%s) error: %v", tt.id, err)
			}
			if got := tpl.Next(); got != tt.want {
				t.Errorf("Next(): got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAll(t *testing.T) {
	t.Parallel()

	all, err := All()
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	if len(all) < 2 {
		t.Fatalf("All() returned %d templates, want at least 2", len(all))
	}

	t.Run("returns_copy", func(t *testing.T) {
		t.Parallel()
		a, _ := All()
		a[0].ID = "mutated"
		b, _ := All()
		if b[0].ID == "mutated" {
			t.Error("All() exposes internal slice")
		}
	})

	t.Run("every_entry_has_id_and_dir", func(t *testing.T) {
		t.Parallel()
		for _, tpl := range all {
			if tpl.ID == "" || tpl.Dir == "" {
				t.Errorf("entry %+v missing id or dir", tpl)
			}
		}
	})
}
