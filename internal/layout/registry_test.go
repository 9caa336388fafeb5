// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import (
	"errors"
	"testing"
)

func TestListTemplatesCatalog(t *testing.T) {
	infos := ListTemplates()
	if len(infos) < 3 {
		t.Fatalf("expected at least 3 starter templates, got %d", len(infos))
	}

	ids := map[string]bool{}
	for _, info := range infos {
		if info.ID == "" || info.Name == "" {
			t.Errorf("catalog entry missing id or name: %+v", info)
		}
		if ids[info.ID] {
			t.Errorf("duplicate template id %q", info.ID)
		}
		ids[info.ID] = true
	}
	for _, want := range []string{"padrao", "padrao_vip", "simples"} {
		if !ids[want] {
			t.Errorf("missing starter %q", want)
		}
	}
}

func TestGetTemplateReturnsValidCopies(t *testing.T) {
	for _, info := range ListTemplates() {
		tmpl, err := GetTemplate(info.ID)
		if err != nil {
			t.Fatalf("GetTemplate(%q): %v", info.ID, err)
		}
		if err := tmpl.Validate(); err != nil {
			t.Errorf("starter %q does not validate: %v", info.ID, err)
		}
		if len(tmpl.Elements) == 0 {
			t.Errorf("starter %q has no elements", info.ID)
		}

		// Mutating the returned copy must not corrupt the catalog.
		tmpl.Elements[0].Value = "mutated"
		again, _ := GetTemplate(info.ID)
		if again.Elements[0].Value == "mutated" {
			t.Errorf("starter %q is shared, not copied", info.ID)
		}
	}
}

func TestGetTemplateUnknownID(t *testing.T) {
	_, err := GetTemplate("nope")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("got %v, want ErrTemplateNotFound", err)
	}
}
