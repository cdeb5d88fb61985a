package board

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DedS3t/monopoly-engine/app/models"
)

func TestDefaultProperties(t *testing.T) {
	properties := DefaultProperties()
	if len(properties) != Size {
		t.Fatalf("len = %d, want %d", len(properties), Size)
	}
	for i, p := range properties {
		if p.Position != i {
			t.Fatalf("properties[%d].Position = %d", i, p.Position)
		}
	}
	if properties[JailPosition].Type != models.KindJail || properties[GoToJailPosition].Type != models.KindGoToJail {
		t.Fatalf("jail corners = %s / %s", properties[JailPosition].Type, properties[GoToJailPosition].Type)
	}
	mayfair, err := GetByPos(39, properties)
	if err != nil || mayfair.Price != 400 {
		t.Fatalf("GetByPos(39) = %+v, %v", mayfair, err)
	}
	if _, err := GetByPos(40, properties); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByPos(40) error = %v, want ErrNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]models.Property) []models.Property
	}{
		{name: "short board", mutate: func(p []models.Property) []models.Property { return p[:39] }},
		{name: "duplicate position", mutate: func(p []models.Property) []models.Property {
			p[2].Position = 1
			return p
		}},
		{name: "unknown type", mutate: func(p []models.Property) []models.Property {
			p[4].Type = "casino"
			return p
		}},
		{name: "deed without price", mutate: func(p []models.Property) []models.Property {
			p[1].Price = 0
			return p
		}},
		{name: "property missing rent tiers", mutate: func(p []models.Property) []models.Property {
			p[3].Rents = p[3].Rents[:2]
			return p
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.mutate(DefaultProperties())); err == nil {
				t.Fatalf("Validate() accepted a broken board")
			}
		})
	}
	if err := Validate(DefaultProperties()); err != nil {
		t.Fatalf("Validate(default) error = %v", err)
	}
}

func TestLoadProperties(t *testing.T) {
	data, err := json.Marshal(DefaultProperties())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "board.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	properties, err := LoadProperties(path)
	if err != nil || len(properties) != Size {
		t.Fatalf("LoadProperties() = %d spaces, %v", len(properties), err)
	}
	if _, err := LoadProperties(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("LoadProperties(missing) succeeded")
	}
}

func TestMonopolies(t *testing.T) {
	spaces := NewSpaces(DefaultProperties())
	own := func(owner string, positions ...int) {
		for _, p := range positions {
			spaces[p].Deed.OwnerID = owner
		}
	}
	own("a", 1, 3, 5, 15, 25, 35)
	own("b", 6, 8)

	if !HasMonopoly(spaces, "a", "brown") || HasMonopoly(spaces, "b", "light_blue") {
		t.Fatalf("monopoly detection wrong")
	}
	// stations are a full set but never buildable
	if got := Monopolies(spaces, "a"); len(got) != 1 || got[0] != "brown" {
		t.Fatalf("Monopolies(a) = %v, want [brown]", got)
	}
	if got := CountOwned(spaces, "b", spaces[6].Deed.Group); got != 2 {
		t.Fatalf("CountOwned = %d, want 2", got)
	}
	own("b", 9)
	if !HasMonopoly(spaces, "b", spaces[9].Deed.Group) {
		t.Fatalf("completing the light blue set not detected")
	}
	// revoked once a member changes hands
	own("c", 3)
	if HasMonopoly(spaces, "a", "brown") {
		t.Fatalf("monopoly survived a transfer")
	}
}

func TestLoadSpecial(t *testing.T) {
	decks := LoadSpecial()
	if len(decks["chance"]) == 0 || len(decks["chest"]) == 0 {
		t.Fatalf("decks = %d chance, %d chest", len(decks["chance"]), len(decks["chest"]))
	}
}
