package board

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"sort"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// Size is the number of spaces on a board.
const Size = 40

const (
	GoPosition       = 0
	JailPosition     = 10
	GoToJailPosition = 30
)

var (
	//go:embed properties.json
	defaultProperties []byte
	//go:embed specials.json
	defaultSpecials []byte
)

var ErrNotFound = errors.New("not found")

// LoadProperties reads a board definition from a JSON file.
func LoadProperties(path string) ([]models.Property, error) {
	jsonFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open board: %w", err)
	}
	defer jsonFile.Close()

	byteValue, err := ioutil.ReadAll(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	return parseProperties(byteValue)
}

// DefaultProperties returns the embedded classic board.
func DefaultProperties() []models.Property {
	properties, err := parseProperties(defaultProperties)
	if err != nil {
		panic(err)
	}
	return properties
}

func parseProperties(data []byte) ([]models.Property, error) {
	var properties []models.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if err := Validate(properties); err != nil {
		return nil, err
	}
	sort.Slice(properties, func(i, j int) bool { return properties[i].Position < properties[j].Position })
	return properties, nil
}

// Validate checks that a definition has exactly one space per position and sane deeds.
func Validate(properties []models.Property) error {
	if len(properties) != Size {
		return fmt.Errorf("board must have %d spaces, got %d", Size, len(properties))
	}
	seen := make(map[int]bool, Size)
	for _, p := range properties {
		if p.Position < 0 || p.Position >= Size {
			return fmt.Errorf("space %q: position %d out of range", p.Name, p.Position)
		}
		if seen[p.Position] {
			return fmt.Errorf("duplicate position %d", p.Position)
		}
		seen[p.Position] = true
		if !p.Type.Valid() {
			return fmt.Errorf("space %q: unknown type %q", p.Name, p.Type)
		}
		if !p.Type.Ownable() {
			continue
		}
		if p.Price <= 0 || p.Group == "" || len(p.Rents) == 0 {
			return fmt.Errorf("space %q: ownable space needs price, group and rents", p.Name)
		}
		if p.Type == models.KindProperty && len(p.Rents) != 6 {
			return fmt.Errorf("space %q: property needs 6 rent tiers", p.Name)
		}
	}
	return nil
}

// NewSpaces builds the mutable board of a session from its definition.
func NewSpaces(properties []models.Property) []*models.Space {
	spaces := make([]*models.Space, len(properties))
	for i, p := range properties {
		spaces[i] = models.NewSpace(p)
	}
	return spaces
}

func GetByPos(pos int, properties []models.Property) (models.Property, error) {
	for _, property := range properties {
		if property.Position == pos {
			return property, nil
		}
	}
	return models.Property{}, ErrNotFound
}

// Group returns the spaces of a colour group in board order.
func Group(spaces []*models.Space, group string) []*models.Space {
	var out []*models.Space
	for _, s := range spaces {
		if s.Deed != nil && s.Deed.Group == group {
			out = append(out, s)
		}
	}
	return out
}

// Groups lists the distinct groups of the board in board order.
func Groups(spaces []*models.Space) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range spaces {
		if s.Deed == nil || seen[s.Deed.Group] {
			continue
		}
		seen[s.Deed.Group] = true
		out = append(out, s.Deed.Group)
	}
	return out
}

// HasMonopoly reports whether every space of the group is owned by playerID.
func HasMonopoly(spaces []*models.Space, playerID, group string) bool {
	members := Group(spaces, group)
	if len(members) == 0 || playerID == "" {
		return false
	}
	for _, s := range members {
		if s.Deed.OwnerID != playerID {
			return false
		}
	}
	return true
}

// Monopolies lists the buildable groups fully held by playerID.
func Monopolies(spaces []*models.Space, playerID string) []string {
	var out []string
	for _, g := range Groups(spaces) {
		members := Group(spaces, g)
		if members[0].Kind != models.KindProperty {
			continue
		}
		if HasMonopoly(spaces, playerID, g) {
			out = append(out, g)
		}
	}
	return out
}

// CountOwned returns how many spaces of the group playerID owns.
func CountOwned(spaces []*models.Space, playerID, group string) int {
	n := 0
	for _, s := range Group(spaces, group) {
		if s.Deed.OwnerID == playerID {
			n++
		}
	}
	return n
}

// LoadSpecial returns the chance ("chance") and community chest ("chest") decks.
func LoadSpecial() map[string][]models.Special {
	var specials map[string][]models.Special
	if err := json.Unmarshal(defaultSpecials, &specials); err != nil {
		panic(err)
	}
	return specials
}
