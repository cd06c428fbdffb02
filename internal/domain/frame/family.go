package frame

import (
	"errors"
	"fmt"
	"strings"
)

// Family is a widget size.
type Family string

const (
	// FamilySmall is the square small widget.
	FamilySmall Family = "Small"
	// FamilyMedium is the wide medium widget.
	FamilyMedium Family = "Medium"
	// FamilyLarge is the tall large widget.
	FamilyLarge Family = "Large"
	// FamilyExtraLarge is only available on large-screen devices.
	FamilyExtraLarge Family = "ExtraLarge"
)

// ErrUnknownFamily is returned by ParseFamily for unsupported values.
var ErrUnknownFamily = errors.New("unknown widget family")

// Size is a pixel size.
type Size struct {
	Width  int
	Height int
}

//nolint:gochecknoglobals // Read-only lookup table.
var familySizes = map[Family]Size{
	FamilySmall:      {Width: 338, Height: 338},
	FamilyMedium:     {Width: 720, Height: 338},
	FamilyLarge:      {Width: 720, Height: 758},
	FamilyExtraLarge: {Width: 1430, Height: 758},
}

// Families returns the widget sizes available on the device, smallest first.
func Families(largeScreen bool) []Family {
	families := []Family{FamilySmall, FamilyMedium, FamilyLarge}
	if largeScreen {
		families = append(families, FamilyExtraLarge)
	}

	return families
}

// ParseFamily matches s case-insensitively against the known families.
func ParseFamily(s string) (Family, error) {
	for family := range familySizes {
		if strings.EqualFold(string(family), strings.TrimSpace(s)) {
			return family, nil
		}
	}

	return "", fmt.Errorf("%q: %w", s, ErrUnknownFamily)
}

// Size returns the rendered pixel size of the family.
func (f Family) Size() Size {
	return familySizes[f]
}

// String implements fmt.Stringer.
func (f Family) String() string {
	return string(f)
}
