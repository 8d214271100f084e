package browse

import (
	"fmt"
	"strings"

	"github.com/desertthunder/playlistctl/internal/shared"
)

// SortField selects the column a playlist list is ordered by.
type SortField int

const (
	FieldNone SortField = iota
	FieldName
	FieldDescription
	FieldSongs
)

func (f SortField) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldDescription:
		return "description"
	case FieldSongs:
		return "songs"
	default:
		return ""
	}
}

// Direction is ascending or descending.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Sort is a field and direction pair. The zero value leaves order unchanged.
type Sort struct {
	Field     SortField
	Direction Direction
}

// SortNone keeps the server's order.
var SortNone = Sort{}

// SortCycle is the order the shell steps through when cycling sort keys.
var SortCycle = []Sort{
	SortNone,
	{FieldName, Asc},
	{FieldName, Desc},
	{FieldSongs, Asc},
	{FieldSongs, Desc},
	{FieldDescription, Asc},
	{FieldDescription, Desc},
}

// String formats the sort key as "name-asc", "songs-desc" and so on. [SortNone] prints as "".
func (s Sort) String() string {
	if s.Field == FieldNone {
		return ""
	}
	return s.Field.String() + "-" + s.Direction.String()
}

// Toggle applies a column click: the same field flips direction, any other field starts ascending.
func (s Sort) Toggle(field SortField) Sort {
	if s.Field == field && s.Direction == Asc {
		return Sort{Field: field, Direction: Desc}
	}
	return Sort{Field: field, Direction: Asc}
}

// Next returns the key after s in [SortCycle], wrapping around.
func (s Sort) Next() Sort {
	for i, c := range SortCycle {
		if c == s {
			return SortCycle[(i+1)%len(SortCycle)]
		}
	}
	return SortCycle[0]
}

func (s Sort) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Sort) UnmarshalText(text []byte) error {
	parsed, err := ParseSort(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSort reads a sort key such as "name-asc". The empty string and "none" parse as [SortNone].
//
// The API's own field names (nombre, descripcion, canciones) are accepted as aliases.
func ParseSort(key string) (Sort, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || key == "none" {
		return SortNone, nil
	}

	field, dir, found := strings.Cut(key, "-")
	if !found {
		dir = "asc"
	}

	var s Sort
	switch field {
	case "name", "nombre":
		s.Field = FieldName
	case "description", "descripcion":
		s.Field = FieldDescription
	case "songs", "canciones":
		s.Field = FieldSongs
	default:
		return SortNone, fmt.Errorf("%w: unknown sort field %q", shared.ErrInvalidArgument, field)
	}

	switch dir {
	case "asc":
		s.Direction = Asc
	case "desc":
		s.Direction = Desc
	default:
		return SortNone, fmt.Errorf("%w: unknown sort direction %q", shared.ErrInvalidArgument, dir)
	}
	return s, nil
}
