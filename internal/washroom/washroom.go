package washroom

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Floor is a building level as reported by the backend ("G", "L1".."L7").
type Floor string

// ToiletType is the washroom category on a floor.
type ToiletType string

const (
	FloorG  Floor = "G"
	FloorL1 Floor = "L1"
	FloorL2 Floor = "L2"
	FloorL3 Floor = "L3"
	FloorL4 Floor = "L4"
	FloorL5 Floor = "L5"
	FloorL6 Floor = "L6"
	FloorL7 Floor = "L7"
)

const (
	Male   ToiletType = "male"
	Female ToiletType = "female"
	OKU    ToiletType = "oku"
)

var (
	floorOrder = []Floor{FloorG, FloorL1, FloorL2, FloorL3, FloorL4, FloorL5, FloorL6, FloorL7}
	typeOrder  = []ToiletType{OKU, Male, Female}
)

var ErrInvalidIdentifier = errors.New("invalid washroom identifier")

// Identifier names one physical washroom.
type Identifier struct {
	Floor Floor
	Type  ToiletType
}

// String returns the "<floor> <type>" form used on the wire and in labels.
func (id Identifier) String() string {
	return string(id.Floor) + " " + string(id.Type)
}

// IsZero reports whether id has neither floor nor type.
func (id Identifier) IsZero() bool {
	return id.Floor == "" && id.Type == ""
}

// Parse reads the "<floor> <type>" form. Unknown floors and types are
// accepted; only the shape is validated.
func Parse(s string) (Identifier, error) {
	floor, typ, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok || floor == "" || typ == "" || strings.Contains(typ, " ") {
		return Identifier{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return Identifier{Floor: Floor(floor), Type: ToiletType(typ)}, nil
}

// Known reports whether f is one of the fixed building levels.
func (f Floor) Known() bool {
	return slices.Contains(floorOrder, f)
}

// Known reports whether t is one of the fixed washroom categories.
func (t ToiletType) Known() bool {
	return slices.Contains(typeOrder, t)
}

// ParseToiletType validates a category name.
func ParseToiletType(s string) (ToiletType, error) {
	t := ToiletType(s)
	if !t.Known() {
		return "", fmt.Errorf("%w: unknown toilet type %q", ErrInvalidIdentifier, s)
	}
	return t, nil
}

// Compare orders identifiers by floor (G, L1..L7) then by type (oku, male,
// female). Values outside the fixed sequences sort after the known ones and
// compare byte-wise among themselves, so the order stays total.
func Compare(a, b Identifier) int {
	if c := compareRanked(floorOrder, a.Floor, b.Floor); c != 0 {
		return c
	}
	return compareRanked(typeOrder, a.Type, b.Type)
}

// CompareFloor orders floors alone.
func CompareFloor(a, b Floor) int {
	return compareRanked(floorOrder, a, b)
}

// Sort orders ids in place using Compare.
func Sort(ids []Identifier) {
	slices.SortStableFunc(ids, Compare)
}

// Sorted returns a sorted copy of ids.
func Sorted(ids []Identifier) []Identifier {
	out := slices.Clone(ids)
	Sort(out)
	return out
}

func compareRanked[T ~string](order []T, a, b T) int {
	ia, ib := rank(order, a), rank(order, b)
	if ia != ib {
		return cmp.Compare(ia, ib)
	}
	if ia == len(order) {
		return strings.Compare(string(a), string(b))
	}
	return 0
}

func rank[T comparable](order []T, v T) int {
	if i := slices.Index(order, v); i >= 0 {
		return i
	}
	return len(order)
}
