package model

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Category is a single log entry tag. Each tag occupies its own bit so that
// tags combine into a CategorySet.
type Category uint8

const (
	CategoryNone Category = 0
	CategoryL    Category = 1 << 1
	CategoryW    Category = 1 << 2
	CategoryE    Category = 1 << 3
	CategoryI    Category = 1 << 4
	CategoryC    Category = 1 << 5
	CategoryP    Category = 1 << 6
)

// knownCategories lists every tag in file order.
var knownCategories = []Category{CategoryL, CategoryW, CategoryE, CategoryI, CategoryC, CategoryP}

// ParseCategory maps a tag character to its Category.
func ParseCategory(c byte) (Category, bool) {
	switch c {
	case 'L':
		return CategoryL, true
	case 'W':
		return CategoryW, true
	case 'E':
		return CategoryE, true
	case 'I':
		return CategoryI, true
	case 'C':
		return CategoryC, true
	case 'P':
		return CategoryP, true
	default:
		return CategoryNone, false
	}
}

// Letter returns the tag character, or '?' for anything that is not a single known tag.
func (c Category) Letter() byte {
	switch c {
	case CategoryL:
		return 'L'
	case CategoryW:
		return 'W'
	case CategoryE:
		return 'E'
	case CategoryI:
		return 'I'
	case CategoryC:
		return 'C'
	case CategoryP:
		return 'P'
	default:
		return '?'
	}
}

func (c Category) String() string {
	return string(c.Letter())
}

// Valid reports whether c is exactly one known tag.
func (c Category) Valid() bool {
	_, ok := ParseCategory(c.Letter())
	return ok
}

func (c Category) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err != nil {
		return err
	}
	if len(s) != 1 {
		return fmt.Errorf("invalid category %q", s)
	}
	parsed, ok := ParseCategory(s[0])
	if !ok {
		return fmt.Errorf("invalid category %q", s)
	}
	*c = parsed
	return nil
}

// CategorySet is a union of categories used as a page filter.
type CategorySet uint8

// CategoryAll matches every known tag.
const CategoryAll = CategorySet(CategoryL | CategoryW | CategoryE | CategoryI | CategoryC | CategoryP)

// SetOf builds a set from individual categories.
func SetOf(categories ...Category) CategorySet {
	var s CategorySet
	for _, c := range categories {
		s |= CategorySet(c)
	}
	return s
}

// Contains reports whether c is a member of s.
func (s CategorySet) Contains(c Category) bool {
	return c != CategoryNone && CategorySet(c)&s == CategorySet(c)
}

// Intersects reports whether s and other share at least one tag.
func (s CategorySet) Intersects(other CategorySet) bool {
	return s&other != 0
}

func (s CategorySet) Union(other CategorySet) CategorySet {
	return (s | other) & CategoryAll
}

func (s CategorySet) IsEmpty() bool {
	return s&CategoryAll == 0
}

// Categories returns the members of s in file order.
func (s CategorySet) Categories() []Category {
	var out []Category
	for _, c := range knownCategories {
		if s.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// String renders the set as "ALL", "NONE" or comma separated letters.
func (s CategorySet) String() string {
	switch s & CategoryAll {
	case CategoryAll:
		return "ALL"
	case 0:
		return "NONE"
	}
	letters := make([]string, 0, len(knownCategories))
	for _, c := range s.Categories() {
		letters = append(letters, c.String())
	}
	return strings.Join(letters, ",")
}

// ParseCategorySet accepts "all", comma separated tags ("E,I") or packed
// tags ("EI"). Whitespace and case are ignored.
func ParseCategorySet(value string) (CategorySet, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return CategoryAll, nil
	}

	var s CategorySet
	for _, r := range strings.ToUpper(value) {
		if r == ',' || r == ' ' || r == '|' {
			continue
		}
		if r > 0x7f {
			return 0, fmt.Errorf("invalid category %q in filter %q", r, value)
		}
		c, ok := ParseCategory(byte(r))
		if !ok {
			return 0, fmt.Errorf("invalid category %q in filter %q (valid: L, W, E, I, C, P, all)", r, value)
		}
		s |= CategorySet(c)
	}
	return s, nil
}

func (s CategorySet) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(s.String())
}

func (s *CategorySet) UnmarshalJSON(data []byte) error {
	var str string
	if err := sonic.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "NONE" {
		*s = 0
		return nil
	}
	parsed, err := ParseCategorySet(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
