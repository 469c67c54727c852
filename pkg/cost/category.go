package cost

import "fmt"

type Category string

const (
	CategoryFood          Category = "食"
	CategoryClothing      Category = "衣"
	CategoryLodging       Category = "住"
	CategoryTransport     Category = "行"
	CategoryEntertainment Category = "娛樂"
	CategoryOther         Category = "其他"
	// CategoryNone marks a row that takes no part in the total; its note and amount are disabled.
	CategoryNone Category = "無"
)

// Categories lists the choices in display order.
var Categories = []Category{
	CategoryFood,
	CategoryClothing,
	CategoryLodging,
	CategoryTransport,
	CategoryEntertainment,
	CategoryOther,
	CategoryNone,
}

// DefaultCategory is what a freshly added row starts with.
const DefaultCategory = CategoryFood

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}
