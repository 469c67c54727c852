package cost

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownScheme   = errors.New("unknown scheme")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownField    = errors.New("unknown row field")
	ErrRowNotFound     = errors.New("cost row not found")
	ErrFieldDisabled   = errors.New("note and amount are disabled for this category")
)

type SchemeID string

const (
	SchemeA SchemeID = "A"
	SchemeB SchemeID = "B"
)

const (
	DefaultSchemeAName = "方案A"
	DefaultSchemeBName = "方案B"
)

func ParseSchemeID(s string) (SchemeID, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return SchemeA, nil
	case "B":
		return SchemeB, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

func (id SchemeID) DefaultName() string {
	if id == SchemeB {
		return DefaultSchemeBName
	}
	return DefaultSchemeAName
}

type Row struct {
	ID       string
	Category Category
	Note     string
	Amount   decimal.Decimal
}

// Counts reports whether the row takes part in the scheme total.
func (r Row) Counts() bool {
	return r.Category != CategoryNone
}

type Scheme struct {
	Name string
	Rows []Row
}

func (s Scheme) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Rows {
		if r.Counts() {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// Record is the persisted cost comparison of one day.
type Record struct {
	SchemeA Scheme
	SchemeB Scheme
}

func DefaultRecord() Record {
	return Record{
		SchemeA: Scheme{Name: DefaultSchemeAName},
		SchemeB: Scheme{Name: DefaultSchemeBName},
	}
}

type Field string

const (
	FieldCategory Field = "category"
	FieldNote     Field = "note"
	FieldAmount   Field = "amount"
)

// Ledger is the editable working copy of a Record.
type Ledger struct {
	schemes map[SchemeID]*Scheme
}

func NewLedger(record Record) *Ledger {
	return &Ledger{schemes: map[SchemeID]*Scheme{
		SchemeA: cloneScheme(record.SchemeA, SchemeA),
		SchemeB: cloneScheme(record.SchemeB, SchemeB),
	}}
}

func cloneScheme(s Scheme, id SchemeID) *Scheme {
	out := &Scheme{Name: s.Name, Rows: make([]Row, 0, len(s.Rows))}
	if strings.TrimSpace(out.Name) == "" {
		out.Name = id.DefaultName()
	}
	for _, r := range s.Rows {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if !r.Category.IsValid() {
			r.Category = DefaultCategory
		}
		out.Rows = append(out.Rows, normalise(r))
	}
	return out
}

func normalise(r Row) Row {
	if r.Category == CategoryNone {
		r.Note = ""
		r.Amount = decimal.Zero
	}
	if r.Amount.IsNegative() {
		r.Amount = decimal.Zero
	}
	return r
}

func (l *Ledger) scheme(id SchemeID) (*Scheme, error) {
	s, ok := l.schemes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, id)
	}
	return s, nil
}

func (l *Ledger) Scheme(id SchemeID) (Scheme, error) {
	s, err := l.scheme(id)
	if err != nil {
		return Scheme{}, err
	}
	return Scheme{Name: s.Name, Rows: slices.Clone(s.Rows)}, nil
}

// AddRow appends a row with the default category and a zero amount.
func (l *Ledger) AddRow(id SchemeID) (Row, error) {
	s, err := l.scheme(id)
	if err != nil {
		return Row{}, err
	}
	row := Row{ID: uuid.NewString(), Category: DefaultCategory, Amount: decimal.Zero}
	s.Rows = append(s.Rows, row)
	return row, nil
}

// UpdateRow sets one field from its input text. Switching to CategoryNone clears the note and
// zeroes the amount; switching back does not restore them.
func (l *Ledger) UpdateRow(id SchemeID, rowID string, field Field, value string) (Row, error) {
	s, err := l.scheme(id)
	if err != nil {
		return Row{}, err
	}
	i := slices.IndexFunc(s.Rows, func(r Row) bool { return r.ID == rowID })
	if i < 0 {
		return Row{}, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}
	row := s.Rows[i]

	switch field {
	case FieldCategory:
		c, err := ParseCategory(value)
		if err != nil {
			return Row{}, err
		}
		row.Category = c
	case FieldNote:
		if !row.Counts() {
			return Row{}, ErrFieldDisabled
		}
		row.Note = value
	case FieldAmount:
		if !row.Counts() {
			return Row{}, ErrFieldDisabled
		}
		row.Amount = ParseAmount(value)
	default:
		return Row{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	s.Rows[i] = normalise(row)
	return s.Rows[i], nil
}

func (l *Ledger) RemoveRow(id SchemeID, rowID string) error {
	s, err := l.scheme(id)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(s.Rows, func(r Row) bool { return r.ID == rowID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}
	s.Rows = slices.Delete(s.Rows, i, i+1)
	return nil
}

// Rename sets the scheme name as typed. Trimming and defaulting happen in Record.
func (l *Ledger) Rename(id SchemeID, name string) error {
	s, err := l.scheme(id)
	if err != nil {
		return err
	}
	s.Name = name
	return nil
}

func (l *Ledger) Total(id SchemeID) (decimal.Decimal, error) {
	s, err := l.scheme(id)
	if err != nil {
		return decimal.Zero, err
	}
	return s.Total(), nil
}

func (l *Ledger) FormattedTotal(id SchemeID) (string, error) {
	total, err := l.Total(id)
	if err != nil {
		return "", err
	}
	return FormatAmount(total), nil
}

// Record returns the state as it is saved: names trimmed and defaulted, notes trimmed.
func (l *Ledger) Record() Record {
	return Record{
		SchemeA: l.savedScheme(SchemeA),
		SchemeB: l.savedScheme(SchemeB),
	}
}

func (l *Ledger) savedScheme(id SchemeID) Scheme {
	s := l.schemes[id]
	out := Scheme{Name: strings.TrimSpace(s.Name), Rows: make([]Row, 0, len(s.Rows))}
	if out.Name == "" {
		out.Name = id.DefaultName()
	}
	for _, r := range s.Rows {
		r.Note = strings.TrimSpace(r.Note)
		out.Rows = append(out.Rows, r)
	}
	return out
}
