package cost

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/familytrip/tripplanner/pkg/storage"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Get(ctx context.Context, date datekey.DateKey) (Record, error)
	Store(ctx context.Context, date datekey.DateKey, record Record) error
}

type RepositoryImpl struct {
	kv storage.Store
}

func NewRepository(kv storage.Store) *RepositoryImpl {
	return &RepositoryImpl{kv: kv}
}

type rowRecord struct {
	Category string          `json:"category"`
	Note     string          `json:"note"`
	Amount   json.RawMessage `json:"amount"`
}

type schemeRecord struct {
	Name string      `json:"name"`
	Rows []rowRecord `json:"rows"`
}

type costRecord struct {
	SchemeA *schemeRecord `json:"schemeA"`
	SchemeB *schemeRecord `json:"schemeB"`
}

// Get loads the record of date. A missing or unreadable record yields the default record.
func (r *RepositoryImpl) Get(ctx context.Context, date datekey.DateKey) (Record, error) {
	raw, found, err := r.kv.Get(ctx, datekey.CostKey(date))
	if err != nil {
		return Record{}, fmt.Errorf("failed to load costs for %s: %w", date, err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		return DefaultRecord(), nil
	}

	var stored costRecord
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Warnf("ignoring unreadable cost record for %s: %v", date, err)
		return DefaultRecord(), nil
	}
	return Record{
		SchemeA: schemeFromRecord(stored.SchemeA, SchemeA),
		SchemeB: schemeFromRecord(stored.SchemeB, SchemeB),
	}, nil
}

func (r *RepositoryImpl) Store(ctx context.Context, date datekey.DateKey, record Record) error {
	stored := costRecord{
		SchemeA: schemeToRecord(record.SchemeA),
		SchemeB: schemeToRecord(record.SchemeB),
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("could not encode costs for %s: %w", date, err)
	}
	if err := r.kv.Set(ctx, datekey.CostKey(date), string(data)); err != nil {
		return fmt.Errorf("failed to store costs for %s: %w", date, err)
	}
	return nil
}

func schemeFromRecord(s *schemeRecord, id SchemeID) Scheme {
	if s == nil {
		return Scheme{Name: id.DefaultName()}
	}
	scheme := Scheme{Name: s.Name, Rows: make([]Row, 0, len(s.Rows))}
	if scheme.Name == "" {
		scheme.Name = id.DefaultName()
	}
	for _, row := range s.Rows {
		category := Category(row.Category)
		if !category.IsValid() {
			category = DefaultCategory
		}
		scheme.Rows = append(scheme.Rows, Row{
			Category: category,
			Note:     row.Note,
			Amount:   amountFromJSON(row.Amount),
		})
	}
	return scheme
}

// amountFromJSON accepts numbers as well as formatted strings such as "3,500".
func amountFromJSON(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return ParseAmount(text)
	}
	return ParseAmount(string(raw))
}

func schemeToRecord(s Scheme) *schemeRecord {
	out := &schemeRecord{Name: s.Name, Rows: make([]rowRecord, 0, len(s.Rows))}
	for _, row := range s.Rows {
		out.Rows = append(out.Rows, rowRecord{
			Category: string(row.Category),
			Note:     row.Note,
			Amount:   json.RawMessage(row.Amount.String()),
		})
	}
	return out
}
