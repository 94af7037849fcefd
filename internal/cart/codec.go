package cart

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/drinksip-cart/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// lineItemRecord is the persisted shape of a line item. Fields may be added
// over time, so decoding ignores unknown keys and tolerates missing ones.
type lineItemRecord struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variantId"`
	Handle    string          `json:"handle"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency,omitempty"`
	Quantity  int             `json:"quantity"`
	Color     string          `json:"color,omitempty"`
	AddedAt   time.Time       `json:"addedAt,omitzero"`
}

func encodeItems(items []domain.LineItem) (string, error) {
	records := make([]lineItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, mapLineItemToRecord(item))
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(data), nil
}

func decodeRecords(blob string) ([]lineItemRecord, error) {
	var records []lineItemRecord
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return records, nil
}

func mapLineItemToRecord(item domain.LineItem) lineItemRecord {
	return lineItemRecord{
		ID:        item.ID,
		VariantID: item.VariantID,
		Handle:    item.Handle,
		Title:     item.Title,
		Image:     item.Image,
		Price:     item.Price.Amount,
		Currency:  item.Price.Currency.String(),
		Quantity:  item.Quantity,
		Color:     item.Color,
		AddedAt:   item.AddedAt,
	}
}

func mapRecordToLineItem(rec lineItemRecord, fallback currency.Unit) (domain.LineItem, error) {
	if rec.VariantID == "" {
		return domain.LineItem{}, fmt.Errorf("variantId is empty")
	}
	if rec.Quantity <= 0 {
		return domain.LineItem{}, fmt.Errorf("quantity[%d] is not positive", rec.Quantity)
	}

	unit := fallback
	if rec.Currency != "" {
		parsed, err := currency.ParseISO(rec.Currency)
		if err != nil {
			return domain.LineItem{}, fmt.Errorf("currency[%s] is not valid: %w", rec.Currency, err)
		}
		unit = parsed
	}

	id := rec.ID
	if id == "" {
		id = newLineID(rec.VariantID)
	}

	return domain.LineItem{
		ID:        id,
		VariantID: rec.VariantID,
		Handle:    rec.Handle,
		Title:     rec.Title,
		Image:     rec.Image,
		Price:     domain.Money{Amount: rec.Price, Currency: unit},
		Quantity:  rec.Quantity,
		Color:     rec.Color,
		AddedAt:   rec.AddedAt,
	}, nil
}

// newLineID combines the variant with a time-ordered UUID, so re-adding a
// variant that was removed earlier never reuses an old id.
func newLineID(variantID string) string {
	return variantID + "-" + uuid.Must(uuid.NewV7()).String()
}
