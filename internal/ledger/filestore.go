package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

// FileStore keeps the ledger in a single JSON document on local disk.
// Sales are structured sub-records, not re-parsed freeform strings; a
// record that fails to decode is skipped and logged instead of failing
// the whole read.
type FileStore struct {
	mu   sync.Mutex
	path string
	logg *logger.Logger
}

type fileDoc struct {
	NextSaleID int64             `json:"next_sale_id"`
	NextLineID int64             `json:"next_line_id"`
	Sales      []json.RawMessage `json:"sales"`
}

type fileSale struct {
	ID             int64       `json:"id"`
	RecordedAt     time.Time   `json:"recorded_at"`
	Total          money.Cents `json:"total_cents"`
	AmountTendered money.Cents `json:"amount_tendered_cents"`
	Change         money.Cents `json:"change_cents"`
	Lines          []fileLine  `json:"lines"`
}

type fileLine struct {
	ID        int64       `json:"id"`
	ItemName  string      `json:"item_name"`
	UnitPrice money.Cents `json:"unit_price_cents"`
	Quantity  int         `json:"quantity"`
	Position  int         `json:"position"`
}

// NewFileStore opens (or lazily creates) the ledger document at path.
func NewFileStore(path string, logg *logger.Logger) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger file path required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &FileStore{path: path, logg: logg}, nil
}

func (f *FileStore) Name() string {
	return "file"
}

func (f *FileStore) Append(ctx context.Context, sale *models.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, sales, err := f.load(ctx)
	if err != nil {
		return err
	}

	sale.ID = doc.NextSaleID
	doc.NextSaleID++

	record := fileSale{
		ID:             sale.ID,
		RecordedAt:     sale.RecordedAt,
		Total:          sale.TotalCents,
		AmountTendered: sale.AmountTenderedCents,
		Change:         sale.ChangeCents,
	}
	for i := range sale.Lines {
		sale.Lines[i].ID = doc.NextLineID
		sale.Lines[i].SaleID = sale.ID
		doc.NextLineID++
		record.Lines = append(record.Lines, fileLine{
			ID:        sale.Lines[i].ID,
			ItemName:  sale.Lines[i].ItemName,
			UnitPrice: sale.Lines[i].UnitPriceCents,
			Quantity:  sale.Lines[i].Quantity,
			Position:  sale.Lines[i].Position,
		})
	}

	sales = append(sales, record)
	return f.save(doc, sales)
}

func (f *FileStore) SalesBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, sales, err := f.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []models.Sale
	for _, record := range sales {
		if record.RecordedAt.Before(from) || record.RecordedAt.After(to) {
			continue
		}
		out = append(out, record.toModel())
	}
	// drafts may carry explicit timestamps, so insertion order is not enough
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.Before(out[j].RecordedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *FileStore) DeleteLineItem(ctx context.Context, saleID, lineID int64) (LineDeletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, sales, err := f.load(ctx)
	if err != nil {
		return LineDeletion{}, err
	}

	var result LineDeletion
	for i := range sales {
		if sales[i].ID != saleID {
			continue
		}
		for j, line := range sales[i].Lines {
			if line.ID != lineID {
				continue
			}
			sales[i].Lines = append(sales[i].Lines[:j], sales[i].Lines[j+1:]...)
			result.Found = true
			break
		}
		if !result.Found {
			return result, nil
		}

		if len(sales[i].Lines) == 0 {
			sales = append(sales[:i], sales[i+1:]...)
			result.SaleDeleted = true
			return result, f.save(doc, sales)
		}

		var total money.Cents
		for _, line := range sales[i].Lines {
			total += line.UnitPrice * money.Cents(line.Quantity)
		}
		sales[i].Total = total
		sales[i].Change = sales[i].AmountTendered - total
		result.NewTotal = total
		return result, f.save(doc, sales)
	}
	return result, nil
}

func (f *FileStore) DeleteSale(ctx context.Context, saleID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, sales, err := f.load(ctx)
	if err != nil {
		return false, err
	}

	for i := range sales {
		if sales[i].ID == saleID {
			sales = append(sales[:i], sales[i+1:]...)
			return true, f.save(doc, sales)
		}
	}
	return false, nil
}

// load reads the document and decodes its sale records, skipping (and
// logging) records that no longer parse.
func (f *FileStore) load(ctx context.Context) (*fileDoc, []fileSale, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return &fileDoc{NextSaleID: 1, NextLineID: 1}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading ledger file: %w", err)
	}

	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeMalformedData, err, "decoding ledger file")
	}
	if doc.NextSaleID < 1 {
		doc.NextSaleID = 1
	}
	if doc.NextLineID < 1 {
		doc.NextLineID = 1
	}

	sales := make([]fileSale, 0, len(doc.Sales))
	for i, raw := range doc.Sales {
		var record fileSale
		if err := json.Unmarshal(raw, &record); err != nil {
			lctx := f.logg.WithFields(ctx, map[string]any{"record_index": i, "error": err.Error()})
			f.logg.Warn(lctx, "skipping malformed sale record")
			continue
		}
		sales = append(sales, record)
	}
	return &doc, sales, nil
}

// save rewrites the whole document atomically via a temp file + rename.
func (f *FileStore) save(doc *fileDoc, sales []fileSale) error {
	doc.Sales = make([]json.RawMessage, 0, len(sales))
	for _, record := range sales {
		raw, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encoding sale record: %w", err)
		}
		doc.Sales = append(doc.Sales, raw)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger document: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("creating temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing ledger file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing ledger file: %w", err)
	}
	return nil
}

func (r fileSale) toModel() models.Sale {
	sale := models.Sale{
		ID:                  r.ID,
		RecordedAt:          r.RecordedAt,
		TotalCents:          r.Total,
		AmountTenderedCents: r.AmountTendered,
		ChangeCents:         r.Change,
	}
	for _, line := range r.Lines {
		sale.Lines = append(sale.Lines, models.SaleLineItem{
			ID:             line.ID,
			SaleID:         r.ID,
			ItemName:       line.ItemName,
			UnitPriceCents: line.UnitPrice,
			Quantity:       line.Quantity,
			Position:       line.Position,
		})
	}
	return sale
}
