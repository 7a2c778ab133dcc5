package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"demo-storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, position int, p domain.Product) error
}

// Columns is the expected header of a product CSV. Optional columns may be
// missing or empty; list columns are separated by ';'.
var Columns = []string{
	"id", "slug", "title", "category", "price", "oldPrice", "stock", "rating",
	"reviewsCount", "tags", "shortDescription", "description", "images",
}

var requiredColumns = []string{"id", "slug", "title", "category", "price"}

// CSVImporter reads storefront product CSVs and upserts them in file order.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	offset      int
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// StartAt shifts catalog positions so imported products follow existing ones.
func (i *CSVImporter) StartAt(position int) *CSVImporter {
	i.offset = position
	return i
}

type pendingRow struct {
	line    int
	product domain.Product
}

// Run parses CSV rows and upserts one product per id. Rows carrying only
// images continue the product above them.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	var (
		current  *pendingRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		if isBlank(record) {
			continue
		}
		if pick(record, index, "id") == "" && onlyImages(record, index) {
			if current == nil {
				return imported, fmt.Errorf("line %d: image row without a product", line)
			}
			current.product.Images = append(current.product.Images, splitList(pick(record, index, "images"))...)
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if current != nil {
			if err := i.save(ctx, imported, current); err != nil {
				return imported, err
			}
			imported++
		}
		current = &pendingRow{line: line, product: p}
	}

	if current != nil {
		if err := i.save(ctx, imported, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, n int, row *pendingRow) error {
	if err := i.productRepo.Upsert(ctx, i.offset+n, row.product); err != nil {
		return fmt.Errorf("line %d: upsert product %q: %w", row.line, row.product.ID, err)
	}
	return nil
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		ID:               pick(record, index, "id"),
		Slug:             pick(record, index, "slug"),
		Title:            pick(record, index, "title"),
		Category:         domain.Category(strings.ToLower(pick(record, index, "category"))),
		Currency:         domain.CurrencyGEL,
		Tags:             splitList(pick(record, index, "tags")),
		ShortDescription: pick(record, index, "shortDescription"),
		Description:      pick(record, index, "description"),
		Images:           splitList(pick(record, index, "images")),
	}
	if p.ID == "" || p.Slug == "" || p.Title == "" {
		return p, fmt.Errorf("id, slug and title are required")
	}
	if !p.Category.Valid() {
		return p, fmt.Errorf("product %q: unknown category %q", p.ID, p.Category)
	}

	var err error
	if p.Price, err = parseFloat(record, index, "price", true); err != nil {
		return p, fmt.Errorf("product %q: %w", p.ID, err)
	}
	if p.Price < 0 {
		return p, fmt.Errorf("product %q: negative price", p.ID)
	}
	if raw := pick(record, index, "oldPrice"); raw != "" {
		old, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("product %q: invalid oldPrice %q", p.ID, raw)
		}
		p.OldPrice = &old
	}
	if p.Rating, err = parseFloat(record, index, "rating", false); err != nil {
		return p, fmt.Errorf("product %q: %w", p.ID, err)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return p, fmt.Errorf("product %q: rating %v outside 0..5", p.ID, p.Rating)
	}
	if p.Stock, err = parseInt(record, index, "stock"); err != nil {
		return p, fmt.Errorf("product %q: %w", p.ID, err)
	}
	if p.ReviewsCount, err = parseInt(record, index, "reviewsCount"); err != nil {
		return p, fmt.Errorf("product %q: %w", p.ID, err)
	}
	return p, nil
}

func parseFloat(record []string, index map[string]int, key string, required bool) (float64, error) {
	raw := pick(record, index, key)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%s is required", key)
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}

func parseInt(record []string, index map[string]int, key string) (int, error) {
	raw := pick(record, index, key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}

func onlyImages(record []string, index map[string]int) bool {
	if pick(record, index, "images") == "" {
		return false
	}
	for col, pos := range index {
		if col != "images" && pos < len(record) && strings.TrimSpace(record[pos]) != "" {
			return false
		}
	}
	return true
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
