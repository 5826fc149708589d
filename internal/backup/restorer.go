package backup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nithyasundar/bakehouse-backend/pkg/config"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
	"github.com/nithyasundar/bakehouse-backend/pkg/logger"
)

// TableState tracks a table's progress through the restore pipeline.
type TableState string

const (
	StatePending  TableState = "pending"
	StateFetched  TableState = "fetched"
	StateRepaired TableState = "repaired"
	StateWritten  TableState = "written"
	StateSkipped  TableState = "skipped"
)

// TableResult reports what happened to one table.
type TableResult struct {
	Name    string
	State   TableState
	Fetched int
	Dropped int
	Written int
	Err     error
}

// Summary aggregates per-table results for the whole run.
type Summary struct {
	Tables []TableResult
}

// Result returns the entry for the named table, or nil.
func (s *Summary) Result(name string) *TableResult {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Restorer writes a snapshot into the destination database. There is no
// rollback: tables that fail are reported and the run keeps going.
type Restorer struct {
	db    *gorm.DB
	log   *logger.Logger
	delay time.Duration
}

// NewRestorer builds a restorer paced by the configured table delay.
func NewRestorer(db *gorm.DB, log *logger.Logger, cfg config.BackupConfig) (*Restorer, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Restorer{
		db:    db,
		log:   log,
		delay: cfg.TableDelay,
	}, nil
}

// Restore walks the tables in dependency order, repairing foreign keys
// against the destination before each write. The returned error
// aggregates every per-table failure.
func (r *Restorer) Restore(ctx context.Context, snapshot *Snapshot) (*Summary, error) {
	if snapshot == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot required")
	}

	summary := &Summary{}
	var errs error

	for i, spec := range Specs {
		if i > 0 {
			if err := r.pause(ctx); err != nil {
				return summary, multierr.Append(errs, err)
			}
		}

		result := r.restoreTable(ctx, snapshot, spec.Name)
		summary.Tables = append(summary.Tables, result)
		if result.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("table %s: %w", spec.Name, result.Err))
		}
	}

	return summary, errs
}

func (r *Restorer) restoreTable(ctx context.Context, snapshot *Snapshot, table string) TableResult {
	result := TableResult{Name: table, State: StatePending}
	tctx := r.log.WithTable(ctx, table)

	rows := snapshot.Tables[table]
	result.Fetched = len(rows)
	result.State = StateFetched

	if identityTables[table] && !hasIdentityRefs(rows) {
		result.State = StateSkipped
		r.log.Info(tctx, "no identity references, table skipped")
		return result
	}

	repaired, dropped, err := r.repairRows(ctx, snapshot, table, rows)
	if err != nil {
		result.Err = err
		r.log.Error(tctx, "repair failed", err)
		return result
	}
	result.Dropped = dropped
	result.State = StateRepaired

	if len(repaired) == 0 {
		result.State = StateWritten
		r.log.Info(tctx, "nothing to write")
		return result
	}

	written, err := r.writeRows(ctx, table, repaired)
	result.Written = written
	if err != nil {
		result.Err = err
		r.log.Error(tctx, "write failed", err)
		return result
	}

	result.State = StateWritten
	r.log.Info(r.log.WithFields(tctx, map[string]any{
		"written": written,
		"dropped": dropped,
	}), "table restored")
	return result
}

// repairRows rewrites foreign keys so every surviving row references
// something that exists in the destination.
func (r *Restorer) repairRows(ctx context.Context, snapshot *Snapshot, table string, rows []Row) ([]Row, int, error) {
	switch table {
	case "products":
		return r.repairProducts(ctx, snapshot, rows)
	case "product_tags":
		return r.repairProductTags(ctx, rows)
	case "order_items":
		return r.repairOrderItems(ctx, rows)
	default:
		return rows, 0, nil
	}
}

// repairProducts backfills the legacy price columns and remaps
// category_id onto the destination. A product whose category cannot be
// resolved by id or by case-insensitive name is dropped from the batch.
func (r *Restorer) repairProducts(ctx context.Context, snapshot *Snapshot, rows []Row) ([]Row, int, error) {
	backupNames := map[string]string{}
	for _, category := range snapshot.Tables["categories"] {
		id := stringField(category, "id")
		name := stringField(category, "name")
		if id != "" && name != "" {
			backupNames[id] = name
		}
	}

	destIDs, err := r.existingIDs(ctx, "categories")
	if err != nil {
		return nil, 0, err
	}
	destByName, err := r.categoryIDsByName(ctx)
	if err != nil {
		return nil, 0, err
	}

	dropped := 0
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		backfillPrice(row)

		categoryID := stringField(row, "category_id")
		if categoryID == "" || destIDs[categoryID] {
			out = append(out, row)
			continue
		}

		name := backupNames[categoryID]
		destID, ok := destByName[strings.ToLower(name)]
		if name == "" || !ok {
			dropped++
			continue
		}
		row["category_id"] = destID
		out = append(out, row)
	}
	return out, dropped, nil
}

// backfillPrice mirrors price and selling_price into each other when
// one side predates the schema rename.
func backfillPrice(row Row) {
	price := row["price"]
	sellingPrice := row["selling_price"]
	if price != nil && sellingPrice == nil {
		row["selling_price"] = price
	}
	if sellingPrice != nil && price == nil {
		row["price"] = sellingPrice
	}
}

func (r *Restorer) repairProductTags(ctx context.Context, rows []Row) ([]Row, int, error) {
	productIDs, err := r.existingIDs(ctx, "products")
	if err != nil {
		return nil, 0, err
	}
	tagIDs, err := r.existingIDs(ctx, "tags")
	if err != nil {
		return nil, 0, err
	}

	dropped := 0
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !productIDs[stringField(row, "product_id")] || !tagIDs[stringField(row, "tag_id")] {
			dropped++
			continue
		}
		out = append(out, row)
	}
	return out, dropped, nil
}

func (r *Restorer) repairOrderItems(ctx context.Context, rows []Row) ([]Row, int, error) {
	orderIDs, err := r.existingIDs(ctx, "orders")
	if err != nil {
		return nil, 0, err
	}
	productIDs, err := r.existingIDs(ctx, "products")
	if err != nil {
		return nil, 0, err
	}

	dropped := 0
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !orderIDs[stringField(row, "order_id")] || !productIDs[stringField(row, "product_id")] {
			dropped++
			continue
		}
		out = append(out, row)
	}
	return out, dropped, nil
}

// writeRows upserts by primary key. Name-unique tables keep whatever
// row the destination already holds; when one of them still trips a
// duplicate name, the batch falls back to one row at a time, counting
// duplicates as already present instead of failing the table.
func (r *Restorer) writeRows(ctx context.Context, table string, rows []Row) (int, error) {
	err := r.upsert(ctx, table, rows)
	if err == nil {
		return len(rows), nil
	}
	if !nameUniqueTables[table] || !pkgerrors.IsDuplicateKey(err) {
		return 0, err
	}

	written := 0
	for _, row := range rows {
		rowErr := r.upsert(ctx, table, []Row{row})
		if rowErr == nil {
			written++
			continue
		}
		if pkgerrors.IsDuplicateKey(rowErr) {
			continue
		}
		return written, rowErr
	}
	return written, nil
}

func (r *Restorer) upsert(ctx context.Context, table string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	columns := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		if column == "id" {
			continue
		}
		columns = append(columns, column)
	}

	q := r.db.WithContext(ctx).Table(table)
	switch {
	case nameUniqueTables[table]:
		// Rows already present in the destination win; overwriting
		// them could collide with a sibling row's unique name.
		q = q.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		})
	case len(columns) > 0:
		q = q.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		})
	default:
		q = q.Clauses(clause.OnConflict{DoNothing: true})
	}
	return q.Create(&rows).Error
}

func (r *Restorer) existingIDs(ctx context.Context, table string) (map[string]bool, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Table(table).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *Restorer) categoryIDsByName(ctx context.Context) (map[string]string, error) {
	type pair struct {
		ID   string
		Name string
	}
	var pairs []pair
	if err := r.db.WithContext(ctx).Table("categories").Select("id", "name").Find(&pairs).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(pairs))
	for _, p := range pairs {
		byName[strings.ToLower(p.Name)] = p.ID
	}
	return byName, nil
}

func (r *Restorer) pause(ctx context.Context) error {
	if r.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.delay):
		return nil
	}
}

// hasIdentityRefs reports whether any row carries a user_id. The
// identity rows themselves live in an external auth system, so a batch
// with no references has nothing the destination can anchor.
func hasIdentityRefs(rows []Row) bool {
	for _, row := range rows {
		if stringField(row, "user_id") != "" {
			return true
		}
	}
	return false
}

func stringField(row Row, key string) string {
	value, ok := row[key]
	if !ok || value == nil {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%v", value)
	}
	return s
}
