package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/charmbracelet/log"

	"github.com/abhisek/leitbox/internal/deck"
	"github.com/abhisek/leitbox/internal/schedule"
)

type categoryRepo struct {
	drv      *entsql.Driver
	settings *schedule.Settings
	logger   *log.Logger
}

var builder = entsql.Dialect(dialect.SQLite)

func (r *categoryRepo) Save(ctx context.Context, root *deck.Category) error {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, table := range []string{CardsTable.Name, CategoriesTable.Name} {
		q, args := builder.Delete(table).Query()
		if err := tx.Exec(ctx, q, args, nil); err != nil {
			tx.Rollback()
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	var cats int
	ids := make(map[*deck.Card]int)
	if err := r.saveCategory(ctx, tx, root, nil, 0, &cats, ids); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	// IDs only change once the rows exist.
	for card, id := range ids {
		card.ID = id
	}
	r.logger.Debug("saved category tree", "categories", cats, "cards", len(ids))
	return nil
}

func (r *categoryRepo) saveCategory(ctx context.Context, tx dialect.Tx, c *deck.Category, parentID any, position int, cats *int, ids map[*deck.Card]int) error {
	q, args := builder.Insert(CategoriesTable.Name).
		Columns("name", "position", "parent_id").
		Values(c.Name(), position, parentID).
		Query()
	var res sql.Result
	if err := tx.Exec(ctx, q, args, &res); err != nil {
		return fmt.Errorf("save category %q: %w", c.Path(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("category id: %w", err)
	}
	*cats++

	for level := range c.DeckCount() {
		for pos, card := range c.LocalCards(level) {
			cardID, err := saveCard(ctx, tx, card, id, pos)
			if err != nil {
				return err
			}
			ids[card] = cardID
		}
	}
	for i, ch := range c.Children() {
		if err := r.saveCategory(ctx, tx, ch, id, i, cats, ids); err != nil {
			return err
		}
	}
	return nil
}

// saveCard inserts card and returns its new row ID.
func saveCard(ctx context.Context, tx dialect.Tx, card *deck.Card, categoryID int64, position int) (int, error) {
	rec := card.Record()
	front, err := encodeImages(rec.FrontImages)
	if err != nil {
		return 0, err
	}
	back, err := encodeImages(rec.BackImages)
	if err != nil {
		return 0, err
	}
	q, args := builder.Insert(CardsTable.Name).
		Columns(
			"level", "position", "front", "back", "front_images", "back_images",
			"created_at", "modified_at", "tested_at", "expires_at",
			"tests_total", "tests_passed", "front_learned", "back_learned", "category_id",
		).
		Values(
			rec.Level, position, rec.Front, rec.Back, front, back,
			rec.Created, rec.Modified, nullTime(rec.Tested), nullTime(rec.Expired),
			rec.TestsTotal, rec.TestsPassed, rec.FrontLearned, rec.BackLearned, categoryID,
		).
		Query()
	var res sql.Result
	if err := tx.Exec(ctx, q, args, &res); err != nil {
		return 0, fmt.Errorf("save card: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("card id: %w", err)
	}
	return int(id), nil
}

func (r *categoryRepo) Load(ctx context.Context) (*deck.Category, error) {
	nodes, root, err := r.loadCategories(ctx)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return deck.NewCategory(""), nil
	}
	if err := r.loadCards(ctx, nodes); err != nil {
		return nil, err
	}
	return root, nil
}

func (r *categoryRepo) loadCategories(ctx context.Context) (map[int]*deck.Category, *deck.Category, error) {
	q, args := builder.Select("id", "name", "parent_id").
		From(entsql.Table(CategoriesTable.Name)).
		OrderBy("id").
		Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, q, args, rows); err != nil {
		return nil, nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	nodes := make(map[int]*deck.Category)
	var root *deck.Category
	for rows.Next() {
		var (
			id     int
			name   string
			parent sql.NullInt64
		)
		if err := rows.Scan(&id, &name, &parent); err != nil {
			return nil, nil, fmt.Errorf("scan category: %w", err)
		}
		cat := deck.NewCategory(name)
		nodes[id] = cat
		switch {
		case !parent.Valid && root == nil:
			root = cat
		case !parent.Valid:
			r.logger.Warn("extra root category attached below root", "id", id, "name", name)
			root.AttachChild(cat)
		default:
			p, ok := nodes[int(parent.Int64)]
			if !ok {
				return nil, nil, fmt.Errorf("category %d references missing parent %d", id, parent.Int64)
			}
			p.AttachChild(cat)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate categories: %w", err)
	}
	return nodes, root, nil
}

func (r *categoryRepo) loadCards(ctx context.Context, nodes map[int]*deck.Category) error {
	q, args := builder.Select(
		"id", "level", "front", "back", "front_images", "back_images",
		"created_at", "modified_at", "tested_at", "expires_at",
		"tests_total", "tests_passed", "front_learned", "back_learned", "category_id",
	).
		From(entsql.Table(CardsTable.Name)).
		OrderBy("category_id", "level", "position", "id").
		Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, q, args, rows); err != nil {
		return fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec             deck.Record
			front, back     sql.NullString
			tested, expired sql.NullTime
			categoryID      int
		)
		if err := rows.Scan(
			&rec.ID, &rec.Level, &rec.Front, &rec.Back, &front, &back,
			&rec.Created, &rec.Modified, &tested, &expired,
			&rec.TestsTotal, &rec.TestsPassed, &rec.FrontLearned, &rec.BackLearned, &categoryID,
		); err != nil {
			return fmt.Errorf("scan card: %w", err)
		}
		var err error
		if rec.FrontImages, err = decodeImages(front); err != nil {
			return fmt.Errorf("card %d: %w", rec.ID, err)
		}
		if rec.BackImages, err = decodeImages(back); err != nil {
			return fmt.Errorf("card %d: %w", rec.ID, err)
		}
		rec.Tested = tested.Time
		rec.Expired = expired.Time

		cat, ok := nodes[categoryID]
		if !ok {
			return fmt.Errorf("card %d references missing category %d", rec.ID, categoryID)
		}
		if rec.Level > 0 && rec.Expired.IsZero() {
			rec.Expired = r.repairExpiration(rec)
			r.logger.Warn("assigned missing expiration", "card", rec.ID, "level", rec.Level, "expires", rec.Expired)
		}
		cat.AddCardAt(deck.RestoreCard(rec), rec.Level)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate cards: %w", err)
	}
	return nil
}

// repairExpiration computes the expiration a learned card would have received
// when it reached its level, counted from its last test or, failing that,
// its last modification.
func (r *categoryRepo) repairExpiration(rec deck.Record) time.Time {
	base := rec.Tested
	if base.IsZero() {
		base = rec.Modified
	}
	return schedule.ExpirationDate(base, r.settings.Index(rec.Level-1), r.settings)
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func encodeImages(images []string) (any, error) {
	if len(images) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("encode images: %w", err)
	}
	return string(b), nil
}

func decodeImages(s sql.NullString) ([]string, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var images []string
	if err := json.Unmarshal([]byte(s.String), &images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	return images, nil
}
