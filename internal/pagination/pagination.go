// Package pagination turns page numbers and last-seen ids into gorm scopes.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultTake = 10
	MaxTake     = 100
)

var ErrInvalid = errors.New("invalid pagination")

type Order string

const (
	Ascending  Order = "ASC"
	Descending Order = "DESC"
)

// ParseOrder accepts ASC or DESC in any case. An empty string means ascending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(Ascending):
		return Ascending, nil
	case string(Descending):
		return Descending, nil
	}
	return "", fmt.Errorf("%w: order must be ASC or DESC, got %q", ErrInvalid, s)
}

// Page is offset pagination: skip (Number-1)*Take rows, take Take.
type Page struct {
	Number int
	Take   int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Take
}

// Validate also rejects page numbers whose offset would overflow an int.
func (p Page) Validate() error {
	if p.Number < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalid)
	}
	if err := validateTake(p.Take); err != nil {
		return err
	}
	if p.Number-1 > math.MaxInt/p.Take {
		return fmt.Errorf("%w: page %d is out of range", ErrInvalid, p.Number)
	}
	return nil
}

// Scope applies OFFSET/LIMIT ordered by primary key so pages are stable.
func (p Page) Scope(db *gorm.DB) *gorm.DB {
	return db.Order(primaryKeyOrder(false)).
		Offset(p.Offset()).
		Limit(p.Take)
}

// Cursor is keyset pagination on the primary key. A nil LastID starts from the
// first row in Order.
type Cursor struct {
	Order  Order
	LastID *uint
	Take   int
}

func (c Cursor) Validate() error {
	if c.Order != Ascending && c.Order != Descending {
		return fmt.Errorf("%w: order must be ASC or DESC", ErrInvalid)
	}
	return validateTake(c.Take)
}

func (c Cursor) Scope(db *gorm.DB) *gorm.DB {
	desc := c.Order == Descending
	if c.LastID != nil {
		col := clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}
		if desc {
			db = db.Where(clause.Lt{Column: col, Value: *c.LastID})
		} else {
			db = db.Where(clause.Gt{Column: col, Value: *c.LastID})
		}
	}
	return db.Order(primaryKeyOrder(desc)).Limit(c.Take)
}

// Params holds at most one of the two modes. With neither set the first
// ascending cursor page of DefaultTake rows is used.
type Params struct {
	Page   *Page
	Cursor *Cursor
}

func (p Params) Validate() error {
	if p.Page != nil && p.Cursor != nil {
		return fmt.Errorf("%w: page and cursor are mutually exclusive", ErrInvalid)
	}
	if p.Page != nil {
		return p.Page.Validate()
	}
	if p.Cursor != nil {
		return p.Cursor.Validate()
	}
	return nil
}

// Take is the page size that Scope will apply.
func (p Params) Take() int {
	switch {
	case p.Page != nil:
		return p.Page.Take
	case p.Cursor != nil:
		return p.Cursor.Take
	}
	return DefaultTake
}

// IsCursor reports whether keyset pagination is in effect.
func (p Params) IsCursor() bool {
	return p.Page == nil
}

func (p Params) Scope(db *gorm.DB) *gorm.DB {
	switch {
	case p.Page != nil:
		return p.Page.Scope(db)
	case p.Cursor != nil:
		return p.Cursor.Scope(db)
	}
	return Cursor{Order: Ascending, Take: DefaultTake}.Scope(db)
}

func validateTake(take int) error {
	if take < 1 || take > MaxTake {
		return fmt.Errorf("%w: take must be between 1 and %d", ErrInvalid, MaxTake)
	}
	return nil
}

func primaryKeyOrder(desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{
		Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey},
		Desc:   desc,
	}
}
