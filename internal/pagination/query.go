package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

// FromQuery reads page, take, order and id (the last-seen id) from a query
// string. page selects offset mode and may not be combined with order or id.
func FromQuery(q url.Values) (Params, error) {
	take := DefaultTake
	if raw := q.Get("take"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, fmt.Errorf("%w: take must be an integer", ErrInvalid)
		}
		take = n
	}

	var params Params
	if raw := q.Get("page"); raw != "" {
		if q.Has("id") || q.Has("order") {
			return Params{}, fmt.Errorf("%w: page cannot be combined with id or order", ErrInvalid)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, fmt.Errorf("%w: page must be an integer", ErrInvalid)
		}
		params.Page = &Page{Number: n, Take: take}
	} else {
		order, err := ParseOrder(q.Get("order"))
		if err != nil {
			return Params{}, err
		}
		cursor := &Cursor{Order: order, Take: take}
		if raw := q.Get("id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return Params{}, fmt.Errorf("%w: id must be a positive integer", ErrInvalid)
			}
			last := uint(id)
			cursor.LastID = &last
		}
		params.Cursor = cursor
	}

	if err := params.Validate(); err != nil {
		return Params{}, err
	}
	return params, nil
}
