package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// Args are the positional arguments of a command. Values arrive either as Go values or as
// decoded JSON (float64, string, map).
type Args []interface{}

func (a Args) at(i int) (interface{}, error) {
	if i < 0 || i >= len(a) {
		return nil, fmt.Errorf("%w: missing argument %d", ErrBadArgument, i)
	}
	return a[i], nil
}

// Int reads argument i as an integer.
func (a Args) Int(i int) (int, error) {
	v, err := a.at(i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: argument %d is not an integer", ErrBadArgument, i)
		}
		return int(n), nil
	case json.Number:
		x, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadArgument, err)
		}
		return int(x), nil
	case string:
		x, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadArgument, err)
		}
		return x, nil
	}
	return 0, fmt.Errorf("%w: argument %d has type %T", ErrBadArgument, i, v)
}

// String reads argument i as a string.
func (a Args) String(i int) (string, error) {
	v, err := a.at(i)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: argument %d has type %T", ErrBadArgument, i, v)
	}
	return s, nil
}

// BoolOr reads argument i as a bool, returning def when it is absent.
func (a Args) BoolOr(i int, def bool) (bool, error) {
	if i >= len(a) || a[i] == nil {
		return def, nil
	}
	switch b := a[i].(type) {
	case bool:
		return b, nil
	case string:
		x, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrBadArgument, err)
		}
		return x, nil
	}
	return false, fmt.Errorf("%w: argument %d has type %T", ErrBadArgument, i, a[i])
}

// Offer reads argument i as a trade offer.
func (a Args) Offer(i int) (models.TradeOffer, error) {
	v, err := a.at(i)
	if err != nil {
		return models.TradeOffer{}, err
	}
	switch o := v.(type) {
	case models.TradeOffer:
		return o.Clone(), nil
	case *models.TradeOffer:
		if o == nil {
			return models.TradeOffer{}, fmt.Errorf("%w: nil offer", ErrBadArgument)
		}
		return o.Clone(), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return models.TradeOffer{}, fmt.Errorf("%w: %v", ErrBadArgument, err)
	}
	var offer models.TradeOffer
	if err := json.Unmarshal(raw, &offer); err != nil {
		return models.TradeOffer{}, fmt.Errorf("%w: %v", ErrBadArgument, err)
	}
	return offer, nil
}
