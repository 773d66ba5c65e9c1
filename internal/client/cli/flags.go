package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/models"
)

// pointFlag parses "LAT,LNG".
type pointFlag struct {
	point *models.GeoPoint
}

func (f *pointFlag) String() string {
	if f.point == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g", f.point.Lat, f.point.Lng)
}

func (f *pointFlag) Set(value string) error {
	lat, lng, found := strings.Cut(value, ",")
	if !found {
		return fmt.Errorf("expected LAT,LNG, got %q", value)
	}
	var p models.GeoPoint
	var err error
	if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return fmt.Errorf("invalid latitude %q", lat)
	}
	if p.Lng, err = strconv.ParseFloat(strings.TrimSpace(lng), 64); err != nil {
		return fmt.Errorf("invalid longitude %q", lng)
	}
	f.point = &p
	return nil
}

// itemsFlag collects repeated -item NAME:QTY:PRICE values.
type itemsFlag []models.OrderItem

func (f *itemsFlag) String() string {
	parts := make([]string, 0, len(*f))
	for _, item := range *f {
		parts = append(parts, fmt.Sprintf("%s:%d:%s", item.Name, item.Quantity, item.UnitPrice))
	}
	return strings.Join(parts, " ")
}

func (f *itemsFlag) Set(value string) error {
	// имя может содержать двоеточие, поэтому режем с конца
	i := strings.LastIndex(value, ":")
	if i < 0 {
		return fmt.Errorf("expected NAME:QTY:PRICE, got %q", value)
	}
	rest, price := value[:i], value[i+1:]
	j := strings.LastIndex(rest, ":")
	if j < 0 {
		return fmt.Errorf("expected NAME:QTY:PRICE, got %q", value)
	}
	name, qty := rest[:j], rest[j+1:]

	quantity, err := strconv.Atoi(qty)
	if err != nil {
		return fmt.Errorf("invalid quantity %q", qty)
	}
	unit, err := decimal.NewFromString(price)
	if err != nil {
		return fmt.Errorf("invalid price %q", price)
	}
	*f = append(*f, models.OrderItem{Name: name, Quantity: quantity, UnitPrice: unit})
	return nil
}

// decimalFlag is a money amount.
type decimalFlag struct {
	value decimal.Decimal
	set   bool
}

func (f *decimalFlag) String() string {
	if !f.set {
		return ""
	}
	return f.value.String()
}

func (f *decimalFlag) Set(value string) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("invalid amount %q", value)
	}
	f.value, f.set = d, true
	return nil
}
