package domain

import (
	"context"
	"strings"
)

// Address is the result of a postal code lookup.
type Address struct {
	PostalCode   string `json:"postal_code"  msgpack:"postal_code"`
	Street       string `json:"street"       msgpack:"street"`
	Complement   string `json:"complement"   msgpack:"complement"`
	Neighborhood string `json:"neighborhood" msgpack:"neighborhood"`
	City         string `json:"city"         msgpack:"city"`
	Region       string `json:"region"       msgpack:"region"`
	IBGE         int    `json:"ibge"         msgpack:"ibge"`
	GIA          int    `json:"gia"          msgpack:"gia"`
	DDD          int    `json:"ddd"          msgpack:"ddd"`
	SIAFI        int    `json:"siafi"        msgpack:"siafi"`
}

func (a Address) IsResolved() bool {
	return a.PostalCode != ""
}

type AddressLookup interface {
	Lookup(ctx context.Context, postalCode string) (*Address, error)
}

// NormalizePostalCode strips every non-digit and requires exactly 8 digits.
func NormalizePostalCode(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 8 {
		return "", ErrInvalidPostalCode
	}
	return digits, nil
}
