package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Account is one student's balance record. Bucket values are mutated only by
// the ledger service; the reporting fields the importer writes (wage income,
// taxes, net worth) are not modeled here because the core never touches them.
type Account struct {
	LoginID string
	Student string // raw "Last, First" as imported

	Cash          decimal.Decimal
	SMG           decimal.Decimal
	CurrentStocks decimal.Decimal
	CurrentBonds  decimal.Decimal
	StocksPlus1   decimal.Decimal
	BondsPlus1    decimal.Decimal
	StocksPlus2   decimal.Decimal
	BondsPlus2    decimal.Decimal
	StocksPlus3   decimal.Decimal
	BondsPlus3    decimal.Decimal

	// Version is the optimistic-concurrency token; every balance write is
	// conditional on it.
	Version int64
}

// FirstName returns the part after the comma in Student, or "" when the
// display name has no comma.
func (a *Account) FirstName() string {
	if _, after, found := strings.Cut(a.Student, ","); found {
		return strings.TrimSpace(after)
	}
	return ""
}

// LastName returns the part before the comma in Student.
func (a *Account) LastName() string {
	before, _, _ := strings.Cut(a.Student, ",")
	return strings.TrimSpace(before)
}

// FullName is "First Last", the form rosters and audit entries use.
func (a *Account) FullName() string {
	first := a.FirstName()
	last := a.LastName()
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return first + " " + last
}

// Balance returns the value of the named bucket.
func (a *Account) Balance(b Bucket) decimal.Decimal {
	switch b {
	case BucketCash:
		return a.Cash
	case BucketSMG:
		return a.SMG
	case BucketStocks:
		return a.CurrentStocks
	case BucketBonds:
		return a.CurrentBonds
	case BucketStocks1:
		return a.StocksPlus1
	case BucketBonds1:
		return a.BondsPlus1
	case BucketStocks2:
		return a.StocksPlus2
	case BucketBonds2:
		return a.BondsPlus2
	case BucketStocks3:
		return a.StocksPlus3
	case BucketBonds3:
		return a.BondsPlus3
	}
	return decimal.Zero
}

// SetBalance overwrites the value of the named bucket.
func (a *Account) SetBalance(b Bucket, v decimal.Decimal) {
	switch b {
	case BucketCash:
		a.Cash = v
	case BucketSMG:
		a.SMG = v
	case BucketStocks:
		a.CurrentStocks = v
	case BucketBonds:
		a.CurrentBonds = v
	case BucketStocks1:
		a.StocksPlus1 = v
	case BucketBonds1:
		a.BondsPlus1 = v
	case BucketStocks2:
		a.StocksPlus2 = v
	case BucketBonds2:
		a.BondsPlus2 = v
	case BucketStocks3:
		a.StocksPlus3 = v
	case BucketBonds3:
		a.BondsPlus3 = v
	}
}
