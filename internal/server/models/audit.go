package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AuditCategory classifies an audit entry.
type AuditCategory string

const (
	CategoryPurchases        AuditCategory = "Purchases"
	CategorySignUps          AuditCategory = "SignUps"
	CategoryUnregisters      AuditCategory = "Un-registers"
	CategoryTransferRequests AuditCategory = "TransferRequests"
)

// AuditEntry is an immutable record of a completed or requested action.
// Entries are append-only; only TransferRequests entries ever have their
// Approved flag flipped, and approval means the transfer has been applied.
type AuditEntry struct {
	ID       string
	Category AuditCategory
	Content  string
	Time     time.Time
	Approved bool
}

// Audit-entry content builders. The wording round-trips through the store,
// so it must stay stable: the transfer parser below and the student
// dashboard both match on it.

func PurchaseContent(fullName, itemName string, price decimal.Decimal, customInput string) string {
	s := fmt.Sprintf("%s purchased %s for %s Pelicoin", fullName, itemName, price.String())
	if customInput != "" {
		s += fmt.Sprintf(" (%s)", customInput)
	}
	return s
}

func SignUpContent(fullName, topic string, date time.Time) string {
	return fmt.Sprintf("%s signed up for %s on %s", fullName, topic, formatMeetingDate(date))
}

func UnregisterContent(fullName, topic string, date time.Time, byAdmin bool) string {
	if byAdmin {
		return fmt.Sprintf("%s was unregistered from %s on %s by an administrator", fullName, topic, formatMeetingDate(date))
	}
	return fmt.Sprintf("%s unregistered from %s on %s", fullName, topic, formatMeetingDate(date))
}

const transferRequestMarker = " requested to transfer"

func TransferRequestContent(fullName string, amount decimal.Decimal, source, destination Bucket) string {
	return fmt.Sprintf("%s%s %s Pelicoin from %s to %s",
		fullName, transferRequestMarker, amount.String(), source, destination)
}

// TransferRequesterIs reports whether content names fullName as the
// requester. The marker after the name keeps "Pat Lee" from matching a
// request made by "Pat Leeds".
func TransferRequesterIs(content, fullName string) bool {
	if fullName == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(content), strings.ToLower(fullName)+transferRequestMarker)
}

func formatMeetingDate(d time.Time) string {
	return d.Format("January 2, 3:04 PM")
}

// TransferDetails is a transfer request parsed back out of an audit entry.
type TransferDetails struct {
	Amount      decimal.Decimal
	Source      Bucket
	Destination Bucket
}

var transferContentRe = regexp.MustCompile(`(?i)transfer\s+(\d+(?:\.\d+)?)\s+Pelicoin\s+from\s+(.+?)\s+to\s+(.+)$`)

// ParseTransferContent extracts amount, source and destination from a
// TransferRequests entry's content. The regexp matches what
// TransferRequestContent writes, and also the records the legacy app left
// behind.
func ParseTransferContent(content string) (*TransferDetails, error) {
	m := transferContentRe.FindStringSubmatch(content)
	if m == nil {
		return nil, fmt.Errorf("unparseable transfer content: %q", content)
	}
	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return nil, fmt.Errorf("unparseable transfer amount %q: %w", m[1], err)
	}
	source, ok := ParseBucket(m[2])
	if !ok {
		return nil, fmt.Errorf("unknown source bucket %q", m[2])
	}
	destination, ok := ParseBucket(m[3])
	if !ok {
		return nil, fmt.Errorf("unknown destination bucket %q", m[3])
	}
	return &TransferDetails{Amount: amount, Source: source, Destination: destination}, nil
}
