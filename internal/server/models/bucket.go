package models

// Bucket names a single balance field on an Account. The string values match
// the column keys the legacy store used, including the "+N" year tranches.
type Bucket string

const (
	BucketCash    Bucket = "Cash"
	BucketSMG     Bucket = "SMG"
	BucketStocks  Bucket = "Stocks"
	BucketBonds   Bucket = "Bonds"
	BucketStocks1 Bucket = "Stocks +1"
	BucketBonds1  Bucket = "Bonds +1"
	BucketStocks2 Bucket = "Stocks +2"
	BucketBonds2  Bucket = "Bonds +2"
	BucketStocks3 Bucket = "Stocks +3"
	BucketBonds3  Bucket = "Bonds +3"
)

// Buckets lists every recognized bucket in display order.
var Buckets = []Bucket{
	BucketCash,
	BucketSMG,
	BucketStocks,
	BucketBonds,
	BucketStocks1,
	BucketBonds1,
	BucketStocks2,
	BucketBonds2,
	BucketStocks3,
	BucketBonds3,
}

// ParseBucket validates a bucket name coming from a caller. The empty Bucket
// and false are returned for unrecognized names.
func ParseBucket(name string) (Bucket, bool) {
	for _, b := range Buckets {
		if string(b) == name {
			return b, true
		}
	}
	return "", false
}
