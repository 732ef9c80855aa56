package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestParseBucket(t *testing.T) {
	for _, valid := range []string{"all", "past", "current", "future"} {
		bucket, err := ParseBucket(valid)
		if err != nil {
			t.Errorf("ParseBucket(%q) returned error: %v", valid, err)
		}
		if string(bucket) != valid {
			t.Errorf("ParseBucket(%q) = %q", valid, bucket)
		}
	}

	for _, invalid := range []string{"", "upcoming", "PAST", "now"} {
		if _, err := ParseBucket(invalid); err == nil {
			t.Errorf("ParseBucket(%q) should fail", invalid)
		}
	}
}

func TestBucketQuery_Filters(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	filter, sort := bucketQuery(BucketPast, now)
	if got := filter["end_date"].(bson.M)["$lt"]; got != now {
		t.Errorf("past filter should bound end_date below now, got %v", got)
	}
	if sort[0].Key != "end_date" || sort[0].Value != -1 {
		t.Errorf("past bucket must sort end_date descending, got %v", sort)
	}

	filter, sort = bucketQuery(BucketCurrent, now)
	if got := filter["start_date"].(bson.M)["$lte"]; got != now {
		t.Errorf("current filter start_date bound wrong: %v", got)
	}
	if got := filter["end_date"].(bson.M)["$gte"]; got != now {
		t.Errorf("current filter end_date bound wrong: %v", got)
	}
	if len(sort) != 2 || sort[1].Key != "_id" {
		t.Errorf("current bucket needs a secondary _id sort for stable pages, got %v", sort)
	}

	filter, sort = bucketQuery(BucketFuture, now)
	if got := filter["start_date"].(bson.M)["$gt"]; got != now {
		t.Errorf("future filter should bound start_date above now, got %v", got)
	}
	if sort[0].Key != "start_date" || sort[0].Value != 1 {
		t.Errorf("future bucket must sort start_date ascending, got %v", sort)
	}

	filter, sort = bucketQuery(BucketAll, now)
	if len(filter) != 0 {
		t.Errorf("all bucket must not filter, got %v", filter)
	}
	if sort[0].Key != "start_date" || sort[0].Value != -1 {
		t.Errorf("all bucket must sort start_date descending, got %v", sort)
	}
}
