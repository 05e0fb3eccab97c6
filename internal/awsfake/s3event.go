package awsfake

import (
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// S3Event builds a notification with one record per key.
func S3Event(eventName, bucket string, at time.Time, keys ...string) events.S3Event {
	ev := events.S3Event{Records: make([]events.S3EventRecord, 0, len(keys))}
	for _, k := range keys {
		var rec events.S3EventRecord
		rec.EventSource = "aws:s3"
		rec.EventName = eventName
		rec.EventTime = at
		rec.S3.Bucket.Name = bucket
		rec.S3.Object.Key = k
		ev.Records = append(ev.Records, rec)
	}
	return ev
}
