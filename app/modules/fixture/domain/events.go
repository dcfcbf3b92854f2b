package fixturedomain

// TopicFeedBatchV1 carries inbound fixture feed batches.
const TopicFeedBatchV1 = "fixture.feed.batch.v1"

// FeedBatchPayloadV1 is a batch of feed records from one scrape.
type FeedBatchPayloadV1 struct {
	Source  string       `json:"source"`
	Records []FeedRecord `json:"records"`
}
