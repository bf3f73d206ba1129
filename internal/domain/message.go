package domain

// QueuedMessage is the normalized hand-off between ingestion and dispatch.
// Only ChatID and Text travel on the wire.
type QueuedMessage struct {
	ChatID ChatID `json:"chat_id"`
	Text   string `json:"text"`

	// DedupID and GroupID are honored by FIFO queues only.
	DedupID string `json:"-"`
	GroupID string `json:"-"`
}
