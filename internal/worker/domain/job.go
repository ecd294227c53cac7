package domain

// Acknowledger settles one delivery with the backing queue. Satisfied by the
// broker client's delivery acknowledger and by fakes in tests.
type Acknowledger interface {
	Ack(tag uint64, multiple bool) error
	Nack(tag uint64, multiple bool, requeue bool) error
}

// JobMessage is one match-discovery job delivered from the queue.
type JobMessage struct {
	ItemID      string       `json:"item_id"`
	DeliveryTag uint64       `json:"-"`
	Acker       Acknowledger `json:"-"`
}
