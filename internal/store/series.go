package store

import (
	"encoding/json"

	"github.com/eapache/queue"
)

// Point is a single observation: seconds since the Unix epoch and the
// observed value. It serializes as a two-element array to match the
// wire shape the dashboard consumes.
type Point struct {
	TS    float64
	Value float64
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.TS, p.Value})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.TS = pair[0]
	p.Value = pair[1]
	return nil
}

// boundedSeries holds the most recent points for one key. Once full,
// appending evicts the oldest point, so memory per key stays fixed no
// matter how many events arrive.
type boundedSeries struct {
	buf      *queue.Queue
	capacity int
}

func newBoundedSeries(capacity int) *boundedSeries {
	return &boundedSeries{
		buf:      queue.New(),
		capacity: capacity,
	}
}

func (b *boundedSeries) append(p Point) {
	b.buf.Add(p)
	for b.buf.Length() > b.capacity {
		b.buf.Remove()
	}
}

func (b *boundedSeries) len() int {
	return b.buf.Length()
}

// since returns points with TS >= cutoff in insertion order. Points are
// appended in roughly real time, so insertion order is chronological.
func (b *boundedSeries) since(cutoff float64) []Point {
	var out []Point
	for i := 0; i < b.buf.Length(); i++ {
		p := b.buf.Get(i).(Point)
		if p.TS >= cutoff {
			out = append(out, p)
		}
	}
	return out
}
