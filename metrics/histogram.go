// Package metrics keeps frame timing history for the UI and writes the
// performance metrics file at shutdown.
package metrics

// HistogramQueue is a fixed-capacity ring of samples; pushing into a full
// queue drops the oldest value.
type HistogramQueue struct {
	values []float32
	start  int
	n      int
}

func NewHistogramQueue(capacity int) *HistogramQueue {
	return &HistogramQueue{values: make([]float32, max(1, capacity))}
}

func (q *HistogramQueue) Push(v float32) {
	if q.n < len(q.values) {
		q.values[(q.start+q.n)%len(q.values)] = v
		q.n++
		return
	}
	q.values[q.start] = v
	q.start = (q.start + 1) % len(q.values)
}

func (q *HistogramQueue) Len() int { return q.n }

// Values returns samples oldest first.
func (q *HistogramQueue) Values() []float32 {
	out := make([]float32, q.n)
	for i := range q.n {
		out[i] = q.values[(q.start+i)%len(q.values)]
	}
	return out
}

func (q *HistogramQueue) Average() float32 {
	if q.n == 0 {
		return 0
	}
	var sum float32
	for _, v := range q.Values() {
		sum += v
	}
	return sum / float32(q.n)
}

func (q *HistogramQueue) Min() float32 {
	vs := q.Values()
	if len(vs) == 0 {
		return 0
	}
	m := vs[0]
	for _, v := range vs[1:] {
		m = min(m, v)
	}
	return m
}

func (q *HistogramQueue) Max() float32 {
	vs := q.Values()
	if len(vs) == 0 {
		return 0
	}
	m := vs[0]
	for _, v := range vs[1:] {
		m = max(m, v)
	}
	return m
}
