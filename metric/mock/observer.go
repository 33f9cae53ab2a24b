package mock

import (
	"sync"
)

type Observer struct {
	values []float64
	mu     sync.RWMutex
}

func NewObserver() *Observer {
	return &Observer{}
}

func (o *Observer) Observe(val float64) {

	o.mu.Lock()
	o.values = append(o.values, val)
	o.mu.Unlock()
}

func (o *Observer) GetSlice() []float64 {

	o.mu.RLock()
	defer o.mu.RUnlock()

	retval := make([]float64, len(o.values))
	copy(retval, o.values)

	return retval
}

func (o *Observer) Count() int {

	o.mu.RLock()
	defer o.mu.RUnlock()

	return len(o.values)
}

func (o *Observer) GetSum() (sum float64) {

	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, v := range o.values {
		sum += v
	}

	return
}

func (o *Observer) GetAvg() float64 {

	o.mu.RLock()
	count := len(o.values)
	o.mu.RUnlock()

	if count == 0 {
		return 0
	}

	return o.GetSum() / float64(count)
}
