package report

import (
	"github.com/15Galan/h4-hash-cracker/internal/cracker"
	"github.com/15Galan/h4-hash-cracker/internal/models"
)

type tee []cracker.Observer

// Tee forwards every event to each non-nil observer, in order.
func Tee(observers ...cracker.Observer) cracker.Observer {
	out := make(tee, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}

	return out
}

func (t tee) Attempt(hash, word, algorithm string) {
	for _, o := range t {
		o.Attempt(hash, word, algorithm)
	}
}

func (t tee) Outcome(o models.Outcome) {
	for _, obs := range t {
		obs.Outcome(o)
	}
}
