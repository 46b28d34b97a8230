package formula_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/zephyrtronium/formula"
)

func FuzzEval(f *testing.F) {
	f.Add("2+3*4")
	f.Add("(1-2)^0.5")
	f.Add("1/0")
	f.Add("x y")
	f.Fuzz(func(t *testing.T, s string) {
		ed := formula.NewEditor(formula.NewStore(), formula.NewContext(formula.SetVar("x", new(big.Float))))
		pending := ed.Type("", s)
		ed.Key(formula.Event{Key: formula.KeyEnter}, pending)
		r := ed.Result()
		if r.Err != nil && !errors.Is(r.Err, formula.ErrUnevaluable) {
			t.Errorf("%q failed with %#v which is not unevaluable", s, r.Err)
		}
		if r.Err == nil && r.Value == nil {
			t.Errorf("%q evaluated to %v", s, r.Value)
		}
	})
}
