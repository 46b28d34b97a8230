package formula_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/formula"
)

func FuzzParse(f *testing.F) {
	f.Add("2+#x")
	f.Add("((")
	f.Add("1e3 abc")
	f.Fuzz(func(t *testing.T, s string) {
		a, err := formula.Parse(toks(s))
		if err != nil {
			if !errors.Is(err, formula.ErrUnevaluable) {
				t.Errorf("%q failed with %#v which is not unevaluable", s, err)
			}
			return
		}
		_ = a.String()
		_ = a.Vars()
	})
}
