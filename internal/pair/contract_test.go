package pair_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/resobee/potentials/internal/pair"
)

var _ = Describe("LymburnRepulsion", func() {
	var ctor pair.Constructor = pair.NewLymburnEvaluator

	DescribeTable("inside the cutoff",
		func(rsq, rcutsq, strength float64) {
			fdivr, eng, ok := ctor(rsq, rcutsq, pair.Params{Strength: strength}).EvalForceAndEnergy(false)
			Expect(ok).To(BeTrue())
			Expect(fdivr).To(BeNumerically("~", strength/rsq, 1e-12))
			Expect(eng).To(BeZero())
		},
		Entry("close pair", 0.01, 1.0, 2.0),
		Entry("weak strength", 0.25, 4.0, 0.01),
		Entry("near cutoff", 0.999, 1.0, 1.0),
	)

	DescribeTable("at or beyond the cutoff",
		func(rsq, rcutsq float64) {
			_, _, ok := ctor(rsq, rcutsq, pair.Params{Strength: 1}).EvalForceAndEnergy(false)
			Expect(ok).To(BeFalse())
		},
		Entry("at cutoff", 1.0, 1.0),
		Entry("far", 25.0, 4.0),
	)

	It("reports zero long-range corrections", func() {
		ev := ctor(0.5, 1.0, pair.Params{Strength: 2})
		Expect(ev.EvalPressureLRCIntegral()).To(BeZero())
		Expect(ev.EvalEnergyLRCIntegral()).To(BeZero())
	})

	It("does not require charges", func() {
		Expect(ctor(0.5, 1.0, pair.Params{}).NeedsCharge()).To(BeFalse())
	})

	It("refuses to describe a shape", func() {
		_, err := ctor(0.5, 1.0, pair.Params{}).ShapeSpec()
		Expect(err).To(MatchError(pair.ErrShapeUnsupported))
	})
})

var _ = Describe("Params", func() {
	It("round trips through the key-value form", func() {
		p, err := pair.ParamsFromMap(map[string]any{"strength": 2.0})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.AsMap()).To(Equal(map[string]any{"strength": 2.0}))
	})

	It("rejects a missing strength", func() {
		_, err := pair.ParamsFromMap(map[string]any{})
		Expect(err).To(MatchError(pair.ErrMissingParam))
	})
})
