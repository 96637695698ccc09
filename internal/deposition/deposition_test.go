package deposition_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/planktonviz/internal/deposition"
)

var _ = Describe("Evaluate", func() {
	var params deposition.Params

	BeforeEach(func() {
		params = deposition.DefaultParams(3.0)
	})

	Describe("Constant", func() {
		It("ignores the concentration", func() {
			Expect(deposition.Evaluate(deposition.Constant, 0.5, params)).To(Equal(3.0))
			Expect(deposition.Evaluate(deposition.Constant, -10, params)).To(Equal(3.0))
		})

		It("broadcasts over a slice", func() {
			Expect(deposition.EvaluateSlice(deposition.Constant, []float64{0, 1, 2}, params)).
				To(Equal([]float64{3, 3, 3}))
		})
	})

	Describe("SoftSwitch", func() {
		It("is half strength at the threshold", func() {
			Expect(deposition.Evaluate(deposition.SoftSwitch, params.Threshold, params)).
				To(BeNumerically("~", 1.5, 1e-12))
		})

		It("approaches full strength well below the threshold", func() {
			Expect(deposition.Evaluate(deposition.SoftSwitch, 0, params)).
				To(BeNumerically("~", 3.0, 1e-6))
		})

		It("approaches zero well above the threshold", func() {
			Expect(deposition.Evaluate(deposition.SoftSwitch, 1, params)).
				To(BeNumerically("~", 0, 1e-12))
		})

		It("never increases with concentration", func() {
			prev := math.Inf(1)
			for c := -0.2; c <= 0.4; c += 0.001 {
				v := deposition.Evaluate(deposition.SoftSwitch, c, params)
				Expect(v).To(BeNumerically("<=", prev))
				prev = v
			}
		})

		It("sharpens as the transition width shrinks", func() {
			wide := params
			wide.TransitionWidth = 0.05
			c := params.Threshold - 0.01
			Expect(deposition.Evaluate(deposition.SoftSwitch, c, params)).
				To(BeNumerically(">", deposition.Evaluate(deposition.SoftSwitch, c, wide)))
		})
	})

	Describe("LinearSoftSwitch", func() {
		It("is 0.6 of full strength at the threshold", func() {
			Expect(deposition.Evaluate(deposition.LinearSoftSwitch, params.Threshold, params)).
				To(BeNumerically("~", 3.0*1.2/2, 1e-12))
		})

		It("rises with concentration below the threshold", func() {
			low := deposition.Evaluate(deposition.LinearSoftSwitch, 0.0, params)
			high := deposition.Evaluate(deposition.LinearSoftSwitch, 0.04, params)
			Expect(high).To(BeNumerically(">", low))
			Expect(low).To(BeNumerically("~", 3.0*0.2/2*2, 1e-6))
		})
	})

	Describe("slices", func() {
		It("matches scalar evaluation elementwise", func() {
			cs := []float64{0, 0.05, 0.08, 0.1, 0.5}
			for _, shape := range deposition.Shapes() {
				out := deposition.EvaluateSlice(shape, cs, params)
				Expect(out).To(HaveLen(len(cs)))
				for i, c := range cs {
					Expect(out[i]).To(Equal(deposition.Evaluate(shape, c, params)))
				}
			}
		})

		It("returns an empty slice for empty input", func() {
			Expect(deposition.EvaluateSlice(deposition.SoftSwitch, nil, params)).To(BeEmpty())
		})
	})

	Describe("degenerate parameters", func() {
		It("propagates NaN for a zero width at the threshold", func() {
			params.TransitionWidth = 0
			Expect(math.IsNaN(deposition.Evaluate(deposition.SoftSwitch, params.Threshold, params))).To(BeTrue())
		})

		It("propagates non-finite values for a zero threshold", func() {
			params.Threshold = 0
			v := deposition.Evaluate(deposition.LinearSoftSwitch, 0.01, params)
			Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeTrue())
		})

		It("is rejected by Validate", func() {
			params.TransitionWidth = -1
			Expect(params.Validate()).To(MatchError(deposition.ErrInvalidParam))
			params = deposition.DefaultParams(1)
			params.Threshold = 0
			Expect(params.Validate()).To(MatchError(deposition.ErrInvalidParam))
			Expect(deposition.DefaultParams(1).Validate()).To(Succeed())
		})
	})

	It("panics on a shape outside the declared set", func() {
		Expect(func() { deposition.Evaluate(deposition.Shape(42), 0, params) }).To(Panic())
	})
})

var _ = Describe("Shape", func() {
	DescribeTable("ParseShape",
		func(name string, want deposition.Shape) {
			got, err := deposition.ParseShape(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("constant", "constant", deposition.Constant),
		Entry("soft switch", "soft_switch", deposition.SoftSwitch),
		Entry("legacy atan", "atan", deposition.SoftSwitch),
		Entry("linear soft switch", "Linear_Soft_Switch", deposition.LinearSoftSwitch),
		Entry("legacy linatan", "linAtan", deposition.LinearSoftSwitch),
	)

	It("rejects unknown names", func() {
		_, err := deposition.ParseShape("gaussian")
		Expect(err).To(MatchError(deposition.ErrUnknownShape))
	})

	It("round-trips through text", func() {
		for _, s := range deposition.Shapes() {
			text, err := s.MarshalText()
			Expect(err).NotTo(HaveOccurred())
			var back deposition.Shape
			Expect(back.UnmarshalText(text)).To(Succeed())
			Expect(back).To(Equal(s))
		}
	})
})

var _ = Describe("Response", func() {
	It("delegates to Evaluate", func() {
		r, err := deposition.NewResponse(deposition.SoftSwitch, deposition.DefaultParams(2))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Rate(0.08)).To(BeNumerically("~", 1.0, 1e-12))
		Expect(r.Func()(0.08)).To(Equal(r.Rate(0.08)))
		Expect(r.Rates([]float64{0.08, 0.08})).To(HaveLen(2))
		Expect(r.String()).To(ContainSubstring("soft_switch"))
	})

	It("rejects an unknown shape", func() {
		_, err := deposition.NewResponse(deposition.Shape(-1), deposition.DefaultParams(1))
		Expect(err).To(MatchError(deposition.ErrUnknownShape))
	})
})
