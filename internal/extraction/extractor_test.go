package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Extractors", func() {
	DescribeTable("SpanExtractor",
		func(text, expected string, ok bool) {
			out, err := SpanExtractor{}.Extract(text)
			if !ok {
				Expect(err).To(MatchError(ErrNoObject))
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(expected))
		},
		Entry("bare object", `{"a":1}`, `{"a":1}`, true),
		Entry("surrounded by prose", `x {"a":1} y`, `{"a":1}`, true),
		Entry("spans to the last brace", `{"a":1} and {"b":2}`, `{"a":1} and {"b":2}`, true),
		Entry("no opening brace", `"a":1}`, "", false),
		Entry("no closing brace", `{"a":1`, "", false),
		Entry("reversed braces", `} {`, "", false),
	)

	DescribeTable("BalancedExtractor",
		func(text, expected string, ok bool) {
			out, err := BalancedExtractor{}.Extract(text)
			if !ok {
				Expect(err).To(MatchError(ErrNoObject))
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(expected))
		},
		Entry("bare object", `{"a":1}`, `{"a":1}`, true),
		Entry("stops at the first object", `{"a":1} and {"b":2}`, `{"a":1}`, true),
		Entry("nested objects", `pre {"a":{"b":{}}} post}`, `{"a":{"b":{}}}`, true),
		Entry("braces inside strings", `{"a":"}{"}`, `{"a":"}{"}`, true),
		Entry("escaped quotes inside strings", `{"a":"say \"}\""} tail`, `{"a":"say \"}\""}`, true),
		Entry("unbalanced", `{"a":{"b":1}`, "", false),
		Entry("no brace", `plain text`, "", false),
	)

	Describe("NewExtractor", func() {
		It("defaults to the span extractor", func() {
			ex, err := NewExtractor("")
			Expect(err).NotTo(HaveOccurred())
			Expect(ex).To(Equal(SpanExtractor{}))
		})

		It("returns the balanced extractor", func() {
			ex, err := NewExtractor("balanced")
			Expect(err).NotTo(HaveOccurred())
			Expect(ex).To(Equal(BalancedExtractor{}))
		})

		It("rejects unknown names", func() {
			_, err := NewExtractor("regex")
			Expect(err).To(HaveOccurred())
		})
	})
})
