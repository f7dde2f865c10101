package scanning

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EncodeImage", func() {
	DescribeTable("round-trips arbitrary bytes",
		func(data []byte) {
			decoded, err := base64.StdEncoding.DecodeString(EncodeImage(data))
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(HaveLen(len(data)))
			Expect(bytes.Equal(decoded, data)).To(BeTrue())
		},
		Entry("empty input", []byte{}),
		Entry("single byte", []byte{0xff}),
		Entry("text", []byte("fake image data")),
		Entry("binary with padding", []byte{0x00, 0x01, 0x02, 0x03, 0x04}),
	)

	It("round-trips random payloads", func() {
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 50; i++ {
			data := make([]byte, rng.Intn(4096))
			rng.Read(data)
			decoded, err := base64.StdEncoding.DecodeString(EncodeImage(data))
			Expect(err).NotTo(HaveOccurred())
			Expect(bytes.Equal(decoded, data)).To(BeTrue())
		}
	})
})

var _ = Describe("normalizeMediaType", func() {
	It("defaults to JPEG when empty", func() {
		Expect(normalizeMediaType("  ")).To(Equal("image/jpeg"))
	})

	It("lowercases and trims", func() {
		Expect(normalizeMediaType(" Image/PNG ")).To(Equal("image/png"))
	})
})

var _ = Describe("toPNG", func() {
	sample := func() image.Image {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		img.Set(1, 1, color.RGBA{R: 255, A: 255})
		return img
	}

	When("the upload is already PNG", func() {
		It("returns the bytes untouched", func() {
			data := []byte("not really a png")
			out, mediaType, err := toPNG(data, "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(data))
			Expect(mediaType).To(Equal("image/png"))
		})
	})

	When("the upload is JPEG", func() {
		It("converts it to a decodable PNG", func() {
			var buf bytes.Buffer
			Expect(jpeg.Encode(&buf, sample(), nil)).To(Succeed())

			out, mediaType, err := toPNG(buf.Bytes(), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())
			Expect(mediaType).To(Equal("image/png"))
			_, err = png.Decode(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("the upload cannot be decoded", func() {
		It("returns an error", func() {
			_, _, err := toPNG([]byte("garbage"), "image/jpeg")
			Expect(err).To(MatchError(ContainSubstring("converting image to PNG")))
		})
	})
})

var _ = Describe("isHEIC", func() {
	It("detects the ftyp brand", func() {
		data := append([]byte{0, 0, 0, 24}, []byte("ftypheic")...)
		Expect(isHEIC(data, "image/jpeg")).To(BeTrue())
	})

	It("detects the media type", func() {
		Expect(isHEIC([]byte("short"), "image/heif")).To(BeTrue())
	})

	It("ignores JPEG data", func() {
		Expect(isHEIC([]byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0, 0, 0, 0, 0}, "image/jpeg")).To(BeFalse())
	})
})
