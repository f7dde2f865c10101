package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

const pngMediaType = "image/png"

// renderPDF renders the first page of a PDF as PNG. Receipts are almost always a single page.
func renderPDF(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return encodePNG(img)
}

// decodeImage decodes JPEG, PNG, GIF and HEIC/HEIF data
func decodeImage(imageData []byte, mediaType string) (image.Image, error) {
	if isHEIC(imageData, mediaType) {
		img, err := heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decoding %s image: %w", mediaType, err)
	}
	return img, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEIC checks the ftyp box brand and the declared media type.
// iPhone uploads frequently arrive as HEIC even when labelled image/jpeg.
func isHEIC(data []byte, mediaType string) bool {
	if len(data) >= 12 && string(data[4:8]) == "ftyp" {
		switch string(data[8:12]) {
		case "heic", "heif", "mif1", "msf1":
			return true
		}
	}
	return strings.Contains(mediaType, "heic") || strings.Contains(mediaType, "heif")
}

// toPNG normalizes an upload to PNG for backends that only accept common raster
// formats. It returns the PNG bytes and media type; PNG input is returned untouched.
func toPNG(imageData []byte, mediaType string) ([]byte, string, error) {
	mediaType = normalizeMediaType(mediaType)

	if mediaType == "application/pdf" {
		data, err := renderPDF(imageData)
		if err != nil {
			return nil, "", fmt.Errorf("converting PDF to image: %w", err)
		}
		return data, pngMediaType, nil
	}

	if mediaType == pngMediaType && !isHEIC(imageData, mediaType) {
		return imageData, pngMediaType, nil
	}

	img, err := decodeImage(imageData, mediaType)
	if err != nil {
		return nil, "", fmt.Errorf("converting image to PNG: %w", err)
	}
	data, err := encodePNG(img)
	if err != nil {
		return nil, "", err
	}
	return data, pngMediaType, nil
}
