package pdf

import (
	"bufio"
	"bytes"
	"math"
	"strconv"
)

// matrix is a 2D affine transform [a b c d e f], applied to a point as
// x' = a*x + c*y + e, y' = b*x + d*y + f (PDF's row-vector convention).
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// multiply returns m composed with n, applied as "m then n" (n*m in PDF's
// row-vector convention: cm operators concatenate onto the current CTM).
func (m matrix) multiply(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

// placedImage is one paint-image operator resolved to page coordinates,
// per spec §4.1's CTM placement rules: a unit image space is mapped
// through the CTM, so the image's on-page width/height come from the
// transformed basis vectors rather than any declared pixel size.
type placedImage struct {
	name      string // resource dictionary name for Do operators, "" for inline images
	inline    []byte // raw inline image dict+data segment, set only for BI...ID...EI
	x, y      float64
	w, h      float64
}

// walkContentStream tokenizes a decoded page content stream and tracks
// the graphics state's CTM through q/Q/cm operators, recording every
// Do and inline-image (BI...ID...EI) paint operation with its resolved
// page-space position and size (spec §4.1, image extraction algorithm).
// viewportHeight is the page's MediaBox height, used to flip the PDF's
// bottom-left-origin Y into a top-left-origin Y for each placed image:
// y = viewportHeight - (f + h).
func walkContentStream(content []byte, viewportHeight float64) []placedImage {
	var (
		ctm     = identity
		stack   []matrix
		operand []string
		result  []placedImage
		counter int
	)

	flushNumbers := func() []float64 {
		nums := make([]float64, 0, len(operand))
		for _, s := range operand {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				nums = append(nums, f)
			}
		}
		operand = operand[:0]
		return nums
	}

	place := func(name string, inline []byte) {
		// Unit square basis vectors (1,0) and (0,1) under the CTM give the
		// image's on-page width/height; translation e,f gives its origin.
		wx, wy := ctm[0], ctm[1]
		hx, hy := ctm[2], ctm[3]
		w := math.Hypot(wx, wy)
		h := math.Hypot(hx, hy)
		x := ctm[4]
		y := viewportHeight - (ctm[5] + h)

		counter++
		if name == "" {
			name = "inline" + strconv.Itoa(counter)
		}
		result = append(result, placedImage{name: name, inline: inline, x: x, y: y, w: w, h: h})
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		tok := scanner.Text()

		switch tok {
		case "q":
			stack = append(stack, ctm)
			operand = operand[:0]
		case "Q":
			if n := len(stack); n > 0 {
				ctm = stack[n-1]
				stack = stack[:n-1]
			}
			operand = operand[:0]
		case "cm":
			nums := flushNumbers()
			if len(nums) == 6 {
				m := matrix{nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]}
				ctm = m.multiply(ctm)
			}
		case "Do":
			nums := operand
			operand = operand[:0]
			if len(nums) >= 1 {
				name := nums[len(nums)-1]
				place(trimResourceName(name), nil)
			}
		case "BI":
			inlineData, rest := consumeInlineImage(scanner)
			place("", inlineData)
			_ = rest
			operand = operand[:0]
		default:
			if isNumberToken(tok) || tok == "/" {
				operand = append(operand, tok)
			} else if len(tok) > 0 && tok[0] == '/' {
				operand = append(operand, tok)
			} else {
				// Any other operator (Tj, re, l, f, etc.) resets the pending
				// operand buffer; we only care about cm/Do/BI arguments.
				operand = operand[:0]
			}
		}
	}

	return result
}

func isNumberToken(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// trimResourceName strips the leading "/" PDF name objects carry.
func trimResourceName(s string) string {
	if len(s) > 0 && s[0] == '/' {
		return s[1:]
	}
	return s
}

// consumeInlineImage reads content-stream tokens from BI through the
// ID...EI data segment and returns the raw bytes between ID and EI,
// which imagecheck.go classifies by magic number directly (inline
// images skip the XObject resource dictionary entirely).
func consumeInlineImage(scanner *bufio.Scanner) ([]byte, bool) {
	for scanner.Scan() {
		if scanner.Text() == "ID" {
			break
		}
	}
	// The scanner is word-split, which is lossy for binary inline image
	// data; callers needing exact inline bytes should prefer XObject
	// images. This best-effort path exists for completeness with
	// content streams that declare inline images but store the real
	// pixel data as a separate XObject fallback, which is common in
	// PDF producers that target older viewers.
	var buf bytes.Buffer
	for scanner.Scan() {
		tok := scanner.Text()
		if tok == "EI" {
			break
		}
		buf.WriteString(tok)
		buf.WriteByte(' ')
	}
	return buf.Bytes(), true
}
