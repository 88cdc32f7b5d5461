package layoutsvc

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/sijun-lee/examsift/model"
)

// ErrMissingAPIKey is returned when the client is used without credentials.
var ErrMissingAPIKey = errors.New("missing API key")

// ParseHOCR extracts positioned word anchors from an hOCR document. Word
// boxes are translated into the enclosing ocr_page element's coordinate
// frame and normalized against its pixel dimensions; page bboxes need not
// start at the origin. Words outside any page element, or words whose
// bbox cannot be parsed, are skipped.
func ParseHOCR(r io.Reader) ([]model.TextAnchor, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR: %w", err)
	}

	var anchors []model.TextAnchor
	var pageNo int
	var pageX0, pageY0, pageW, pageH float64

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch hocrClass(n) {
			case "ocr_page":
				x0, y0, x1, y1, ok := parseBBox(attr(n, "title"))
				if ok && x1 > x0 && y1 > y0 {
					pageNo++
					pageX0 = x0
					pageY0 = y0
					pageW = x1 - x0
					pageH = y1 - y0
				}
			case "ocrx_word":
				if pageNo > 0 && pageW > 0 && pageH > 0 {
					if x0, y0, x1, y1, ok := parseBBox(attr(n, "title")); ok {
						text := strings.TrimSpace(nodeText(n))
						if text != "" {
							anchors = append(anchors, model.TextAnchor{
								Page: pageNo,
								Text: text,
								BBox: model.NewPolygon(
									(x0-pageX0)/pageW, (y0-pageY0)/pageH,
									(x1-pageX0)/pageW, (y1-pageY0)/pageH),
							})
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return anchors, nil
}

func hocrClass(n *html.Node) string {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == "ocr_page" || c == "ocrx_word" {
			return c
		}
	}
	return ""
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

// parseBBox pulls "bbox x0 y0 x1 y1" out of an hOCR title attribute.
func parseBBox(title string) (x0, y0, x1, y1 float64, ok bool) {
	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) != 5 || fields[0] != "bbox" {
			continue
		}
		vals := make([]float64, 4)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return 0, 0, 0, 0, false
			}
			vals[i] = v
		}
		return vals[0], vals[1], vals[2], vals[3], true
	}
	return 0, 0, 0, 0, false
}
