package svgconv

import (
	"bytes"
	"encoding/base64"
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/h2non/filetype"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

var errInvalidDataURL = errors.New("invalid data URL")

func (c *converter) convertImage(n *svgdom.Node, st state, parent *svgtree.Node) {
	href, ok := n.Str(svgdom.AttrHref)
	if !ok {
		warn("image has no href, skipped", "id", n.ID)
		return
	}
	data, format, ok := loadImageHref(href)
	if !ok {
		return
	}

	full := svgdom.Length{Num: 100, Unit: svgdom.UnitPercent}
	rect := svgpath.Rect{
		X: st.userLength(n, svgdom.AttrX, svgdom.Length{}),
		Y: st.userLength(n, svgdom.AttrY, svgdom.Length{}),
		W: st.userLength(n, svgdom.AttrWidth, full),
		H: st.userLength(n, svgdom.AttrHeight, full),
	}
	if !rect.IsValid() {
		warn("image has an invalid size, skipped", "id", n.ID)
		return
	}

	parent.Append(&svgtree.Image{
		ID:         st.elementID(n),
		Visibility: keyword(n, svgdom.AttrVisibility, svgtree.ParseVisibility, svgtree.Visible),
		ViewBox:    svgtree.ViewBox{Rect: rect, Aspect: n.AspectRatio()},
		Data:       data,
		Format:     format,
	})
}

// loadImageHref decodes data URLs, and keeps other references
// as paths, whose format is deduced from the extension.
// The external files are not read.
func loadImageHref(href string) (svgtree.ImageData, svgtree.ImageFormat, bool) {
	if strings.HasPrefix(href, "data:") {
		raw, mime, err := decodeDataURL(href)
		if err != nil {
			warn("invalid image data", "error", err)
			return svgtree.ImageData{}, 0, false
		}
		format, ok := sniffImage(raw, mime)
		if !ok {
			warn("unsupported image data", "mime", mime)
			return svgtree.ImageData{}, 0, false
		}
		return svgtree.ImageData{Raw: raw}, format, true
	}

	var format svgtree.ImageFormat
	switch strings.ToLower(path.Ext(href)) {
	case ".png":
		format = svgtree.ImagePNG
	case ".jpg", ".jpeg":
		format = svgtree.ImageJPEG
	case ".svg", ".svgz":
		format = svgtree.ImageSVG
	default:
		warn("unsupported image file", "path", href)
		return svgtree.ImageData{}, 0, false
	}
	return svgtree.ImageData{Path: href}, format, true
}

// decodeDataURL parses data:[<mime>][;base64],<data>
func decodeDataURL(s string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, "", errInvalidDataURL
	}
	isBase64 := strings.HasSuffix(header, ";base64")
	mime, _, _ := strings.Cut(strings.TrimSuffix(header, ";base64"), ";")
	mime = strings.TrimSpace(mime)

	if isBase64 {
		// line breaks are common in embedded images
		payload = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\n', '\r':
				return -1
			}
			return r
		}, payload)
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		return raw, mime, err
	}
	text, err := url.PathUnescape(payload)
	return []byte(text), mime, err
}

// sniffImage uses the content first, then the declared mime type.
func sniffImage(data []byte, mime string) (svgtree.ImageFormat, bool) {
	kind, _ := filetype.Match(data)
	switch kind.Extension {
	case "png":
		return svgtree.ImagePNG, true
	case "jpg":
		return svgtree.ImageJPEG, true
	case "gz":
		// compressed SVG
		if mime == "image/svg+xml" {
			return svgtree.ImageSVG, true
		}
	}
	if mime == "image/svg+xml" || bytes.Contains(data, []byte("<svg")) {
		return svgtree.ImageSVG, true
	}
	return 0, false
}
