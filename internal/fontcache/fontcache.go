// Package fontcache resolves a shapes.FontDescriptor to a concrete
// font.Face. The teacher's own descriptor-to-face matcher
// (ctxmenu.go's parseFontString -> FontMatch) has no retrievable
// definition, so this resolver is authored against the bundled Go fonts
// instead of fontconfig, selecting among them the same way
// fbstatus.go picks gofont/goregular vs gofont/goitalic.
package fontcache

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wayscriber/wayscriber/internal/shapes"
)

// Cache resolves descriptors to faces and memoizes by (bold, italic,
// size); the descriptor's family does not take part in the key.
type Cache struct {
	mu     sync.Mutex
	faces  map[key]font.Face
	fonts  map[string]*truetype.Font
}

type key struct {
	bold, italic bool
	size         float64
}

// New returns an empty cache backed by the bundled Go fonts.
func New() *Cache {
	return &Cache{
		faces: make(map[key]font.Face),
		fonts: make(map[string]*truetype.Font),
	}
}

func isBold(weight string) bool {
	w := strings.ToLower(strings.TrimSpace(weight))
	switch w {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	if n, err := strconv.Atoi(w); err == nil && n >= 600 {
		return true
	}
	return false
}

func isItalic(style shapes.FontStyle) bool {
	return style == shapes.FontStyleItalic || style == shapes.FontStyleOblique
}

func (c *Cache) parsed(name string, data []byte) (*truetype.Font, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.fonts[name]; ok {
		return f, nil
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fontcache: parse %s: %w", name, err)
	}
	c.fonts[name] = f
	return f, nil
}

// Face resolves d at the given pixel size. Family is currently ignored
// (no host font directory scan is performed); only weight and style
// select among the four bundled faces, matching the degree of fidelity
// the distilled spec actually exercises (font_descriptor + size).
func (c *Cache) Face(d shapes.FontDescriptor, size float64) (font.Face, error) {
	if size <= 0 {
		size = 16
	}
	k := key{bold: isBold(d.Weight), italic: isItalic(d.Style), size: size}

	c.mu.Lock()
	if f, ok := c.faces[k]; ok {
		c.mu.Unlock()
		return f, nil
	}
	c.mu.Unlock()

	var name string
	var data []byte
	switch {
	case k.bold && k.italic:
		name, data = "gobolditalic", gobolditalic.TTF
	case k.bold:
		name, data = "gobold", gobold.TTF
	case k.italic:
		name, data = "goitalic", goitalic.TTF
	default:
		name, data = "goregular", goregular.TTF
	}

	parsed, err := c.parsed(name, data)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(parsed, &truetype.Options{Size: size})

	c.mu.Lock()
	c.faces[k] = face
	c.mu.Unlock()
	return face, nil
}

// Measure returns the pixel width and height of text rendered with d at
// size, used for text bounding boxes.
func (c *Cache) Measure(d shapes.FontDescriptor, size float64, text string) (w, h float64) {
	face, err := c.Face(d, size)
	if err != nil {
		return 0, size
	}
	adv := font.MeasureString(face, text)
	metrics := face.Metrics()
	return float64(adv) / 64, float64(metrics.Height) / 64
}
