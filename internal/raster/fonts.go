// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package raster

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontDirs are searched, in order, when a template requests a font family
// by name. Standard Linux locations; missing directories just miss.
var fontDirs = []string{
	"/usr/share/fonts/truetype/dejavu",
	"/usr/share/fonts/truetype/liberation",
	"/usr/share/fonts/truetype",
	"/usr/local/share/fonts",
}

// systemFallbacks are tried after the requested family and before the
// embedded Go fonts. Indexed by bold.
var systemFallbacks = map[bool][]string{
	false: {
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	},
	true: {
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	},
}

// fontCache memoizes parsed font programs. Faces are cheap to derive and
// created per call; parsing TTF files is not.
type fontCache struct {
	mu     sync.Mutex
	parsed map[string]*opentype.Font
}

var fonts = fontCache{parsed: make(map[string]*opentype.Font)}

// face returns a usable font face for the requested family, weight and
// pixel size. The lookup cascades: requested family on disk, then the
// system fallbacks, then the embedded Go fonts. It never fails; a missing
// font must never block ticket rendering.
func face(family string, bold bool, sizePx int) font.Face {
	if sizePx < 1 {
		sizePx = 1
	}

	for _, path := range candidatePaths(family, bold) {
		if f := fonts.fromFile(path); f != nil {
			if fc := newFace(f, sizePx); fc != nil {
				return fc
			}
		}
	}

	return newFace(fonts.embedded(bold), sizePx)
}

// candidatePaths builds the ordered list of font files to try.
func candidatePaths(family string, bold bool) []string {
	var paths []string
	if family != "" {
		if strings.HasSuffix(strings.ToLower(family), ".ttf") {
			paths = append(paths, family)
		} else {
			name := family
			if bold {
				name += "-Bold"
			}
			for _, dir := range fontDirs {
				paths = append(paths, filepath.Join(dir, name+".ttf"))
			}
		}
	}
	return append(paths, systemFallbacks[bold]...)
}

// fromFile loads and caches a font program from disk. Returns nil when the
// file is absent or unparsable; the caller moves on to the next candidate.
func (c *fontCache) fromFile(path string) *opentype.Font {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.parsed[path]; ok {
		return f
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.parsed[path] = nil
		return nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		c.parsed[path] = nil
		return nil
	}
	c.parsed[path] = f
	return f
}

// embedded returns the built-in Go font, the end of every fallback chain.
func (c *fontCache) embedded(bold bool) *opentype.Font {
	key := "embedded:regular"
	data := goregular.TTF
	if bold {
		key = "embedded:bold"
		data = gobold.TTF
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.parsed[key]; ok && f != nil {
		return f
	}
	f, err := opentype.Parse(data)
	if err != nil {
		// The embedded fonts are known-good TTF data.
		panic("raster: embedded font failed to parse: " + err.Error())
	}
	c.parsed[key] = f
	return f
}

// newFace derives a face sized in pixels. At 72 DPI one point equals one
// pixel, so the caller's pixel size maps directly.
func newFace(f *opentype.Font, sizePx int) font.Face {
	fc, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	return fc
}

// measure reports the advance width of s in whole pixels.
func measure(fc font.Face, s string) int {
	return font.MeasureString(fc, s).Ceil()
}

// lineHeight is the vertical advance between stacked lines: the face's
// ascent plus descent scaled by 1.2.
func lineHeight(fc font.Face) int {
	m := fc.Metrics()
	h := (m.Ascent + m.Descent).Ceil()
	return int(math.Round(float64(h) * 1.2))
}
