package app

import (
	"image"
	"image/color"
	"image/draw"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawBillboard's size parameter is the height in world units
const labelWorldHeight = 0.55

var (
	labelInk      = color.RGBA{R: 236, G: 240, B: 244, A: 255}
	labelBackdrop = color.RGBA{R: 10, G: 12, B: 16, A: 200}
)

// labelCache renders label text through an x/image font face into
// textures drawn as camera-facing billboards. Textures are cached by
// text and live until teardown; the set of labels on screen is small
// and stable, so the cache never needs eviction.
type labelCache struct {
	face     font.Face
	textures map[string]rl.Texture2D
}

func newLabelCache() *labelCache {
	return &labelCache{
		face:     basicfont.Face7x13,
		textures: make(map[string]rl.Texture2D),
	}
}

func (lc *labelCache) texture(text string) (rl.Texture2D, bool) {
	if tex, ok := lc.textures[text]; ok {
		return tex, true
	}

	_, advance := font.BoundString(lc.face, text)
	width := advance.Ceil()
	metrics := lc.face.Metrics()
	height := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	if width <= 0 || height <= 0 {
		return rl.Texture2D{}, false
	}

	padding := 3
	img := image.NewRGBA(image.Rect(0, 0, width+padding*2, height+padding*2))
	draw.Draw(img, img.Bounds(), image.NewUniform(labelBackdrop), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelInk),
		Face: lc.face,
		Dot:  fixed.Point26_6{X: fixed.I(padding), Y: fixed.I(padding + ascent)},
	}
	d.DrawString(text)

	tex := rl.LoadTextureFromImage(&rl.Image{
		Data:    unsafe.Pointer(&img.Pix[0]),
		Width:   int32(img.Bounds().Dx()),
		Height:  int32(img.Bounds().Dy()),
		Mipmaps: 1,
		Format:  rl.UncompressedR8g8b8a8,
	})

	lc.textures[text] = tex
	return tex, true
}

func (lc *labelCache) draw(camera rl.Camera3D, text string, position rl.Vector3) {
	tex, ok := lc.texture(text)
	if !ok {
		return
	}
	rl.DrawBillboard(camera, tex, position, labelWorldHeight, rl.White)
}

// cleanup releases every cached texture. Must run before CloseWindow.
func (lc *labelCache) cleanup() {
	for _, tex := range lc.textures {
		rl.UnloadTexture(tex)
	}
	lc.textures = make(map[string]rl.Texture2D)
}
