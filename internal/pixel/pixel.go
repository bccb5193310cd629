// Package pixel 提供 1x1 透明占位图。
package pixel

// TransparentGIF 是 1x1 透明 GIF 的原始字节。
var TransparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, // GIF89a
	0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00,
	0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF,
	0x21, 0xF9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, // 透明扩展块
	0x2C, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0x02, 0x02, 0x44, 0x01, 0x00,
	0x3B,
}

// TransparentSVG 是 1x1 透明 SVG。
const TransparentSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"/>`
