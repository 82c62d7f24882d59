package color

// Packed legacy values. Old maps smuggle 24-bit colors through the event
// value field by adding an offset.
const (
	PackedOffset = 2_000_000_000
	PackedReset  = 1_900_000_001
)

// LegacyCodec decodes colors packed into event values.
type LegacyCodec struct{}

// IsPacked reports whether v carries a packed color.
func (LegacyCodec) IsPacked(v int) bool { return v >= PackedOffset }

// IsReset reports whether v is the reset sentinel.
func (LegacyCodec) IsReset(v int) bool { return v == PackedReset }

// Decode unpacks v into an opaque color. v must satisfy IsPacked.
func (LegacyCodec) Decode(v int) Color {
	rgb := v - PackedOffset
	r := (rgb >> 16) & 0xFF
	g := (rgb >> 8) & 0xFF
	b := rgb & 0xFF
	return RGBA(float64(r)/255.0, float64(g)/255.0, float64(b)/255.0, 1)
}

// Pack encodes c as a legacy event value. Alpha is dropped.
func Pack(c Color) int {
	r, g, b, _ := c.RGBA255()
	return PackedOffset + int(r)<<16 + int(g)<<8 + int(b)
}
