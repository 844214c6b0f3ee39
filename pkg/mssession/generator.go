package mssession

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	mathrand "math/rand/v2"
	"strconv"
	"strings"
	"sync/atomic"
)

const (
	// DefaultPrefix starts every generated session id.
	DefaultPrefix = "pvs"

	suffixBytes  = 4
	suffixLength = 6
)

// GeneratorOption configures an IDGenerator.
type GeneratorOption func(*IDGenerator)

// WithStrongSource replaces the cryptographic random source.
// A nil reader skips straight to the weak source.
func WithStrongSource(r io.Reader) GeneratorOption {
	return func(g *IDGenerator) {
		g.strong = r
	}
}

// WithWeakSource replaces the pseudo-random fallback.
// A nil function leaves only the fixed fallback generator.
func WithWeakSource(fn func() uint64) GeneratorOption {
	return func(g *IDGenerator) {
		g.weak = fn
	}
}

// IDGenerator mints "<prefix>_<unix-ms>_<suffix>" session ids.
// Generate never fails: when the strong source errors it degrades to the weak
// source, and without either it uses a fixed xorshift generator.
type IDGenerator struct {
	prefix  string
	strong  io.Reader
	weak    func() uint64
	counter atomic.Uint64
}

// NewIDGenerator returns a generator using crypto/rand with a math/rand fallback.
// An empty prefix selects DefaultPrefix.
func NewIDGenerator(prefix string, opts ...GeneratorOption) *IDGenerator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	g := &IDGenerator{
		prefix: prefix,
		strong: rand.Reader,
		weak:   mathrand.Uint64,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Prefix returns the configured id prefix.
func (g *IDGenerator) Prefix() string {
	return g.prefix
}

// Generate returns a fresh session id for the given unix millisecond timestamp.
func (g *IDGenerator) Generate(ts int64) string {
	var b strings.Builder
	b.Grow(len(g.prefix) + 22 + suffixLength)
	b.WriteString(g.prefix)
	b.WriteByte('_')
	b.WriteString(strconv.FormatInt(ts, 10))
	b.WriteByte('_')
	b.WriteString(g.suffix(ts))
	return b.String()
}

func (g *IDGenerator) suffix(ts int64) string {
	var buf [suffixBytes]byte
	if g.readStrong(buf[:]) {
		return encodeSuffix(buf[:])
	}
	if g.weak != nil {
		binary.LittleEndian.PutUint32(buf[:], uint32(g.weak()))
		return encodeSuffix(buf[:])
	}
	binary.LittleEndian.PutUint32(buf[:], uint32(xorshift(uint64(ts)^g.counter.Add(1)*0x9e3779b97f4a7c15)))
	return encodeSuffix(buf[:])
}

func (g *IDGenerator) readStrong(buf []byte) (ok bool) {
	if g.strong == nil {
		return false
	}
	// A misbehaving reader must not take the pageview down with it.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_, err := io.ReadFull(g.strong, buf)
	return err == nil
}

// encodeSuffix renders each byte in base 36 and keeps the first six characters.
// Every byte yields at least one character, so the result is never empty.
func encodeSuffix(buf []byte) string {
	var b strings.Builder
	for _, c := range buf {
		b.WriteString(strconv.FormatUint(uint64(c), 36))
	}
	s := b.String()
	if len(s) > suffixLength {
		s = s[:suffixLength]
	}
	return s
}

func xorshift(x uint64) uint64 {
	if x == 0 {
		x = 0x2545f4914f6cdd1d
	}
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	return x * 0x2545f4914f6cdd1d
}
