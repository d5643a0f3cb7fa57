// Copyright 2025 The TCell Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package input

import "errors"

// ErrPasteOverflow is returned by Feed when a bracketed-paste body would
// grow past pasteBufCap. The decoder recovers by discarding the paste
// buffer and returning to the Ground state — it does not wedge.
var ErrPasteOverflow = errors.New("input: paste buffer exceeded maximum size")

const (
	pasteBufInit = 4 * 1024
	pasteBufCap  = 16 * 1024 * 1024
	maxParams    = 16
	maxSubParams = 4
)

type decState int

const (
	stGround decState = iota
	stEscape
	stCSI
	stMouseSGR
	stSS3
	stPaste
	stUtf8
	stUtf8Alt
)

var pasteEndSeq = []byte{0x1b, '[', '2', '0', '1', '~'}

// Decoder is a byte-at-a-time state machine turning a raw terminal input
// stream into Events. It owns no fd and performs no I/O; callers feed it
// one byte at a time, typically from a read loop, and Feed returns each
// decoded Event directly — the decoder has no background goroutine of
// its own.
type Decoder struct {
	state decState

	params  [][]int
	curSub  []int
	curNum  int
	numAny  bool
	private byte
	escAlt  bool

	utf8Need int
	utf8Got  int
	utf8Val  rune

	paste      []byte
	pasteMatch []byte
}

// NewDecoder returns a Decoder ready to consume a fresh byte stream.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// IsPending reports whether the decoder is in the middle of a multi-byte
// sequence and should be given more bytes (or, for a bare ESC, allowed a
// short grace period) before the caller decides nothing more is coming.
func (d *Decoder) IsPending() bool { return d.state != stGround }

// Reset aborts whatever sequence is in progress and returns the decoder
// to Ground. If the pending sequence was exactly a bare, undispatched
// ESC, Reset returns the canonical Escape key event for it — this is how
// the escape-timeout coordinator (Reader) flushes a lone ESC once no
// follow-up bytes arrive in time.
func (d *Decoder) Reset() Event {
	var ev Event
	if d.state == stEscape {
		ev = &Key{Special: KeyEscape, Mods: 0}
	}
	d.clear()
	return ev
}

func (d *Decoder) clear() {
	d.state = stGround
	d.params = nil
	d.curSub = nil
	d.curNum = 0
	d.numAny = false
	d.private = 0
	d.escAlt = false
	d.utf8Need = 0
	d.utf8Got = 0
	d.utf8Val = 0
	d.paste = nil
	d.pasteMatch = nil
}

// Feed advances the state machine by one byte. It returns a non-nil
// Event when a complete sequence was just recognized, or a non-nil error
// for the one failure mode a caller must react to (paste overflow); all
// other malformed input is absorbed silently and the decoder resets to
// Ground.
func (d *Decoder) Feed(b byte) (Event, error) {
	switch d.state {
	case stGround:
		return d.feedGround(b)
	case stEscape:
		return d.feedEscape(b)
	case stCSI:
		return d.feedCSI(b)
	case stMouseSGR:
		return d.feedMouseSGR(b)
	case stSS3:
		return d.feedSS3(b)
	case stPaste:
		return d.feedPaste(b)
	case stUtf8, stUtf8Alt:
		return d.feedUtf8(b)
	}
	d.clear()
	return nil, nil
}

func (d *Decoder) feedGround(b byte) (Event, error) {
	switch {
	case b == 0x1b:
		d.state = stEscape
		return nil, nil
	case b >= 0x80:
		return d.beginUtf8(b, false)
	case b < 0x20 || b == 0x7f:
		if k := d.control(b, 0); k != nil {
			return k, nil
		}
		return nil, nil
	default:
		return &Key{Codepoint: rune(b)}, nil
	}
}

// control canonicalizes a C0 control byte (or DEL) to a Key, applying
// extraMods (used by the Escape state to add ModAlt).
func (d *Decoder) control(b byte, extraMods Modifiers) *Key {
	if k, ok := canonicalControl(b); ok {
		k.Mods |= extraMods
		return &k
	}
	if b >= 1 && b <= 26 {
		return &Key{Codepoint: rune('a' + b - 1), Mods: ModCtrl | extraMods}
	}
	return nil
}

func (d *Decoder) feedEscape(b byte) (Event, error) {
	switch {
	case b == '[':
		d.state = stCSI
		d.params = nil
		d.curSub = nil
		d.curNum = 0
		d.numAny = false
		d.private = 0
		return nil, nil
	case b == 'O':
		d.state = stSS3
		return nil, nil
	case b == 0x1b:
		// Bare ESC followed by another ESC: emit the first, stay in
		// Escape for the second.
		return &Key{Special: KeyEscape}, nil
	case b == 0x7f:
		d.clear()
		return &Key{Special: KeyBackspace, Mods: ModAlt}, nil
	case b >= 0x80:
		return d.beginUtf8(b, true)
	case b < 0x20:
		ev := d.control(b, ModAlt)
		d.state = stGround
		if ev == nil {
			return nil, nil
		}
		return ev, nil
	default:
		d.state = stGround
		return &Key{Codepoint: rune(b), Mods: ModAlt}, nil
	}
}

func (d *Decoder) pushDigit(b byte) {
	const maxNum = int(^uint(0) >> 1)
	d.numAny = true
	digit := int(b - '0')
	if d.curNum > (maxNum-digit)/10 {
		d.curNum = maxNum // saturate on overflow rather than wrap
		return
	}
	d.curNum = d.curNum*10 + digit
}

func (d *Decoder) pushSubParam() {
	d.curSub = append(d.curSub, d.curNum)
	d.curNum = 0
	d.numAny = false
}

func (d *Decoder) pushParam() {
	d.pushSubParam()
	if len(d.params) < maxParams {
		d.params = append(d.params, d.curSub)
	}
	d.curSub = nil
}

func (d *Decoder) param(i int) int {
	if i < 0 || i >= len(d.params) || len(d.params[i]) == 0 {
		return 0
	}
	return d.params[i][0]
}

func (d *Decoder) subParam(i, j int) (int, bool) {
	if i < 0 || i >= len(d.params) || j >= len(d.params[i]) {
		return 0, false
	}
	return d.params[i][j], true
}

func (d *Decoder) feedCSI(b byte) (Event, error) {
	switch {
	case b == '<' && len(d.params) == 0 && !d.numAny:
		d.state = stMouseSGR
		return nil, nil
	case b == '?' && d.private == 0:
		d.private = '?'
		return nil, nil
	case b >= '0' && b <= '9':
		d.pushDigit(b)
		return nil, nil
	case b == ';':
		d.pushParam()
		return nil, nil
	case b == ':':
		if len(d.curSub) < maxSubParams {
			d.pushSubParam()
		} else {
			d.curNum = 0
			d.numAny = false
		}
		return nil, nil
	case b >= 0x40 && b <= 0x7e, b == '$' && d.private == 0:
		// '$' is rxvt's terminator for shifted navigation keys.
		d.pushParam()
		ev := d.dispatchCSI(b)
		if d.state == stCSI {
			// dispatchCSI may have moved to Paste (CSI 200 ~); only a
			// dispatch that stayed put falls back to Ground here.
			d.state = stGround
		}
		return ev, nil
	case b >= 0x20 && b <= 0x3f:
		// Intermediate byte (other than the rxvt '$' handled above):
		// none of the finals dispatched below carry one, so it is simply
		// absorbed.
		return nil, nil
	default:
		d.clear()
		return nil, nil
	}
}

func (d *Decoder) dispatchCSI(final byte) Event {
	switch final {
	case 'A', 'B', 'C', 'D', 'H', 'F', 'Z':
		key := csiLetterKeys[final]
		mods, _ := d.subParam(1, 0)
		return &Key{Special: key, Mods: modifiersFromParam(mods)}
	case 'I':
		return Focus(true)
	case 'O':
		return Focus(false)
	case '~':
		code := d.param(0)
		if code == 200 {
			d.state = stPaste
			d.paste = make([]byte, 0, pasteBufInit)
			d.pasteMatch = nil
			return nil
		}
		if code == 201 {
			return nil
		}
		key, ok := csiTildeKeys[code]
		if !ok {
			return nil
		}
		mods, _ := d.subParam(1, 0)
		return &Key{Special: key, Mods: modifiersFromParam(mods)}
	case '$':
		// rxvt terminates shifted navigation keys with $ instead of ~.
		code := d.param(0)
		key, ok := csiTildeKeys[code]
		if !ok {
			return nil
		}
		return &Key{Special: key, Mods: ModShift}
	case 'u':
		return d.dispatchKitty()
	}
	return nil
}

func (d *Decoder) dispatchKitty() Event {
	cp := rune(d.param(0))
	modParam, _ := d.subParam(1, 0)
	if evType, ok := d.subParam(1, 1); ok && evType == 3 {
		return nil // key-release event; only presses and repeats are reported
	}
	mods := modifiersFromParam(modParam)

	if cp >= 0xE000 && cp <= 0xE0FF {
		if key, ok := kittyPUAKeys[cp]; ok {
			return &Key{Special: key, Mods: mods}
		}
	}
	if key, ok := kittyNumpadKeys[cp]; ok {
		return &Key{Special: key, Mods: mods}
	}
	switch cp {
	case 9:
		return &Key{Special: KeyTab, Mods: mods}
	case 13:
		return &Key{Special: KeyEnter, Mods: mods}
	case 27:
		return &Key{Special: KeyEscape, Mods: mods}
	case 127:
		return &Key{Special: KeyBackspace, Mods: mods}
	}
	if cp >= 1 && cp <= 26 {
		return &Key{Codepoint: rune('a' + cp - 1), Mods: mods | ModCtrl}
	}
	return &Key{Codepoint: cp, Mods: mods}
}

func (d *Decoder) feedMouseSGR(b byte) (Event, error) {
	switch {
	case b >= '0' && b <= '9':
		d.pushDigit(b)
		return nil, nil
	case b == ';':
		d.pushParam()
		return nil, nil
	case b == 'M' || b == 'm':
		d.pushParam()
		ev := d.dispatchMouse(b == 'm')
		d.state = stGround
		return ev, nil
	default:
		d.clear()
		return nil, nil
	}
}

func (d *Decoder) dispatchMouse(release bool) Event {
	cb := d.param(0)
	x := d.param(1) - 1
	y := d.param(2) - 1

	var mods Modifiers
	if cb&4 != 0 {
		mods |= ModShift
	}
	if cb&8 != 0 {
		mods |= ModAlt
	}
	if cb&16 != 0 {
		mods |= ModCtrl
	}

	base := cb & 0x43
	var button MouseButton
	switch base {
	case 0:
		button = MouseLeft
	case 1:
		button = MouseMiddle
	case 2:
		button = MouseRight
	case 64:
		button = MouseWheelUp
	case 65:
		button = MouseWheelDown
	default:
		button = MouseLeft
	}
	isWheel := base == 64 || base == 65
	if !isWheel && cb&32 != 0 {
		button = MouseMove
	}
	if !isWheel && release {
		button = MouseRelease
	}
	return &Mouse{X: x, Y: y, Button: button, Mods: mods}
}

func (d *Decoder) feedSS3(b byte) (Event, error) {
	d.state = stGround
	if key, ok := ss3Keys[b]; ok {
		return &Key{Special: key}, nil
	}
	return nil, nil
}

func (d *Decoder) appendPaste(b byte) error {
	if len(d.paste) >= pasteBufCap {
		d.clear()
		return ErrPasteOverflow
	}
	if len(d.paste) == cap(d.paste) {
		grown := make([]byte, len(d.paste), min(cap(d.paste)*2, pasteBufCap))
		copy(grown, d.paste)
		d.paste = grown
	}
	d.paste = append(d.paste, b)
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// feedPaste matches the paste end marker with a rolling candidate
// buffer no longer than the end sequence; any byte that breaks the
// match gets flushed into the paste body (one byte at a time,
// re-checking the shrunk candidate against the marker each time), and
// the match resumes from there. An exact-length match emits Paste.
func (d *Decoder) feedPaste(b byte) (Event, error) {
	d.pasteMatch = append(d.pasteMatch, b)
	for len(d.pasteMatch) > 0 && !isPrefixOf(pasteEndSeq, d.pasteMatch) {
		if err := d.appendPaste(d.pasteMatch[0]); err != nil {
			return nil, err
		}
		d.pasteMatch = d.pasteMatch[1:]
	}
	if len(d.pasteMatch) == len(pasteEndSeq) {
		body := d.paste
		d.state = stGround
		d.paste = nil
		d.pasteMatch = nil
		return Paste(body), nil
	}
	return nil, nil
}

// isPrefixOf reports whether sub is a prefix of full.
func isPrefixOf(full, sub []byte) bool {
	if len(sub) > len(full) {
		return false
	}
	for i := range sub {
		if sub[i] != full[i] {
			return false
		}
	}
	return true
}

func (d *Decoder) beginUtf8(lead byte, alt bool) (Event, error) {
	var need int
	var val rune
	switch {
	case lead&0xe0 == 0xc0:
		need = 1
		val = rune(lead & 0x1f)
	case lead&0xf0 == 0xe0:
		need = 2
		val = rune(lead & 0x0f)
	case lead&0xf8 == 0xf0:
		need = 3
		val = rune(lead & 0x07)
	default:
		d.state = stGround
		return nil, nil
	}
	d.utf8Need = need
	d.utf8Got = 0
	d.utf8Val = val
	d.escAlt = alt
	if alt {
		d.state = stUtf8Alt
	} else {
		d.state = stUtf8
	}
	return nil, nil
}

func (d *Decoder) feedUtf8(b byte) (Event, error) {
	if b&0xc0 != 0x80 {
		// Invalid continuation byte: reset to Ground and reprocess this
		// byte as if freshly arrived.
		d.state = stGround
		return d.Feed(b)
	}
	d.utf8Val = d.utf8Val<<6 | rune(b&0x3f)
	d.utf8Got++
	if d.utf8Got < d.utf8Need {
		return nil, nil
	}
	mods := Modifiers(0)
	if d.escAlt {
		mods = ModAlt
	}
	val := d.utf8Val
	d.state = stGround
	return &Key{Codepoint: val, Mods: mods}, nil
}
