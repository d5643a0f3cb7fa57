//go:build windows

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

package windows

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/gdamore/termgrid/input"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	procReadConsoleInput  = kernel32.NewProc("ReadConsoleInputW")
	procGetNumberOfEvents = kernel32.NewProc("GetNumberOfConsoleInputEvents")
)

// Raw INPUT_RECORD layout (wincon.h): a uint16 EventType tag followed by
// a union big enough for the largest member (KEY_EVENT_RECORD).
type rawInputRecord struct {
	eventType uint16
	_         uint16 // alignment padding
	event     [16]byte
}

const (
	keyEventType          = 0x0001
	mouseEventType        = 0x0002
	windowBufferSizeEvent = 0x0004
	focusEventType        = 0x0010
)

type recKind int

const (
	recKey recKind = iota
	recMouse
	recResize
	recFocus
)

// inputRecord is the platform-neutral shape translate() works with,
// decoded from whichever union member rawInputRecord.event actually
// holds.
type inputRecord struct {
	kind    recKind
	keyDown bool
	vk      uint16
	char    uint16
	mods    input.Modifiers

	mouseX, mouseY int
	mouseButtons   uint32
	mouseFlags     uint32

	width, height int

	focused bool
}

// readConsoleInput drains every currently queued record via
// ReadConsoleInputW and decodes each into an inputRecord.
func readConsoleInput(h windows.Handle) ([]inputRecord, error) {
	var count uint32
	if r, _, err := procGetNumberOfEvents.Call(uintptr(h), uintptr(unsafe.Pointer(&count))); r == 0 {
		return nil, err
	}
	if count == 0 {
		count = 1
	}
	raws := make([]rawInputRecord, count)
	var read uint32
	r, _, err := procReadConsoleInput.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&raws[0])),
		uintptr(count),
		uintptr(unsafe.Pointer(&read)),
	)
	if r == 0 {
		return nil, err
	}

	out := make([]inputRecord, 0, read)
	for i := 0; i < int(read); i++ {
		if rec, ok := decodeRecord(&raws[i]); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func decodeRecord(raw *rawInputRecord) (inputRecord, bool) {
	switch raw.eventType {
	case keyEventType:
		ev := (*keyEventRecord)(unsafe.Pointer(&raw.event[0]))
		return inputRecord{
			kind:    recKey,
			keyDown: ev.bKeyDown != 0,
			vk:      ev.wVirtualKeyCode,
			char:    ev.unicodeChar,
			mods:    modsFromControlState(ev.dwControlKeyState),
		}, true
	case mouseEventType:
		ev := (*mouseEventRecord)(unsafe.Pointer(&raw.event[0]))
		return inputRecord{
			kind:         recMouse,
			mouseX:       int(ev.x),
			mouseY:       int(ev.y),
			mouseButtons: ev.buttonState,
			mouseFlags:   ev.eventFlags,
			mods:         modsFromControlState(ev.controlKeyState),
		}, true
	case windowBufferSizeEvent:
		ev := (*windowBufferSizeRecord)(unsafe.Pointer(&raw.event[0]))
		return inputRecord{kind: recResize, width: int(ev.x), height: int(ev.y)}, true
	case focusEventType:
		ev := (*focusEventRecord)(unsafe.Pointer(&raw.event[0]))
		return inputRecord{kind: recFocus, focused: ev.bSetFocus != 0}, true
	default:
		return inputRecord{}, false
	}
}

type keyEventRecord struct {
	bKeyDown          int32
	wRepeatCount      uint16
	wVirtualKeyCode   uint16
	wVirtualScanCode  uint16
	unicodeChar       uint16
	dwControlKeyState uint32
}

type mouseEventRecord struct {
	x, y            int16
	buttonState     uint32
	controlKeyState uint32
	eventFlags      uint32
}

type windowBufferSizeRecord struct {
	x, y int16
}

type focusEventRecord struct {
	bSetFocus int32
}

const (
	shiftPressed     = 0x0010
	leftCtrlPressed  = 0x0008
	rightCtrlPressed = 0x0004
	leftAltPressed   = 0x0002
	rightAltPressed  = 0x0001
)

func modsFromControlState(state uint32) input.Modifiers {
	var m input.Modifiers
	if state&shiftPressed != 0 {
		m |= input.ModShift
	}
	if state&(leftCtrlPressed|rightCtrlPressed) != 0 {
		m |= input.ModCtrl
	}
	if state&(leftAltPressed|rightAltPressed) != 0 {
		m |= input.ModAlt
	}
	return m
}

// virtualKeyTable maps the Win32 virtual-key codes the console reports
// to the corresponding special keys.
var virtualKeyTable = map[uint16]input.SpecialKey{
	0x1B: input.KeyEscape,
	0x0D: input.KeyEnter,
	0x09: input.KeyTab,
	0x08: input.KeyBackspace,
	0x2E: input.KeyDelete,
	0x2D: input.KeyInsert,
	0x24: input.KeyHome,
	0x23: input.KeyEnd,
	0x21: input.KeyPageUp,
	0x22: input.KeyPageDown,
	0x26: input.KeyUp,
	0x28: input.KeyDown,
	0x25: input.KeyLeft,
	0x27: input.KeyRight,
	0x70: input.KeyF1,
	0x71: input.KeyF2,
	0x72: input.KeyF3,
	0x73: input.KeyF4,
	0x74: input.KeyF5,
	0x75: input.KeyF6,
	0x76: input.KeyF7,
	0x77: input.KeyF8,
	0x78: input.KeyF9,
	0x79: input.KeyF10,
	0x7A: input.KeyF11,
	0x7B: input.KeyF12,
}

// translateMouseRecord maps a decoded mouse record to an input.Mouse
// event: 0-indexed coordinates, button classification, modifiers.
func translateMouseRecord(rec inputRecord) input.Event {
	const (
		mouseMoved   = 0x0001
		mouseWheeled = 0x0004
	)
	button := input.MouseRelease
	switch {
	case rec.mouseFlags&mouseWheeled != 0:
		if int32(rec.mouseButtons) > 0 {
			button = input.MouseWheelUp
		} else {
			button = input.MouseWheelDown
		}
	case rec.mouseFlags&mouseMoved != 0:
		button = input.MouseMove
	case rec.mouseButtons&0x0001 != 0:
		button = input.MouseLeft
	case rec.mouseButtons&0x0002 != 0:
		button = input.MouseRight
	case rec.mouseButtons&0x0004 != 0:
		button = input.MouseMiddle
	}
	return &input.Mouse{X: rec.mouseX, Y: rec.mouseY, Button: button, Mods: rec.mods}
}
