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

package cellbuf

// AttrMask is a bitset of SGR-style rendering attributes, restricted to
// exactly what the renderer's SGR emitter understands.
type AttrMask uint16

const (
	AttrBold AttrMask = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrikethrough
)

// Has reports whether every bit in want is set in m.
func (m AttrMask) Has(want AttrMask) bool { return m&want == want }

// Set returns m with the bits in flags turned on.
func (m AttrMask) Set(flags AttrMask) AttrMask { return m | flags }

// Clear returns m with the bits in flags turned off.
func (m AttrMask) Clear(flags AttrMask) AttrMask { return m &^ flags }
