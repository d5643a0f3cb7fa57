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

// Package termgrid provides a low-level, portable API for building
// programs that draw directly into terminal cells. It decodes raw
// terminal input (keys, mouse, bracketed paste, focus, resize) into a
// canonical event stream, composes a z-ordered tree of drawable planes
// into a single target buffer, and flushes only the cells that changed
// as a minimal escape-sequence diff — downgrading color to whatever
// depth the terminal actually supports.
//
// Terminal ties the pieces (backend, input, render, plane) into one
// lifecycle: Open, draw into Root() or additional planes, Render, and
// Close.
package termgrid
