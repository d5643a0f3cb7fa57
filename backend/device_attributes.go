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

package backend

import "strings"

// DeviceAttributesRequest is the Primary Device Attributes query a
// backend sends when Options.ProbeDeviceAttributes is set — an optional
// enhancement beyond the env-var-only default probe, gated behind
// opt-in so the default behavior never blocks on a terminal that
// doesn't answer.
const DeviceAttributesRequest = "\x1b[c"

// ParseDeviceAttributesResponse scans data for a `CSI ? Ps ; Ps... c`
// Primary Device Attributes reply and reports whether attribute 4
// (sixel graphics) was among its parameters. Other attributes terminals
// advertise (ReGIS, national charset, …) have no corresponding
// Capabilities field and are not parsed speculatively.
func ParseDeviceAttributesResponse(data []byte) (sixel, ok bool) {
	s := string(data)
	start := strings.Index(s, "\x1b[?")
	if start < 0 {
		return false, false
	}
	s = s[start+3:]
	end := strings.IndexByte(s, 'c')
	if end < 0 {
		return false, false
	}
	for _, part := range strings.Split(s[:end], ";") {
		if part == "4" {
			sixel = true
		}
	}
	return sixel, true
}
