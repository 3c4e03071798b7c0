// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import "strings"

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// repairJSON fixes the formatting defect small local models most often
// produce in structured answers: an object key missing its opening quote,
// e.g. `{answer": ...}` or `, confidence": ...`. Input it cannot recognize
// passes through unchanged; the caller treats unparseable output as plain
// text rather than failing.
func repairJSON(s string) string {
	runes := []rune(s)
	var out strings.Builder
	out.Grow(len(runes) + 16)

	for i := 0; i < len(runes); {
		ch := runes[i]
		out.WriteRune(ch)
		i++

		// Keys only appear after an object open or a field separator
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(runes) && (runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t') {
			out.WriteRune(runes[i])
			i++
		}

		if i >= len(runes) || runes[i] == '"' || !isLetter(runes[i]) {
			continue
		}

		// Candidate unquoted key
		start := i
		for i < len(runes) && (isLetter(runes[i]) || runes[i] == '_' || runes[i] == ' ') {
			i++
		}
		key := string(runes[start:i])

		if i+1 < len(runes) && runes[i] == '"' && runes[i+1] == ':' {
			// `key":` with the opening quote dropped. The closing quote is
			// already in the input, so only the opening one is inserted.
			out.WriteRune('"')
			out.WriteString(strings.Trim(key, " "))
			continue
		}

		// Not a key after all; emit what was consumed unchanged
		out.WriteString(key)
	}

	return out.String()
}
