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


package storage

import "errors"

var (
	// ErrNotFound indicates that no document or query record exists for the
	// given ID.
	ErrNotFound = errors.New("record not found")

	// ErrSerializationFailed indicates that a record could not be encoded
	// for storage or decoded from a stored value.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData indicates that a stored value ended before the
	// record was fully read.
	ErrTruncatedData = errors.New("truncated data")
)
