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


// Package search provides hybrid retrieval over the lexical index: two
// independent scoring passes (index similarity and raw keyword overlap) fused
// into one ranked list, plus intent-driven orchestration that merges
// metadata-filtered results ahead of unfiltered candidates.
//
// Both passes are lexical. The "semantic" label on the index pass is kept for
// compatibility with the fusion weights; no embeddings are involved.
package search
