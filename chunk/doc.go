// Package chunk splits extracted documents into overlapping, structure-aware
// segments and annotates each segment with derived semantic metadata:
// a priority-ordered semantic type, multi-match content categories, regex
// content flags, and urgency/exclusion indicators.
//
// Three strategies are selected by document structure: one chunk per
// non-empty page for paged documents, heading-delimited buffers for
// structured documents, and sliding word windows for everything else.
package chunk
