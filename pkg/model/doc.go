// Package model defines the records served by the languages and conversions APIs.
//
// Both record kinds carry an integer id assigned by the backend when the
// record is created. The id never changes afterwards; updates replace every
// other field. Anything that has an id satisfies Identifiable, which is what
// delete operations accept, so callers can pass either a full record or a raw
// ID.
package model
