// Package poem provides the record model for a stanza poem collection.
//
// A collection is a JSON array of objects. Two fields matter to stanza:
//   - id: rewritten on every arrangement, never trusted on input
//   - category: optional label; absent, null and "" all mean uncategorized
//
// Every other field is opaque payload. Records keep their original key
// order and raw value bytes so that rewriting a collection only changes
// the id values and the element order.
//
// This package imports nothing internal. All other internal packages
// import poem.
package poem
