// Package io reads concept lattices from JSON and writes analysis results.
//
// # Input Formats
//
// Two dataset shapes are accepted. The graph form lists concepts and order
// edges directly:
//
//	{
//	  "nodes": [
//	    {"id": "1", "label": "Extent{o1, o2} Intent{}", "level": 1},
//	    {"id": "2", "label": "Extent{o1} Intent{a1}", "level": 2}
//	  ],
//	  "links": [
//	    {"source": "2", "target": "1"}
//	  ]
//	}
//
// A link reads "source is a subconcept of target". Node IDs and link
// endpoints may be strings or numbers; an endpoint may also be an object
// carrying an "id" field. Numeric and string IDs match loosely, so 2, "2"
// and "2.0" name the same concept. "level" is optional.
//
// The raw form is a serialized lattice with object and property tables:
//
//	{
//	  "objects": ["duck", "swan"],
//	  "properties": ["bird", "swims"],
//	  "lattice": [
//	    [[0, 1], [0], [], [1]],
//	    [[0], [0, 1], [0], []]
//	  ]
//	}
//
// Each lattice entry is [extent indices, intent indices, upper neighbor
// indices, lower neighbor indices]. [FromRaw] converts it to the graph
// form: entry i becomes concept i+1, labels are synthesized from the
// tables, and levels are derived from the upper neighbors.
//
// # Errors
//
// A dataset without a "nodes" or "links" array (and without a "lattice"
// array) is rejected with an INVALID_INPUT error; malformed JSON yields
// INVALID_FORMAT. Problems with individual items are not errors: a node
// without an ID is skipped with a warning, and links to unknown concepts
// are kept and skipped later by the order builder.
//
// # Export
//
// [WriteJSON] and [ExportJSON] encode any value as indented JSON. Use
// [ToGraph] to export a lattice in the graph form for a round trip.
package io
