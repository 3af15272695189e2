// Package query defines the typed shape of a BI query result as delivered
// by the host: field metadata, rows of cells keyed by field name, optional
// drill-through links, and the chart configuration.
//
// Rows used to be addressed as row[dimension.name].value; here a [Row] maps
// a field name to a [Cell] with explicit accessors for the numeric measure
// ([Cell.Float]) and the taxonomy key of a dimension value ([Cell.Key]).
//
// # Shape validation
//
// [Check] is the shared validation helper: given the response fields and a
// set of [Constraints] it reports the first violated bound as an
// INVALID_QUERY_SHAPE error. [TreemapConstraints] requires at least one
// dimension, exactly one measure and no pivots.
//
// # Decoding
//
// [Decode] and [ReadFile] accept JSON (via goccy/go-json) and YAML.
//
//	resp, err := query.ReadFile("orders.json")
//	if err := query.Check(resp.Fields, query.TreemapConstraints); err != nil {
//	    return err
//	}
//	for _, row := range resp.Data {
//	    path := query.Taxonomy(row, resp.Fields.Dimensions)
//	    ...
//	}
package query
