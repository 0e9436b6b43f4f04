// Package docs Facility Locator API.
//
// Service that resolves free-form Korean retail outlet queries into the
// nearest fire station. The outlet name is extracted from the query text
// with a generative model backed by pattern fallbacks, located in the
// store shapefile dataset and paired with the closest station from the
// fire station dataset. Responses are GeoJSON FeatureCollections with a
// human-readable summary, or a plain answer text when a stage cannot
// complete.
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
