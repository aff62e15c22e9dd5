// Package manifest loads declarative route tables into a dispatch router.
//
// A manifest is a JSON document:
//
//	{
//	  "routes": [
//	    {"name": "/", "body": "home"},
//	    {"name": "/users/:id", "body": "user {id}"},
//	    {"name": "/old/:id", "redirect": "/users/{id}"}
//	  ],
//	  "notFound": {"status": 404, "body": "no such page"}
//	}
//
// Routes are registered in file order, so a later entry with the same
// canonical name replaces an earlier one, and the first parametric name used
// at a position is the one bound for every route through it. Body and
// redirect templates reference parameters by that bound name.
//
// Manifests are read from a Source: a local file or an S3 object.
package manifest
