// Package store provides the DynamoDB access layer for the product catalog.
//
// Shelf keeps the whole catalog in a single table keyed by productId, with
// two global secondary indexes (category and brand, both sorted by name)
// for the alternate list orders the API exposes.
//
// # Operations
//
//   - [Store.GetProduct] - primary-key read
//   - [Store.CreateProduct] - server-generated id and timestamps, single put
//   - [Store.UpdateProduct] - existence check, truthy partial merge, conditional update
//   - [Store.DeleteProduct] - existence check, unconditional delete
//   - [Store.ListProducts] - index query or filtered scan, one page per call
//
// # Read routing
//
// ListProducts picks the read path from the filters it is given: a category
// filter queries CategoryIndex, a brand filter queries BrandIndex (category
// wins when both are present), and anything else falls back to a table scan
// with an optional contains() filter on name. Scan filtering happens after
// the page is fetched, so a filtered page may hold fewer than Limit items
// even when more matches exist further on.
//
// # Documents
//
// Products are open documents ([Product], a plain attribute map). Only
// productId, name, category, brand and the managed timestamps mean anything
// to this package; every other field round-trips through DynamoDB verbatim.
//
// # Consistency
//
// Primary-key reads are strongly consistent; the two indexes are eventually
// consistent, so a list immediately after a create may not see the new item.
// Update and delete are read-then-write sequences without a version check:
// concurrent updates to one product can interleave and the later write wins.
//
// # Errors
//
//   - [ErrNotFound] - product does not exist, on get/update/delete
//
// Anything else is a transport or service failure returned as-is for the
// handler boundary to report.
package store
