package store

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item attribute names. Everything outside this set passes through the
// store untouched.
const (
	AttrProductID      = "productId"
	AttrName           = "name"
	AttrCategory       = "category"
	AttrBrand          = "brand"
	AttrSpecifications = "specifications"
	AttrCreatedAt      = "createdAt"
	AttrUpdatedAt      = "updatedAt"
)

// mutableAttrs are the fields an update request may replace, in the order
// they appear in the update expression.
var mutableAttrs = []string{AttrName, AttrCategory, AttrBrand, AttrSpecifications}

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// Product is a catalog item as an open attribute map. Required fields are
// validated at the API boundary; unknown fields are stored and returned
// verbatim.
type Product map[string]any

// ProductID returns the product's id, or "" if unset.
func (p Product) ProductID() string {
	id, _ := p[AttrProductID].(string)
	return id
}

// Field returns the named field as a string, or "" if absent or not a string.
func (p Product) Field(name string) string {
	v, _ := p[name].(string)
	return v
}

// clone returns a shallow copy of the product.
func (p Product) clone() Product {
	out := make(Product, len(p)+3)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// productKey builds the primary key for a productId.
func productKey(id string) PK {
	return PK{
		AttrProductID: &types.AttributeValueMemberS{Value: id},
	}
}

// supplied reports whether a patch value counts as present for the partial
// merge. Empty strings, false, zero numbers and nulls mean "not supplied";
// a client cannot clear a field through update.
func supplied(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

// ListInput selects a read path and a page for ListProducts.
type ListInput struct {
	// Category routes to the category index when non-empty. Takes
	// priority over Brand.
	Category string

	// Brand routes to the brand index when non-empty and Category is not set.
	Brand string

	// NameContains applies a substring filter on name during a scan.
	// Ignored on the index paths.
	NameContains string

	// Limit is the page size (0 = config default).
	Limit int32

	// StartKey resumes a prior page (nil = start from the beginning).
	StartKey PK
}

// ListResult is one page of products.
type ListResult struct {
	// Items is the page of products, post-filter.
	Items []Product

	// LastKey resumes the next page, nil when the traversal is exhausted.
	LastKey PK

	// Count is the number of items in this page.
	Count int
}
